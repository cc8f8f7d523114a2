package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// sessionLine is the subset of a Claude Code session JSONL entry we replay.
type sessionLine struct {
	Type      string `json:"type"`
	UUID      string `json:"uuid"`
	Timestamp string `json:"timestamp"`
	IsMeta    bool   `json:"isMeta"`
	Message   *struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// LoadSession reads a Claude Code session log as one conversation.
// User text becomes a "human" message and assistant text an "assistant"
// message; consecutive assistant entries (one per streamed content block)
// are merged. Tool calls, tool results and meta lines carry no chat text
// and are skipped, as are lines that fail to parse.
func LoadSession(path string) (Conversation, error) {
	f, err := os.Open(path)
	if err != nil {
		return Conversation{}, fmt.Errorf("open session: %w", err)
	}
	defer f.Close()

	conv := Conversation{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}

	scanner := bufio.NewScanner(f)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, 10*1024*1024) // 10MB max

	lineNo := 0
	skipped := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var line sessionLine
		if err := json.Unmarshal(raw, &line); err != nil {
			skipped++
			slog.Warn("skipping malformed session line",
				slog.String("path", path),
				slog.Int("line", lineNo),
				slog.Any("error", err))
			continue
		}
		if line.Message == nil || line.IsMeta {
			continue
		}

		text := contentText(line.Message.Content)
		if text == "" {
			continue
		}

		switch line.Type {
		case "user":
			conv.ChatMessages = append(conv.ChatMessages, Message{
				UUID: line.UUID, Sender: "human", Text: &text, CreatedAt: line.Timestamp,
			})
		case "assistant":
			if n := len(conv.ChatMessages); n > 0 && conv.ChatMessages[n-1].Sender == "assistant" {
				merged := conv.ChatMessages[n-1].Body() + "\n" + text
				conv.ChatMessages[n-1].Text = &merged
				continue
			}
			conv.ChatMessages = append(conv.ChatMessages, Message{
				UUID: line.UUID, Sender: "assistant", Text: &text, CreatedAt: line.Timestamp,
			})
		}
	}

	if err := scanner.Err(); err != nil {
		return Conversation{}, fmt.Errorf("scan session: %w", err)
	}

	slog.Debug("loaded session",
		slog.String("path", path),
		slog.Int("messages", len(conv.ChatMessages)),
		slog.Int("skipped", skipped))
	return conv, nil
}

// contentText extracts chat text from a message content field, which is
// either a plain string or an array of typed blocks.
func contentText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str)
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var texts []string
	for _, b := range blocks {
		if b.Type == "text" && strings.TrimSpace(b.Text) != "" {
			texts = append(texts, b.Text)
		}
	}
	return strings.Join(texts, "\n")
}
