package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/randalmurphal/chatcost/replay"
)

// ErrIndexOutOfRange indicates a conversation index beyond the export.
var ErrIndexOutOfRange = errors.New("conversation index out of range")

// Decode reads a Claude.ai export from r, validates it and decodes it.
func Decode(r io.Reader) ([]Conversation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse export json: %w", err)
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var convs []Conversation
	if err := json.Unmarshal(data, &convs); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return convs, nil
}

// Load reads and validates the Claude.ai export at path.
func Load(path string) ([]Conversation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	convs, err := Decode(f)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Source = path
		}
		return nil, err
	}

	slog.Debug("loaded export",
		slog.String("path", path),
		slog.Int("conversations", len(convs)))
	return convs, nil
}

// LoadAny loads conversations from path, reading .jsonl files as a Claude
// Code session and anything else as a Claude.ai export.
func LoadAny(path string) ([]Conversation, error) {
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		conv, err := LoadSession(path)
		if err != nil {
			return nil, err
		}
		return []Conversation{conv}, nil
	}
	return Load(path)
}

// Select returns the conversations to replay. Index 0 selects all of them;
// 1..len(convs) selects one. Selected conversations keep their 1-based
// position in convs as their index.
func Select(convs []Conversation, index int) ([]replay.Conversation, error) {
	if index == 0 {
		return ToReplay(convs), nil
	}
	if index < 0 || index > len(convs) {
		return nil, fmt.Errorf("%w: %d (export has %d conversations)", ErrIndexOutOfRange, index, len(convs))
	}
	return []replay.Conversation{convs[index-1].toReplay(index)}, nil
}
