package export

import (
	"github.com/randalmurphal/chatcost/replay"
)

// Conversation is one conversation in a Claude.ai export.
type Conversation struct {
	UUID         string    `json:"uuid,omitempty" jsonschema:"description=Conversation identifier"`
	Name         string    `json:"name" jsonschema:"description=Display title"`
	CreatedAt    string    `json:"created_at,omitempty"`
	UpdatedAt    string    `json:"updated_at,omitempty"`
	ChatMessages []Message `json:"chat_messages" jsonschema:"description=Messages in conversation order"`
}

// Message is one chat message in a Claude.ai export.
type Message struct {
	UUID      string  `json:"uuid,omitempty"`
	Sender    string  `json:"sender" jsonschema:"description=human or assistant"`
	Text      *string `json:"text,omitempty" jsonschema:"nullable,description=Message body; null is treated as empty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// Body returns the message text, or "" when absent.
func (m Message) Body() string {
	if m.Text == nil {
		return ""
	}
	return *m.Text
}

// ToReplay converts export conversations to replay input. Indexes are the
// 1-based positions within convs.
func ToReplay(convs []Conversation) []replay.Conversation {
	out := make([]replay.Conversation, len(convs))
	for i, c := range convs {
		out[i] = c.toReplay(i + 1)
	}
	return out
}

func (c Conversation) toReplay(index int) replay.Conversation {
	msgs := make([]replay.Message, len(c.ChatMessages))
	for i, m := range c.ChatMessages {
		msgs[i] = replay.Message{Sender: m.Sender, Text: m.Body()}
	}
	return replay.Conversation{
		Index:    index,
		Title:    c.Name,
		Messages: msgs,
	}
}
