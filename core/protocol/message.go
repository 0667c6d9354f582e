// Package protocol defines the message types shared between the conversation
// core and the persistence/inference backend wire format.
package protocol

import "strings"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Valid reports whether the role is one of the two known authors.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}

// Message is a single entry in a conversation thread. A conversation is an
// append-only chronological sequence of Messages; the backend's stored order
// is authoritative.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// NewMessage creates a Message with the given role and text.
func NewMessage(role Role, text string) Message {
	return Message{Role: role, Text: text}
}

// Empty reports whether the message carries no visible content.
func (m Message) Empty() bool {
	return strings.TrimSpace(m.Text) == ""
}

// FirstUserText returns the text of the first user-authored message in msgs,
// or "" when no user message exists.
func FirstUserText(msgs []Message) string {
	for _, m := range msgs {
		if m.Role == RoleUser {
			return m.Text
		}
	}
	return ""
}
