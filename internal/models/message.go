package models

import (
	"time"

	"github.com/google/uuid"
)

// Message roles
const (
	RoleUserMessage      = "user"
	RoleAssistantMessage = "assistant"
)

// Message is one line of a chat transcript.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(role, content string) Message {
	return Message{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// IsUser returns true if the message was written by the visitor.
func (m Message) IsUser() bool {
	return m.Role == RoleUserMessage
}
