package chat

import (
	"encoding/json"
	"fmt"

	"supportbot/internal/models"
)

// Transcript is the message history of one chat session. The first message
// is always the assistant's welcome.
type Transcript struct {
	Messages []models.Message `json:"messages"`
	limit    int
}

// NewTranscript starts a transcript with the welcome message. limit caps the
// number of messages kept; zero or less keeps everything.
func NewTranscript(welcome string, limit int) *Transcript {
	return &Transcript{
		Messages: []models.Message{models.NewMessage(models.RoleAssistantMessage, welcome)},
		limit:    limit,
	}
}

// DecodeTranscript restores a transcript saved with Encode. An empty or
// unreadable value starts a fresh transcript.
func DecodeTranscript(data, welcome string, limit int) (*Transcript, error) {
	if data == "" {
		return NewTranscript(welcome, limit), nil
	}

	t := &Transcript{limit: limit}
	if err := json.Unmarshal([]byte(data), t); err != nil {
		return NewTranscript(welcome, limit), fmt.Errorf("failed to decode transcript: %w", err)
	}
	if len(t.Messages) == 0 {
		return NewTranscript(welcome, limit), nil
	}
	return t, nil
}

// Encode serialises the transcript for session storage.
func (t *Transcript) Encode() (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("failed to encode transcript: %w", err)
	}
	return string(data), nil
}

// Append adds messages, dropping the oldest exchanges (never the welcome
// message) once the limit is reached.
func (t *Transcript) Append(msgs ...models.Message) {
	t.Messages = append(t.Messages, msgs...)
	if t.limit <= 0 || len(t.Messages) <= t.limit {
		return
	}

	keep := t.limit - 1
	if keep < 0 {
		keep = 0
	}
	trimmed := make([]models.Message, 0, t.limit)
	trimmed = append(trimmed, t.Messages[0])
	trimmed = append(trimmed, t.Messages[len(t.Messages)-keep:]...)
	t.Messages = trimmed
}

// Reset drops everything but the welcome message.
func (t *Transcript) Reset() {
	if len(t.Messages) > 1 {
		t.Messages = t.Messages[:1]
	}
}

// Stats counts total messages and visitor questions.
func (t *Transcript) Stats() (total, questions int) {
	for _, m := range t.Messages {
		if m.IsUser() {
			questions++
		}
	}
	return len(t.Messages), questions
}
