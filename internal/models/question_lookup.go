package models

import (
	"time"

	"github.com/google/uuid"
)

// Question outcome constants
const (
	OutcomeAnswered = "answered"
	OutcomeFallback = "fallback"
)

// FallbackEntry is the entry label recorded for questions that matched nothing.
const FallbackEntry = "none"

// QuestionLookup represents a per-entry question count by outcome.
type QuestionLookup struct {
	Entry      string    `json:"entry"` // "category.key", or FallbackEntry
	Outcome    string    `json:"outcome"`
	Count      int64     `json:"count"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// UnansweredQuestion is a normalised question that no entry matched.
type UnansweredQuestion struct {
	ID          uuid.UUID  `json:"id"`
	Question    string     `json:"question"`
	Count       int64      `json:"count"`
	FirstSeenAt time.Time  `json:"first_seen_at"`
	LastSeenAt  time.Time  `json:"last_seen_at"`
	DigestedAt  *time.Time `json:"digested_at,omitempty"`
}
