package db

import "errors"

// Domain-level database error sentinels.
var (
	// Unanswered question errors
	ErrQuestionNotFound = errors.New("unanswered question not found")
	ErrEmptyQuestion    = errors.New("question is empty")
)
