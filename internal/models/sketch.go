package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status is the processing state of a sketch. The happy path is
// pending -> processing -> completed; failed is reachable from either
// non-terminal state, since a submission can die before processing
// starts. Terminal states are never left except by deleting the record.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from s to next is a legal
// lifecycle transition.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusFailed
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	}
	return false
}

type Sketch struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	OriginalURL  string
	StoragePath  string
	ProcessedURL sql.NullString
	Status       Status
	// Prompt is the user-facing display name of the sketch. The column
	// name is historical; it is not a generation prompt.
	Prompt       sql.NullString
	ErrorMessage sql.NullString
	CreatedAt    time.Time
}
