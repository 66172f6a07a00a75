package models

import "errors"

// Sentinel error kinds for the data access layer. Callers wrap these
// with fmt.Errorf("...: %w", ...) and test with errors.Is, so detail is
// preserved instead of being collapsed to nil/false returns.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// KindError pairs a clean user-facing message with one of the sentinel
// kinds, so errors.Is still classifies it without the sentinel text
// leaking into responses.
type KindError struct {
	Kind    error
	Message string
}

func (e *KindError) Error() string { return e.Message }

func (e *KindError) Is(target error) bool { return target == e.Kind }

func NewValidationError(message string) error {
	return &KindError{Kind: ErrInvalidInput, Message: message}
}

func NewConflictError(message string) error {
	return &KindError{Kind: ErrConflict, Message: message}
}

func NewUnauthorizedError(message string) error {
	return &KindError{Kind: ErrUnauthorized, Message: message}
}
