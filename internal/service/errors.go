package service

import "errors"

var (
	ErrInvalid        = errors.New("invalid")
	ErrForbidden      = errors.New("forbidden")
	ErrFeedFetch      = errors.New("feed fetch failed")
	ErrAlreadyRunning = errors.New("already running")
)

// ValidationError carries a user-facing message for a rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
