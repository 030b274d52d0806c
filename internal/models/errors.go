package models

import (
	"errors"
	"strings"
)

var (
	ErrNoRecord             = errors.New("models: no matching record found")
	ErrConflict             = errors.New("models: record was modified by another request")
	ErrForeignKey           = errors.New("models: referenced record does not exist")
	ErrStillReferenced      = errors.New("models: record is still referenced by other records")
	ErrConfirmationRequired = errors.New("models: delete confirmation required")
	ErrIdempotencyInFlight  = errors.New("models: request with this idempotency key is in progress")
	ErrUnsupportedUserType  = errors.New("models: unsupported user type")
	ErrStorageDelete        = errors.New("storage: delete old object failed")
	ErrStorageUpload        = errors.New("storage: upload object failed")
)

// ValidationError carries every user-facing problem found in a request.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "\n")
}

// NewValidationError returns nil when msgs is empty.
func NewValidationError(msgs ...string) error {
	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Messages: msgs}
}
