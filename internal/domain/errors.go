package domain

import (
	"errors"
	"fmt"
)

var (
	ErrGoalNotFound         = errors.New("goal not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrProfileNotFound      = errors.New("preference profile not found")
	ErrPurchaseNotFound     = errors.New("purchase not found")
)

// ValidationError names the offending field so clients can surface it.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
