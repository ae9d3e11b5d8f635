// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrDataFormat      = errors.New("invalid data format")
	ErrIndexOutOfRange = errors.New("row index out of range")

	// Classification errors.
	ErrPromptBuild       = errors.New("cannot build prompt")
	ErrMalformedResponse = errors.New("malformed model response")
	ErrUnknownCategory   = errors.New("category not in taxonomy")
	ErrTooManyCategories = errors.New("too many custom categories")
	ErrSelectionCanceled = errors.New("row selection canceled")
	ErrEmptyCompletion   = errors.New("no completion choices returned")

	// Configuration errors.
	ErrInvalidCredential = errors.New("invalid API credential")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// Describe maps an error to the message shown to the user.
func Describe(err error) string {
	var userErr *UserError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &userErr):
		return userErr.UserMessage
	case errors.Is(err, ErrInvalidCredential):
		return "Please enter the correct credentials"
	case errors.Is(err, ErrDataFormat):
		return "The transaction file could not be read"
	case errors.Is(err, ErrIndexOutOfRange):
		return "Please choose a row number inside the file"
	case errors.Is(err, ErrPromptBuild):
		return "The selected row is missing data needed for the prompt"
	case errors.Is(err, ErrMalformedResponse):
		return "The model reply was not in the expected format"
	case errors.Is(err, ErrUnknownCategory):
		return "The model suggested a category outside the list"
	case errors.Is(err, ErrTooManyCategories):
		return "At most two custom categories can be added"
	case errors.Is(err, ErrSelectionCanceled):
		return "No transaction was selected"
	case errors.Is(err, ErrInvalidConfig):
		return "Please check the configuration"
	case errors.Is(err, context.DeadlineExceeded):
		return "The model did not answer in time"
	case errors.Is(err, context.Canceled):
		return "Classification was canceled"
	default:
		return "Classification failed"
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
