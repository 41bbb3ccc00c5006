// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Commit errors.
	ErrValidation       = errors.New("validation failed")
	ErrWriteFailure     = errors.New("write failed")
	ErrCommitInProgress = errors.New("a purchase is already being saved")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// User-facing messages.
const (
	MsgRequiredFields = "Please fill in all required fields"
	MsgSaveFailed     = "Failed to save purchase"
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

// ValidationError reports a missing or malformed purchase field. It is
// raised before any write is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is lets errors.Is match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a validation error for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// CommitStep names one write in the commit sequence.
type CommitStep string

// Commit steps in execution order.
const (
	StepItem        CommitStep = "item"
	StepShop        CommitStep = "shop"
	StepTransaction CommitStep = "transaction"
)

// CommitError reports a write that failed partway through a commit.
// Completed lists the steps whose writes already reached the store; they
// are not rolled back, so ItemID and ShopID may point at records that
// were created or updated for a transaction that does not exist.
type CommitError struct {
	Err       error
	Step      CommitStep
	ItemID    string
	ShopID    string
	Completed []CommitStep
}

func (e *CommitError) Error() string {
	if len(e.Completed) == 0 {
		return fmt.Sprintf("%s write failed: %v", e.Step, e.Err)
	}
	done := make([]string, len(e.Completed))
	for i, s := range e.Completed {
		done[i] = string(s)
	}
	return fmt.Sprintf("%s write failed after %s: %v", e.Step, strings.Join(done, ", "), e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrWriteFailure.
func (e *CommitError) Is(target error) bool {
	return target == ErrWriteFailure
}

// Partial reports whether earlier writes of the commit were kept.
func (e *CommitError) Partial() bool {
	return len(e.Completed) > 0
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	// Check for specific retryable errors
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Check for retryable error type
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
