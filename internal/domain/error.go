package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Common domain errors
	ErrNotFound         = errors.New("entity not found")
	ErrAlreadyExists    = errors.New("entity already exists")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrForbidden        = errors.New("caller does not own this resource")
	ErrUnauthorized     = errors.New("authentication required")
	ErrQuotaExceeded    = errors.New("session has reached maximum number of questions")
	ErrQueueUnavailable = errors.New("job queue unavailable")
	ErrRateLimited      = errors.New("too many requests")

	// Worker-side errors. Both end the current attempt; the queue's attempt
	// budget decides whether the job runs again.
	ErrEmptyCompletion     = errors.New("empty AI response")
	ErrMalformedCompletion = errors.New("AI response is not a valid question array")

	// OTP errors
	ErrOTPExpired  = errors.New("verification code expired or not issued")
	ErrOTPMismatch = errors.New("verification code does not match")
)

// ValidationError reports every invalid request field at once so the client
// can fix them in a single round trip.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid fields: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }

// NewValidationError returns nil when no fields are invalid.
func NewValidationError(fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
