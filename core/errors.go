/*
errors.go - Centralized error types for the timekeeper service

PURPOSE:
  All error types in one place for consistency and discoverability.
  Service packages return these (possibly wrapped); the API layer maps
  them to response codes in a single function.

ERROR CATEGORIES:
  1. Validation errors - Malformed input (bad month, bad dates)
  2. State errors - Operation not allowed in the current state
  3. Lookup errors - Missing users, sessions, leave requests

USAGE:
  if errors.Is(err, core.ErrNoOpenSession) {
      ...
  }

  var verr *core.ValidationError
  if errors.As(err, &verr) {
      // verr.Field, verr.Details
  }

SEE ALSO:
  - api/errors.go: Error to HTTP mapping
*/
package core

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidMonth is returned when a month string is not YYYY-MM.
	ErrInvalidMonth = errors.New("invalid month format, expected YYYY-MM")

	// ErrInvalidDate is returned when a date string cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrSessionAlreadyOpen is returned on clock-in while a session is running.
	ErrSessionAlreadyOpen = errors.New("an active time session already exists")

	// ErrNoOpenSession is returned when an operation needs a running session.
	ErrNoOpenSession = errors.New("no active time session found")

	// ErrSessionNotEditable is returned when editing a cancelled session.
	ErrSessionNotEditable = errors.New("session can no longer be edited")

	// ErrBreakAlreadyActive is returned when starting a second concurrent break.
	ErrBreakAlreadyActive = errors.New("a break is already active")

	// ErrNoActiveBreak is returned when ending a break that was never started.
	ErrNoActiveBreak = errors.New("no active break found")

	// ErrLeaveOverlap is returned when a leave collides with an approved one.
	ErrLeaveOverlap = errors.New("leave overlaps an approved leave")

	// ErrLeaveNotPending is returned when approving or rejecting a decided request.
	ErrLeaveNotPending = errors.New("only pending requests can be decided")

	// ErrUserNotFound, ErrSessionNotFound and ErrLeaveNotFound are lookup misses.
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("time session not found")
	ErrLeaveNotFound   = errors.New("leave request not found")

	// ErrForbidden is returned when the actor's role does not allow the action.
	ErrForbidden = errors.New("forbidden")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError describes a rejected input. Cause, when set, is a more
// specific sentinel such as ErrInvalidMonth.
type ValidationError struct {
	Field   string
	Message string
	Details map[string]any
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrValidation, e.Cause}
	}
	return []error{ErrValidation}
}

// NewValidationError builds a ValidationError for one field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StateError rejects an operation because of the record's current state.
// It unwraps to the sentinel it was built from.
type StateError struct {
	Err     error
	Message string // optional user-facing text; defaults to Err's
	Details map[string]any
}

func (e *StateError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}
func (e *StateError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input or state.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || IsConflict(err)
}

// IsConflict returns true for errors caused by the current state of a record.
func IsConflict(err error) bool {
	return errors.Is(err, ErrSessionAlreadyOpen) ||
		errors.Is(err, ErrNoOpenSession) ||
		errors.Is(err, ErrSessionNotEditable) ||
		errors.Is(err, ErrBreakAlreadyActive) ||
		errors.Is(err, ErrNoActiveBreak) ||
		errors.Is(err, ErrLeaveOverlap) ||
		errors.Is(err, ErrLeaveNotPending)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrLeaveNotFound)
}

// ErrorDetails extracts the Details map from a structured error, if any.
func ErrorDetails(err error) map[string]any {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Details
	}
	var serr *StateError
	if errors.As(err, &serr) {
		return serr.Details
	}
	return nil
}
