package errs

import (
	"errors"
	"fmt"
)

// ErrNotFound reports an unknown session, question, group or topic.
// Recoverable: the caller retries with valid input.
var ErrNotFound = errors.New("not found")

// ValidationError reports a missing or malformed request field. Requests that
// fail validation are rejected before any session state is touched.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Msg == "" {
		return "missing " + e.Field
	}
	return e.Field + ": " + e.Msg
}

func Missing(field string) error { return &ValidationError{Field: field} }

// IntegrityError reports corrupted bank data found during ingestion.
// Fatal at startup: ingestion aborts instead of silently dropping records.
type IntegrityError struct {
	Msg string
}

func (e *IntegrityError) Error() string { return "integrity: " + e.Msg }

func Integrityf(format string, args ...any) error {
	return &IntegrityError{Msg: fmt.Sprintf(format, args...)}
}

// CollaboratorError wraps a failed call to an external collaborator (AI
// provider, cache store). Callers convert it to a degraded fallback payload
// rather than letting it crash a session.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *CollaboratorError) Unwrap() error { return e.Err }

func Collaborator(op string, err error) error { return &CollaboratorError{Op: op, Err: err} }
