package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed or missing entity field. It is raised
// before any store write and is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports an operation against an id absent from the store.
// Not-found is deterministic: the simulated backend never samples its
// failure rate for it.
type NotFoundError struct {
	Table string
	ID    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Table, e.ID)
}

// TransientError reports a simulated server failure. Reads retry it with
// backoff; a failed optimistic write rolls back and leaves retrying to the
// caller.
type TransientError struct {
	Op string
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: internal server error", e.Op)
}

// IntegrityError reports a reference to a job that does not exist.
type IntegrityError struct {
	JobID string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("referenced job does not exist: %s", e.JobID)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
