package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized is returned when a write is attempted without an authenticated actor.
var ErrUnauthorized = errors.New("Unauthorized")

// ValidationError carries every human-readable rejection for a proposal.
// Compliance is set when at least one message comes from the prohibited-terms
// scan or the industry screen.
type ValidationError struct {
	Messages   []string
	Compliance bool
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NotFoundError reports an invalid or unresolvable identifier.
type NotFoundError struct {
	Message string
	// Invalid is set when the id could not be parsed, as opposed to not matching a record.
	Invalid bool
}

func (e *NotFoundError) Error() string { return e.Message }

// PersistenceError wraps an unexpected store failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
