package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRecord is wrapped by every decoding failure.
var ErrInvalidRecord = errors.New("invalid macro record")

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // Field path, e.g. "steps[2].confidence"
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
	Err    error  // Optional sentinel
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Key, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

// Unwrap exposes the individual failures and ErrInvalidRecord to errors.Is.
func (e *AggregateError) Unwrap() []error {
	return append([]error{ErrInvalidRecord}, e.Errors...)
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
