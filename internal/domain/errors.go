package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// sentinel errors describe rejected requests, not faults.
type sentinel string

func (s sentinel) Error() string  { return string(s) }
func (s sentinel) Expected() bool { return true }

const (
	ErrNotFound  sentinel = "not found"
	ErrForbidden sentinel = "you are not allowed to perform this action"
)

// ValidationError reports rejected input. Fields maps form field names to messages.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	if e.Message == "" {
		return strings.Join(parts, "; ")
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Expected() bool { return true }

// Add records a field error and returns the receiver for chaining.
func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
	return e
}

// OrNil returns nil when nothing was recorded, so callers can write `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if e == nil || (e.Message == "" && len(e.Fields) == 0) {
		return nil
	}
	if e.Message == "" {
		e.Message = "please correct the errors below"
	}
	return e
}

// ExternalToolError wraps a failure of a helper such as the PDF renderer.
type ExternalToolError struct {
	Tool string
	Err  error
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *ExternalToolError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
