package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	// ErrNotFound reports a key absent from the store. A lookup miss is a
	// normal outcome (the caller routes it to the prediction fallback),
	// never a pipeline failure.
	ErrNotFound = errors.New("not found")

	// ErrUnknownTagCode reports a byte in a trie value that the tag table
	// does not map.
	ErrUnknownTagCode = errors.New("unknown tag code")

	// ErrUnmappableTag reports a logical tag with no byte in the tag table.
	ErrUnmappableTag = errors.New("unmappable tag")

	// ErrMalformedRecord reports a single unparseable source line or trie
	// entry. The record is skipped and counted; the run continues.
	ErrMalformedRecord = errors.New("malformed source record")

	// ErrInvalidMorphology is raised in strict validation mode when a POS or
	// feature value falls outside the closed vocabulary. It aborts the
	// offending key only.
	ErrInvalidMorphology = errors.New("invalid morphology")

	// ErrKeyOrder reports an out-of-order key handed to the bulk loader.
	// This is a broken sort invariant in the caller, not a data problem,
	// and it is fatal.
	ErrKeyOrder = errors.New("key order violation")

	// ErrStorageCapacity reports that the store ran out of pre-sized map
	// space mid-load. Fatal; prevented by the sizing step, not caught.
	ErrStorageCapacity = errors.New("storage capacity exceeded")
)

// FieldError describes a validation problem for a specific POS or feature
// value.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates field-level morphology problems for one key.
type ValidationError struct {
	Key    string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation %q: %s: %s", e.Key, e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation %q: %d errors", e.Key, len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidMorphology }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(key, field, message string) *ValidationError {
	return &ValidationError{
		Key:    key,
		Errors: []FieldError{{Field: field, Message: message}},
	}
}
