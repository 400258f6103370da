package op

import (
	"errors"
	"fmt"
)

// Record and batch decoding errors.
var (
	// ErrNotObject indicates a record that is not a JSON object.
	ErrNotObject = errors.New("op: record is not a JSON object")

	// ErrMissingType indicates a record without a string "type" field.
	ErrMissingType = errors.New("op: record has no string type")

	// ErrNotBatch indicates a payload that cannot be read as an ordered
	// collection of records.
	ErrNotBatch = errors.New("op: payload is not a batch")
)

// RecordError reports a record inside a batch that failed to decode.
type RecordError struct {
	Index int    // Position in the batch
	Key   string // Object key when the payload was a keyed object
	Err   error
}

func (e *RecordError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("op: record %d (key %q): %v", e.Index, e.Key, e.Err)
	}
	return fmt.Sprintf("op: record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// ValidationError reports a record that does not satisfy its type's schema.
type ValidationError struct {
	Type string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("op: invalid %q record: %v", e.Type, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
