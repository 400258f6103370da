package dispatcher

import (
	"errors"
	"fmt"
)

// Dispatcher errors.
var (
	// ErrNilHandler indicates a nil handler was registered for a type.
	ErrNilHandler = errors.New("dispatcher: nil handler")

	// ErrUnknownPolicy indicates an unrecognized failure policy name.
	ErrUnknownPolicy = errors.New("dispatcher: unknown failure policy")
)

// BatchError wraps a handler failure with its position in the batch.
type BatchError struct {
	Index int
	Type  string
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("dispatcher: operation %d (%s): %v", e.Index, e.Type, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// PanicError is returned in place of a handler panic when panic recovery is
// enabled.
type PanicError struct {
	Type  string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("dispatcher: handler panic for %s: %v", e.Type, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
