package lua

import "errors"

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a call runs past the state's
	// execution timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNotRecord is returned when a Lua value cannot become a record.
	ErrNotRecord = errors.New("lua value is not a record")
)
