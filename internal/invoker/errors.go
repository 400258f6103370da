package invoker

import (
	"errors"
	"fmt"
)

// Transport failure categories, as reported in TransportError.StatusText.
const (
	StatusError      = "error"
	StatusParseError = "parsererror"
	StatusTimeout    = "timeout"
	StatusAbort      = "abort"
)

// ErrInvalidEndpoint is returned by New for an unusable endpoint URL.
var ErrInvalidEndpoint = errors.New("invoker: invalid endpoint")

// TransportError describes a request that did not produce a batch.
type TransportError struct {
	// Status is the HTTP status code, or 0 when no response arrived.
	Status int

	// StatusText is the failure category: StatusError, StatusParseError,
	// StatusTimeout or StatusAbort.
	StatusText string

	// Description is the HTTP reason phrase or the underlying error text.
	Description string

	Err error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("invoker: %s (%d): %s", e.StatusText, e.Status, e.Description)
	}
	return fmt.Sprintf("invoker: %s: %s", e.StatusText, e.Description)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
