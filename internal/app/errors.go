package app

import "errors"

// ErrNoMatch is returned when a selector names no element.
var ErrNoMatch = errors.New("app: selector matched nothing")

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
