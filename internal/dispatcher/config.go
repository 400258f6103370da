package dispatcher

import (
	"fmt"
	"strings"
)

// FailurePolicy decides what ApplyAll does after a handler fails.
type FailurePolicy uint8

const (
	// PolicyAbort stops at the first failing record. Records before it stay
	// applied, records after it are not attempted.
	PolicyAbort FailurePolicy = iota

	// PolicyContinue attempts every record and returns all failures joined.
	PolicyContinue
)

// String returns the policy's configuration name.
func (p FailurePolicy) String() string {
	switch p {
	case PolicyAbort:
		return "abort"
	case PolicyContinue:
		return "continue"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", uint8(p))
	}
}

// ParseFailurePolicy parses "abort" or "continue". The empty string is
// PolicyAbort.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return PolicyAbort, nil
	case "continue":
		return PolicyContinue, nil
	default:
		return PolicyAbort, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Config holds dispatcher configuration options.
type Config struct {
	// FailurePolicy is used by appliers created from this dispatcher.
	FailurePolicy FailurePolicy

	// RecoverFromPanic converts handler panics into *PanicError.
	// When false a panicking handler unwinds through Dispatch.
	RecoverFromPanic bool

	// ValidateRecords checks each record against the validator's schema
	// for its type before the handler runs. Has no effect without a
	// validator.
	ValidateRecords bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		FailurePolicy:    PolicyAbort,
		RecoverFromPanic: false,
		ValidateRecords:  false,
	}
}

// WithFailurePolicy returns a copy of the config with the failure policy set.
func (c Config) WithFailurePolicy(p FailurePolicy) Config {
	c.FailurePolicy = p
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithValidation returns a copy of the config with record validation set.
func (c Config) WithValidation(validate bool) Config {
	c.ValidateRecords = validate
	return c
}
