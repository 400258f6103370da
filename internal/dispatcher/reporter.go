package dispatcher

import (
	"context"
	"fmt"

	"github.com/dshills/actionwire/internal/op"
)

// Unknown describes a record whose type has no registered handler.
type Unknown struct {
	Type   string
	Record op.Record
}

// Message returns the user-facing alert text for the unknown type. An
// untyped record is named "undefined".
func (u Unknown) Message() string {
	name := u.Type
	if name == "" {
		name = "undefined"
	}
	return fmt.Sprintf("No function %q defined!", name)
}

// UnknownReporter surfaces records that no handler could apply.
type UnknownReporter interface {
	ReportUnknown(ctx context.Context, u Unknown) error
}

// UnknownReporterFunc adapts a function to the UnknownReporter interface.
type UnknownReporterFunc func(ctx context.Context, u Unknown) error

// ReportUnknown calls f(ctx, u).
func (f UnknownReporterFunc) ReportUnknown(ctx context.Context, u Unknown) error {
	return f(ctx, u)
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(ctx context.Context, message string) error
}

// AlertReporter reports unknown types through a blocking alert.
type AlertReporter struct {
	Alerter Alerter
}

// ReportUnknown alerts `No function "<type>" defined!`.
func (r AlertReporter) ReportUnknown(ctx context.Context, u Unknown) error {
	if r.Alerter == nil {
		return nil
	}
	return r.Alerter.Alert(ctx, u.Message())
}
