package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/dshills/actionwire/internal/op"
)

// Dispatcher applies single records through the registry.
type Dispatcher struct {
	mu sync.RWMutex

	registry  *Registry
	reporter  UnknownReporter
	validator *op.Validator
	metrics   *Metrics
	logger    *slog.Logger

	config Config
}

// New creates a dispatcher over registry. A nil registry gets a fresh one.
func New(registry *Registry, config Config) *Dispatcher {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Dispatcher{
		registry: registry,
		config:   config,
		logger:   slog.New(slog.DiscardHandler),
	}
}

// NewWithDefaults creates a dispatcher with a fresh registry and the default
// configuration.
func NewWithDefaults() *Dispatcher {
	return New(nil, DefaultConfig())
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}

// SetReporter sets the reporter for records with no handler.
func (d *Dispatcher) SetReporter(r UnknownReporter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reporter = r
}

// SetValidator sets the schema validator used when ValidateRecords is on.
func (d *Dispatcher) SetValidator(v *op.Validator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.validator = v
}

// SetMetrics sets the metrics sink.
func (d *Dispatcher) SetMetrics(m *Metrics) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metrics = m
}

// SetLogger sets the logger. A nil logger discards.
func (d *Dispatcher) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = l
}

// Metrics returns the metrics sink, or nil.
func (d *Dispatcher) Metrics() *Metrics {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.metrics
}

// Dispatch applies one record.
//
// The handler registered for the record's type is called with the record
// and its error is returned unchanged. When no handler is registered the
// record is reported to the UnknownReporter and Dispatch returns nil: an
// unknown type is a user-visible condition, not a dispatch failure.
func (d *Dispatcher) Dispatch(ctx context.Context, rec op.Record) (err error) {
	startTime := time.Now()

	d.mu.RLock()
	reporter := d.reporter
	validator := d.validator
	metrics := d.metrics
	logger := d.logger
	d.mu.RUnlock()

	typeName := rec.Type()
	h, ok := d.registry.Lookup(typeName)
	if !ok || typeName == "" {
		logger.WarnContext(ctx, "no handler for operation", "type", typeName)
		if metrics != nil {
			metrics.RecordDispatch(typeName, OutcomeUnknown, time.Since(startTime))
		}
		if reporter != nil {
			if rerr := reporter.ReportUnknown(ctx, Unknown{Type: typeName, Record: rec}); rerr != nil {
				logger.ErrorContext(ctx, "report unknown operation", "type", typeName, "error", rerr)
			}
		}
		return nil
	}
	if h == nil {
		return fmt.Errorf("%w: %s", ErrNilHandler, typeName)
	}

	if d.config.ValidateRecords && validator != nil {
		if verr := validator.Validate(rec); verr != nil {
			if metrics != nil {
				metrics.RecordDispatch(typeName, OutcomeInvalid, time.Since(startTime))
			}
			logger.WarnContext(ctx, "invalid operation", "type", typeName, "error", verr)
			return verr
		}
	}

	defer func() {
		if metrics == nil {
			return
		}
		outcome := OutcomeOK
		if err != nil {
			outcome = OutcomeError
		}
		metrics.RecordDispatch(typeName, outcome, time.Since(startTime))
	}()

	if d.config.RecoverFromPanic {
		err = d.handleWithRecovery(ctx, h, rec, metrics)
	} else {
		err = h.Handle(ctx, rec)
	}
	if err != nil {
		logger.DebugContext(ctx, "operation failed", "type", typeName, "error", err)
	}
	return err
}

// handleWithRecovery runs a handler and converts a panic to *PanicError.
func (d *Dispatcher) handleWithRecovery(ctx context.Context, h Handler, rec op.Record, metrics *Metrics) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			err = &PanicError{Type: rec.Type(), Value: r, Stack: stack[:n]}

			if metrics != nil {
				metrics.RecordPanic(rec.Type())
			}
		}
	}()

	return h.Handle(ctx, rec)
}
