package invoker

import (
	"log/slog"
	"net/http"

	"github.com/dshills/actionwire/internal/trigger"
)

// Option configures an Invoker.
type Option func(*Invoker)

// WithClient sets the HTTP client. Its Timeout is the only request timeout.
func WithClient(c *http.Client) Option {
	return func(inv *Invoker) {
		if c != nil {
			inv.client = c
		}
	}
}

// WithLoop runs completions on r. Without it completions run on the
// transport goroutines, serialized by a lock.
func WithLoop(r Runner) Option {
	return func(inv *Invoker) {
		if r != nil {
			inv.runner = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(inv *Invoker) {
		if l != nil {
			inv.logger = l
		}
	}
}

// WithMetrics records request metrics.
func WithMetrics(m *Metrics) Option {
	return func(inv *Invoker) {
		inv.metrics = m
	}
}

// WithErrorHandler replaces the process-wide error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(inv *Invoker) {
		if h != nil {
			inv.errorHandler = h
		}
	}
}

// WithContactURL sets the contact link of the default error handler.
func WithContactURL(u string) Option {
	return func(inv *Invoker) {
		inv.contactURL = u
	}
}

// WithAffordance sets how triggers are marked busy and idle.
func WithAffordance(a trigger.Affordance) Option {
	return func(inv *Invoker) {
		inv.affordance = a
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(inv *Invoker) {
		inv.userAgent = ua
	}
}
