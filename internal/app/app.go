// Package app wires the dispatcher, the built-in operations, plug-ins and
// the invoker around one document and one event loop.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/dshills/actionwire/internal/config"
	"github.com/dshills/actionwire/internal/dispatcher"
	"github.com/dshills/actionwire/internal/document"
	"github.com/dshills/actionwire/internal/eventloop"
	"github.com/dshills/actionwire/internal/invoker"
	"github.com/dshills/actionwire/internal/notify"
	"github.com/dshills/actionwire/internal/op"
	"github.com/dshills/actionwire/internal/plugin"
)

// Options configures an App.
type Options struct {
	// Config is the loaded configuration. The zero value is replaced by
	// config.Default().
	Config *config.Config

	// Page is the initial document markup. Empty means document.EmptyPage.
	Page string

	// Notifier shows notifications and Alerter shows unknown-type alerts.
	// Both default to an in-memory notify.Recorder.
	Notifier notify.Notifier
	Alerter  notify.Alerter

	// Plugins are script paths loaded after the configured ones.
	Plugins []string

	// Logger overrides the logger built from Config.Logging.
	Logger *slog.Logger

	// Metrics receives the collectors when Config.Metrics is enabled. Nil
	// means a fresh registry.
	Metrics *prometheus.Registry

	// HTTPClient overrides the client built from Config.Server.Timeout.
	HTTPClient *http.Client

	Version string
}

// App is a running actionwire client.
type App struct {
	cfg      config.Config
	opts     Options
	logger   *slog.Logger
	closeLog func() error

	loop     *eventloop.Loop
	stopLoop context.CancelFunc
	loopDone chan struct{}

	doc      *document.Document
	browser  *document.Browser
	notifier notify.Notifier
	alerter  notify.Alerter

	dispatcher *dispatcher.Dispatcher
	applier    *dispatcher.Applier
	metrics    *prometheus.Registry
	plugins    *plugin.Host
	invoker    *invoker.Invoker

	closeOnce sync.Once
}

// New builds and starts an App. On failure every component already
// started is shut down again.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	a := &App{cfg: cfg, opts: opts}

	b := newBootstrapper(a)
	if err := b.bootstrap(ctx); err != nil {
		return nil, err
	}
	a.logger.Debug("app started", "endpoint", a.invoker.Endpoint(), "operations", a.dispatcher.Registry().Count())
	return a, nil
}

// Config returns the effective configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Dispatcher returns the dispatcher.
func (a *App) Dispatcher() *dispatcher.Dispatcher {
	return a.dispatcher
}

// Browser returns the navigation state changed by page operations.
func (a *App) Browser() *document.Browser {
	return a.browser
}

// Plugins returns the plug-in host.
func (a *App) Plugins() *plugin.Host {
	return a.plugins
}

// Types lists the registered operation types.
func (a *App) Types() []string {
	return a.dispatcher.Registry().List()
}

// Invoke posts action without a trigger.
func (a *App) Invoke(ctx context.Context, action string, data invoker.Data) (*invoker.Call, error) {
	var call *invoker.Call
	err := a.loop.Do(ctx, func() error {
		call = a.invoker.Invoke(ctx, document.Selection{}, action, data, nil, nil)
		return nil
	})
	return call, err
}

// InvokeButton posts action with the elements matching selector as the
// trigger. A selector matching nothing invokes without a trigger.
func (a *App) InvokeButton(ctx context.Context, selector, action string, data invoker.Data) (*invoker.Call, error) {
	var call *invoker.Call
	err := a.loop.Do(ctx, func() error {
		button, err := a.doc.Select(selector)
		if err != nil {
			return err
		}
		call = a.invoker.InvokeButton(ctx, button, action, data)
		return nil
	})
	return call, err
}

// InvokeForm posts the form matching selector.
func (a *App) InvokeForm(ctx context.Context, selector, action, query string) (*invoker.Call, error) {
	var call *invoker.Call
	err := a.loop.Do(ctx, func() error {
		form, err := a.doc.Select(selector)
		if err != nil {
			return err
		}
		if form.IsEmpty() {
			return fmt.Errorf("%w: %q", ErrNoMatch, selector)
		}
		call = a.invoker.InvokeForm(ctx, form, action, query)
		return nil
	})
	return call, err
}

// Apply applies batch on the loop.
func (a *App) Apply(ctx context.Context, batch op.Batch) error {
	return a.loop.Do(ctx, func() error {
		return a.applier.ApplyAll(ctx, batch)
	})
}

// ApplyJSON decodes a response body and applies it.
func (a *App) ApplyJSON(ctx context.Context, body []byte) error {
	batch, err := op.DecodeBatch(body)
	if err != nil {
		return err
	}
	return a.Apply(ctx, batch)
}

// Render writes the current document.
func (a *App) Render(ctx context.Context, w io.Writer) error {
	return a.loop.Do(ctx, func() error {
		return a.doc.Render(w)
	})
}

// Query runs fn against the document on the loop.
func (a *App) Query(ctx context.Context, fn func(doc *document.Document) error) error {
	return a.loop.Do(ctx, func() error {
		return fn(a.doc)
	})
}

// Gatherer returns the metrics registry, or nil when metrics are off.
func (a *App) Gatherer() prometheus.Gatherer {
	if a.metrics == nil {
		return nil
	}
	return a.metrics
}

// WriteMetrics writes the collected metrics in the Prometheus text format.
func (a *App) WriteMetrics(w io.Writer) error {
	if a.metrics == nil {
		return nil
	}
	families, err := a.metrics.Gather()
	if err != nil {
		return fmt.Errorf("app: gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("app: write metrics: %w", err)
		}
	}
	return nil
}

// Close stops the loop and releases plug-ins and the log sink. Calls still
// waiting for completion fail with eventloop.ErrClosed.
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.logger.Debug("app closing")
		err = a.shutdown()
	})
	return err
}

func (a *App) shutdown() error {
	var firstErr error
	if a.loop != nil {
		a.loop.Close()
		a.stopLoop()
		<-a.loopDone
	}
	if a.plugins != nil {
		if err := a.plugins.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.closeLog != nil {
		if err := a.closeLog(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
