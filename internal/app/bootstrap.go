package app

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/actionwire/internal/dispatcher"
	"github.com/dshills/actionwire/internal/document"
	"github.com/dshills/actionwire/internal/eventloop"
	"github.com/dshills/actionwire/internal/invoker"
	"github.com/dshills/actionwire/internal/logging"
	"github.com/dshills/actionwire/internal/notify"
	"github.com/dshills/actionwire/internal/op"
	"github.com/dshills/actionwire/internal/ops"
	"github.com/dshills/actionwire/internal/plugin"
	"github.com/dshills/actionwire/internal/trigger"
)

// bootstrapper handles component initialization with cleanup on failure.
type bootstrapper struct {
	app       *App
	initOrder []string
}

func newBootstrapper(app *App) *bootstrapper {
	return &bootstrapper{app: app, initOrder: make([]string, 0, 8)}
}

// bootstrap initializes all components in dependency order.
func (b *bootstrapper) bootstrap(ctx context.Context) error {
	stages := []struct {
		name string
		init func(context.Context) error
	}{
		{"logging", b.initLogging},
		{"loop", b.initLoop},
		{"document", b.initDocument},
		{"dispatcher", b.initDispatcher},
		{"operations", b.initOperations},
		{"plugins", b.initPlugins},
		{"invoker", b.initInvoker},
	}
	for _, stage := range stages {
		if err := stage.init(ctx); err != nil {
			b.cleanup()
			return &InitError{Component: stage.name, Err: err}
		}
		b.initOrder = append(b.initOrder, stage.name)
	}
	return nil
}

func (b *bootstrapper) initLogging(context.Context) error {
	if b.app.opts.Logger != nil {
		b.app.logger = b.app.opts.Logger
		return nil
	}
	logger, closeFn, err := logging.New(b.app.cfg.Logging, logging.Options{Version: b.app.opts.Version})
	if err != nil {
		return err
	}
	b.app.logger = logger
	b.app.closeLog = closeFn
	return nil
}

func (b *bootstrapper) initLoop(context.Context) error {
	loop := eventloop.New(0, logging.WithComponent(b.app.logger, "eventloop"))
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(runCtx)
	}()

	b.app.loop = loop
	b.app.stopLoop = cancel
	b.app.loopDone = done
	return nil
}

func (b *bootstrapper) initDocument(context.Context) error {
	page := b.app.opts.Page
	if strings.TrimSpace(page) == "" {
		page = document.EmptyPage
	}
	doc, err := document.ParseString(page)
	if err != nil {
		return err
	}
	b.app.doc = doc
	b.app.browser = document.NewBrowser(b.app.cfg.Server.BaseURL)

	recorder := notify.NewRecorder()
	b.app.notifier = b.app.opts.Notifier
	if b.app.notifier == nil {
		b.app.notifier = recorder
	}
	b.app.alerter = b.app.opts.Alerter
	if b.app.alerter == nil {
		b.app.alerter = recorder
	}
	return nil
}

func (b *bootstrapper) initDispatcher(context.Context) error {
	dc := b.app.cfg.Dispatch
	policy, err := dispatcher.ParseFailurePolicy(dc.FailurePolicy)
	if err != nil {
		return err
	}
	d := dispatcher.New(nil, dispatcher.DefaultConfig().
		WithFailurePolicy(policy).
		WithPanicRecovery(dc.RecoverPanics).
		WithValidation(dc.ValidateRecords))
	d.SetLogger(logging.WithComponent(b.app.logger, "dispatcher"))
	d.SetReporter(dispatcher.AlertReporter{Alerter: b.app.alerter})

	if dc.ValidateRecords {
		v, err := op.NewValidator()
		if err != nil {
			return err
		}
		d.SetValidator(v)
	}

	if b.app.cfg.Metrics.Enabled {
		reg := b.app.opts.Metrics
		if reg == nil {
			reg = prometheus.NewRegistry()
		}
		m, err := dispatcher.NewMetrics(reg)
		if err != nil {
			return err
		}
		d.SetMetrics(m)
		b.app.metrics = reg
	}

	b.app.dispatcher = d
	b.app.applier = dispatcher.NewApplier(d)
	return nil
}

func (b *bootstrapper) initOperations(context.Context) error {
	ops.RegisterBuiltins(b.app.dispatcher.Registry(), ops.Deps{
		Document:   b.app.doc,
		Notifier:   b.app.notifier,
		Navigator:  b.app.browser,
		Dispatcher: b.app.dispatcher,
	})
	return nil
}

func (b *bootstrapper) initPlugins(ctx context.Context) error {
	host, err := plugin.New(b.app.dispatcher.Registry(), plugin.Deps{
		Document:   b.app.doc,
		Notifier:   b.app.notifier,
		Dispatcher: b.app.dispatcher,
	}, plugin.WithLogger(logging.WithComponent(b.app.logger, "plugin")))
	if err != nil {
		return err
	}
	b.app.plugins = host

	paths := append(append([]string(nil), b.app.cfg.Plugins...), b.app.opts.Plugins...)
	for _, path := range paths {
		err := b.app.loop.Do(ctx, func() error {
			return host.LoadFile(ctx, path)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *bootstrapper) initInvoker(context.Context) error {
	sc := b.app.cfg.Server
	client := b.app.opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: sc.Timeout.Duration}
	}

	opts := []invoker.Option{
		invoker.WithClient(client),
		invoker.WithLoop(b.app.loop),
		invoker.WithLogger(logging.WithComponent(b.app.logger, "invoker")),
		invoker.WithContactURL(sc.ContactURL),
		invoker.WithUserAgent(sc.UserAgent),
		invoker.WithAffordance(trigger.Affordance{
			Style:       trigger.ParseStyle(b.app.cfg.UI.BusyStyle),
			LoadingText: b.app.cfg.UI.LoadingText,
		}),
	}
	if b.app.metrics != nil {
		m, err := invoker.NewMetrics(b.app.metrics)
		if err != nil {
			return err
		}
		opts = append(opts, invoker.WithMetrics(m))
	}

	inv, err := invoker.New(sc.Endpoint(), b.app.applier, opts...)
	if err != nil {
		return err
	}
	b.app.invoker = inv
	return nil
}

// cleanup shuts down initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	// The host exists as soon as initPlugins created it, even if a script
	// then failed to load.
	if b.app.plugins != nil {
		_ = b.app.plugins.Close()
		b.app.plugins = nil
	}
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "loop":
			b.app.loop.Close()
			b.app.stopLoop()
			<-b.app.loopDone
		case "logging":
			if b.app.closeLog != nil {
				_ = b.app.closeLog()
			}
		}
	}
}
