// Package main is the actionwire command: it invokes server actions against
// a page and applies the operations the server answers with.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/dshills/actionwire/internal/app"
	"github.com/dshills/actionwire/internal/config"
	"github.com/dshills/actionwire/internal/invoker"
	"github.com/dshills/actionwire/internal/notify"
	"github.com/dshills/actionwire/internal/op"
)

// Version information (set via ldflags during build).
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			if msg := exitErr.Error(); msg != "" {
				fmt.Fprintf(os.Stderr, "actionwire: %s\n", msg)
			}
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "actionwire: %v\n", err)
		return 1
	}
	return 0
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "actionwire",
		Usage:   "invoke server actions and apply their operations to a page",
		Version: version,
		// Exit codes are handled by run.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "configuration file (.yaml or .toml)"},
			&cli.StringFlag{Name: "page", Usage: "HTML file used as the initial document"},
			&cli.StringSliceFlag{Name: "plugin", Usage: "Lua script defining extra operations (repeatable)"},
			&cli.StringFlag{Name: "out", Usage: "write the resulting document to `FILE` (- for stdout)"},
			&cli.BoolFlag{Name: "screen", Usage: "show notifications on the terminal screen"},
			&cli.BoolFlag{Name: "metrics", Usage: "print collected metrics to stderr on exit"},
		},
		Commands: []*cli.Command{
			{
				Name:      "invoke",
				Usage:     "post an action and apply the response",
				ArgsUsage: "ACTION [key=value...]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "trigger", Usage: "selector of the button that triggers the action"},
					&cli.StringFlag{Name: "form", Usage: "selector of the form to submit"},
					&cli.StringFlag{Name: "query", Usage: "query string appended to a form action"},
					&cli.StringFlag{Name: "raw", Usage: "pre-encoded request body"},
				},
				Action: invokeAction,
			},
			{
				Name:      "apply",
				Usage:     "apply a batch of operations from a JSON file",
				ArgsUsage: "FILE.json (- for stdin)",
				Action:    applyAction,
			},
			{
				Name:   "ops",
				Usage:  "list the registered operation types",
				Action: opsAction,
			},
		},
	}
}

// session is an App together with the terminal resources it displays on.
type session struct {
	app    *app.App
	screen *notify.Screen
}

func open(ctx context.Context, cmd *cli.Command) (*session, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if cmd.Bool("metrics") {
		cfg.Metrics.Enabled = true
	}

	opts := app.Options{
		Config:  &cfg,
		Plugins: cmd.StringSlice("plugin"),
		Version: version,
	}
	if path := cmd.String("page"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read page: %w", err)
		}
		opts.Page = string(data)
	}

	s := &session{}
	if cmd.Bool("screen") && term.IsTerminal(int(os.Stdout.Fd())) {
		screen, err := notify.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("init screen: %w", err)
		}
		s.screen = screen
		opts.Notifier, opts.Alerter = screen, screen
	} else {
		var in io.Reader
		if term.IsTerminal(int(os.Stdin.Fd())) {
			in = os.Stdin
		}
		console := notify.NewConsole(os.Stdout, in)
		opts.Notifier, opts.Alerter = console, console
	}

	s.app, err = app.New(ctx, opts)
	if err != nil {
		if s.screen != nil {
			s.screen.Close()
		}
		return nil, err
	}
	return s, nil
}

// finish holds visible notifications on screen, writes the requested
// outputs and closes the session.
func (s *session) finish(ctx context.Context, cmd *cli.Command) error {
	if s.screen != nil {
		if len(s.screen.Visible()) > 0 {
			_ = s.screen.Alert(ctx, "Press any key to exit.")
		}
		s.screen.Close()
	}

	var firstErr error
	if path := cmd.String("out"); path != "" {
		firstErr = s.writeDocument(ctx, path)
	}
	if cmd.Bool("metrics") {
		if err := s.app.WriteMetrics(os.Stderr); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := s.app.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (s *session) writeDocument(ctx context.Context, path string) error {
	if path == "-" {
		return s.app.Render(ctx, os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := s.app.Render(ctx, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func invokeAction(ctx context.Context, cmd *cli.Command) error {
	action := cmd.Args().First()
	if action == "" {
		return cli.Exit("invoke: missing ACTION", 2)
	}
	data, err := requestData(cmd.String("raw"), cmd.Args().Tail())
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	s, err := open(ctx, cmd)
	if err != nil {
		return err
	}

	var call *invoker.Call
	switch {
	case cmd.String("form") != "":
		call, err = s.app.InvokeForm(ctx, cmd.String("form"), action, cmd.String("query"))
	case cmd.String("trigger") != "":
		call, err = s.app.InvokeButton(ctx, cmd.String("trigger"), action, data)
	default:
		call, err = s.app.Invoke(ctx, action, data)
	}
	if err == nil {
		_, err = call.Wait(ctx)
	}

	if ferr := s.finish(ctx, cmd); err == nil {
		err = ferr
	}
	var terr *invoker.TransportError
	if errors.As(err, &terr) {
		// The error notification has already been shown.
		return cli.Exit("", 1)
	}
	return err
}

// requestData builds the request body from a raw string or key=value pairs.
func requestData(raw string, pairs []string) (invoker.Data, error) {
	if raw != "" {
		if len(pairs) > 0 {
			return nil, errors.New("invoke: --raw cannot be combined with key=value arguments")
		}
		return invoker.Raw(raw), nil
	}
	values := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invoke: argument %q is not key=value", pair)
		}
		values.Add(key, value)
	}
	return invoker.Values(values), nil
}

func applyAction(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return cli.Exit("apply: missing FILE", 2)
	}
	var (
		body []byte
		err  error
	)
	if path == "-" {
		body, err = io.ReadAll(os.Stdin)
	} else {
		body, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}

	s, err := open(ctx, cmd)
	if err != nil {
		return err
	}
	err = s.app.ApplyJSON(ctx, body)
	if ferr := s.finish(ctx, cmd); err == nil {
		err = ferr
	}
	return err
}

func opsAction(ctx context.Context, cmd *cli.Command) error {
	s, err := open(ctx, cmd)
	if err != nil {
		return err
	}
	for _, name := range s.app.Types() {
		src, fromScript := s.app.Plugins().Source(name)
		fmt.Println(describeType(name, src, fromScript))
	}
	return s.finish(ctx, cmd)
}

// describeType formats one line of the ops listing: the type name and
// where its active handler comes from.
func describeType(name, script string, fromScript bool) string {
	builtin := op.KindOf(name).IsBuiltin()
	switch {
	case fromScript && builtin:
		return name + "\tbuilt-in, overridden by " + script
	case fromScript:
		return name + "\t" + script
	case builtin:
		return name + "\tbuilt-in"
	default:
		return name
	}
}
