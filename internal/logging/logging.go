// Package logging builds the process slog.Logger from configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFileName is the log file used by the file sink when none is
// configured, under the user cache directory.
const DefaultFileName = "actionwire.log"

// Options are fixed attributes added to every record.
type Options struct {
	App     string
	Version string
}

// New builds a logger from cfg after applying the defaults and the
// environment. The returned func closes the sink.
func New(cfg Config, opts Options) (*slog.Logger, func() error, error) {
	if opts.App == "" {
		opts.App = "actionwire"
	}

	normalized, err := DefaultConfig().Merge(cfg).WithEnv().Normalize()
	if err != nil {
		return nil, nil, err
	}
	return build(normalized, opts, os.Stderr)
}

func build(cfg Config, opts Options, stderr io.Writer) (*slog.Logger, func() error, error) {
	sink := SinkStderr
	if cfg.Sink != nil {
		sink = Sink(*cfg.Sink)
	}
	format := FormatText
	if cfg.Format != nil {
		format = Format(*cfg.Format)
	}

	writer, closeFn, err := resolveWriter(cfg, sink, stderr)
	if err != nil {
		return nil, nil, err
	}
	handlerOpts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource != nil && *cfg.AddSource,
	}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(writer, handlerOpts)
	default:
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	attrs := []any{slog.String("app", opts.App)}
	if opts.Version != "" {
		attrs = append(attrs, slog.String("version", opts.Version))
	}
	return slog.New(handler).With(attrs...), closeFn, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// WithComponent returns a child logger tagged with component. A nil logger
// yields a discarding one.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = Discard()
	}
	return logger.With(slog.String("component", component))
}

func parseLevel(value *string) slog.Leveler {
	if value == nil {
		return slog.LevelInfo
	}
	switch strings.ToLower(strings.TrimSpace(*value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func resolveWriter(cfg Config, sink Sink, stderr io.Writer) (io.Writer, func() error, error) {
	switch sink {
	case SinkNone:
		return io.Discard, func() error { return nil }, nil
	case SinkStderr:
		return stderr, func() error { return nil }, nil
	case SinkFile:
		path := ""
		if cfg.File != nil {
			path = strings.TrimSpace(*cfg.File)
		}
		if path == "" {
			dir, err := os.UserCacheDir()
			if err != nil {
				return nil, nil, fmt.Errorf("logging: locate cache dir: %w", err)
			}
			path = filepath.Join(dir, "actionwire", DefaultFileName)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
		}

		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    derefInt(cfg.MaxSizeMB, 20),
			MaxBackups: derefInt(cfg.MaxBackups, 5),
			MaxAge:     derefInt(cfg.MaxAgeDays, 7),
			Compress:   derefBool(cfg.Compress, true),
		}
		return rot, rot.Close, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown sink %q", sink)
	}
}

func derefInt(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func derefBool(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
