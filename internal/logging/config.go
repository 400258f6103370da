package logging

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Sink selects where log records go.
type Sink string

const (
	SinkStderr Sink = "stderr"
	SinkFile   Sink = "file"
	SinkNone   Sink = "none"
)

const (
	EnvLogLevel      = "ACTIONWIRE_LOG_LEVEL"
	EnvLogFormat     = "ACTIONWIRE_LOG_FORMAT"
	EnvLogSink       = "ACTIONWIRE_LOG_SINK"
	EnvLogFile       = "ACTIONWIRE_LOG_FILE"
	EnvLogAddSource  = "ACTIONWIRE_LOG_ADD_SOURCE"
	EnvLogMaxSizeMB  = "ACTIONWIRE_LOG_MAX_SIZE_MB"
	EnvLogMaxBackups = "ACTIONWIRE_LOG_MAX_BACKUPS"
	EnvLogMaxAgeDays = "ACTIONWIRE_LOG_MAX_AGE_DAYS"
	EnvLogCompress   = "ACTIONWIRE_LOG_COMPRESS"
)

// Config describes the process logger. Nil fields take their defaults.
type Config struct {
	Level     *string `yaml:"level,omitempty" toml:"level,omitempty"`
	Format    *string `yaml:"format,omitempty" toml:"format,omitempty"`
	Sink      *string `yaml:"sink,omitempty" toml:"sink,omitempty"`
	File      *string `yaml:"file,omitempty" toml:"file,omitempty"`
	AddSource *bool   `yaml:"add_source,omitempty" toml:"add_source,omitempty"`

	MaxSizeMB  *int  `yaml:"max_size_mb,omitempty" toml:"max_size_mb,omitempty"`
	MaxBackups *int  `yaml:"max_backups,omitempty" toml:"max_backups,omitempty"`
	MaxAgeDays *int  `yaml:"max_age_days,omitempty" toml:"max_age_days,omitempty"`
	Compress   *bool `yaml:"compress,omitempty" toml:"compress,omitempty"`
}

// DefaultConfig is quiet: warnings and errors as text on stderr.
func DefaultConfig() Config {
	level := "warn"
	format := string(FormatText)
	sink := string(SinkStderr)
	addSource := false
	maxSizeMB := 20
	maxBackups := 5
	maxAgeDays := 7
	compress := true

	return Config{
		Level:      &level,
		Format:     &format,
		Sink:       &sink,
		AddSource:  &addSource,
		MaxSizeMB:  &maxSizeMB,
		MaxBackups: &maxBackups,
		MaxAgeDays: &maxAgeDays,
		Compress:   &compress,
	}
}

// Merge returns c with every non-nil field of override applied.
func (c Config) Merge(override Config) Config {
	pick := func(dst **string, src *string) {
		if src != nil {
			*dst = src
		}
	}
	pickBool := func(dst **bool, src *bool) {
		if src != nil {
			*dst = src
		}
	}
	pickInt := func(dst **int, src *int) {
		if src != nil {
			*dst = src
		}
	}

	pick(&c.Level, override.Level)
	pick(&c.Format, override.Format)
	pick(&c.Sink, override.Sink)
	pick(&c.File, override.File)
	pickBool(&c.AddSource, override.AddSource)
	pickInt(&c.MaxSizeMB, override.MaxSizeMB)
	pickInt(&c.MaxBackups, override.MaxBackups)
	pickInt(&c.MaxAgeDays, override.MaxAgeDays)
	pickBool(&c.Compress, override.Compress)
	return c
}

// WithEnv returns c with the ACTIONWIRE_LOG_* variables applied. Empty
// and malformed values are ignored.
func (c Config) WithEnv() Config {
	applyString := func(dst **string, env string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = &v
		}
	}
	applyBool := func(dst **bool, env string) {
		raw := strings.TrimSpace(os.Getenv(env))
		if raw == "" {
			return
		}
		v := !isDisabledString(raw)
		*dst = &v
	}
	applyInt := func(dst **int, env string) {
		raw := strings.TrimSpace(os.Getenv(env))
		if raw == "" {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return
		}
		*dst = &n
	}

	applyString(&c.Level, EnvLogLevel)
	applyString(&c.Format, EnvLogFormat)
	applyString(&c.Sink, EnvLogSink)
	applyString(&c.File, EnvLogFile)
	applyBool(&c.AddSource, EnvLogAddSource)
	applyInt(&c.MaxSizeMB, EnvLogMaxSizeMB)
	applyInt(&c.MaxBackups, EnvLogMaxBackups)
	applyInt(&c.MaxAgeDays, EnvLogMaxAgeDays)
	applyBool(&c.Compress, EnvLogCompress)
	return c
}

// Normalize lower-cases the enumerations, drops blank strings, clamps
// negative rotation limits to zero and validates the result.
func (c Config) Normalize() (Config, error) {
	normalizeString := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.ToLower(strings.TrimSpace(*s))
		if v == "" {
			return nil
		}
		return &v
	}
	clamp := func(n *int) *int {
		if n != nil && *n < 0 {
			zero := 0
			return &zero
		}
		return n
	}

	c.Level = normalizeString(c.Level)
	c.Format = normalizeString(c.Format)
	c.Sink = normalizeString(c.Sink)
	if c.File != nil {
		if v := strings.TrimSpace(*c.File); v == "" {
			c.File = nil
		} else {
			c.File = &v
		}
	}
	c.MaxSizeMB = clamp(c.MaxSizeMB)
	c.MaxBackups = clamp(c.MaxBackups)
	c.MaxAgeDays = clamp(c.MaxAgeDays)
	return c, c.Validate()
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	if c.Level != nil {
		switch *c.Level {
		case "debug", "info", "warn", "warning", "error":
		default:
			return fmt.Errorf("logging.level: invalid %q", *c.Level)
		}
	}
	if c.Format != nil {
		switch Format(*c.Format) {
		case FormatText, FormatJSON:
		default:
			return fmt.Errorf("logging.format: invalid %q", *c.Format)
		}
	}
	if c.Sink != nil {
		switch Sink(*c.Sink) {
		case SinkStderr, SinkFile, SinkNone:
		default:
			return fmt.Errorf("logging.sink: invalid %q", *c.Sink)
		}
	}
	return nil
}

func isDisabledString(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "0", "false", "no", "off":
		return true
	default:
		return false
	}
}
