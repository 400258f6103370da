package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a config file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Environment variables applied by ApplyEnv.
const (
	EnvBaseURL       = "ACTIONWIRE_BASE_URL"
	EnvActionPath    = "ACTIONWIRE_ACTION_PATH"
	EnvTimeout       = "ACTIONWIRE_TIMEOUT"
	EnvFailurePolicy = "ACTIONWIRE_FAILURE_POLICY"
	EnvContactURL    = "ACTIONWIRE_CONTACT_URL"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Load reads the file at path over the defaults, applies the environment
// and validates the result. An empty path or a missing file yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			format, err := FormatOf(path)
			if err != nil {
				return Config{}, err
			}
			if cfg, err = Parse(data, format); err != nil {
				return Config{}, &ParseError{Path: path, Err: err}
			}
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes data over the defaults. Unknown keys are errors.
func Parse(data []byte, format Format) (Config, error) {
	cfg := Default()
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, err
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from ACTIONWIRE_* variables. Empty
// variables are ignored.
func (c *Config) ApplyEnv() error {
	applyString := func(dst *string, env string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}

	applyString(&c.Server.BaseURL, EnvBaseURL)
	applyString(&c.Server.ActionPath, EnvActionPath)
	applyString(&c.Server.ContactURL, EnvContactURL)
	applyString(&c.Dispatch.FailurePolicy, EnvFailurePolicy)

	if raw := strings.TrimSpace(os.Getenv(EnvTimeout)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return invalid(EnvTimeout, "%v", err)
		}
		c.Server.Timeout = Duration{d}
	}
	c.Logging = c.Logging.WithEnv()
	return nil
}
