package config

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/actionwire/internal/logging"
)

// Defaults.
const (
	DefaultBaseURL     = "http://localhost:8080"
	DefaultActionPath  = "/a"
	DefaultTimeout     = 30 * time.Second
	DefaultContactURL  = "/contact"
	DefaultUserAgent   = "actionwire"
	DefaultBusyStyle   = "loading"
	DefaultLoadingText = "Loading..."
)

// Config is the complete settings tree.
type Config struct {
	Server   Server         `yaml:"server" toml:"server"`
	Dispatch Dispatch       `yaml:"dispatch" toml:"dispatch"`
	UI       UI             `yaml:"ui" toml:"ui"`
	Plugins  []string       `yaml:"plugins" toml:"plugins"`
	Logging  logging.Config `yaml:"logging" toml:"logging"`
	Metrics  Metrics        `yaml:"metrics" toml:"metrics"`
}

// Server describes the action endpoint.
type Server struct {
	BaseURL    string   `yaml:"base_url" toml:"base_url"`
	ActionPath string   `yaml:"action_path" toml:"action_path"`
	Timeout    Duration `yaml:"timeout" toml:"timeout"`
	ContactURL string   `yaml:"contact_url" toml:"contact_url"`
	UserAgent  string   `yaml:"user_agent" toml:"user_agent"`
}

// Dispatch configures the dispatcher and applier.
type Dispatch struct {
	FailurePolicy   string `yaml:"failure_policy" toml:"failure_policy"`
	RecoverPanics   bool   `yaml:"recover_panics" toml:"recover_panics"`
	ValidateRecords bool   `yaml:"validate_records" toml:"validate_records"`
}

// UI configures the busy affordance.
type UI struct {
	BusyStyle   string `yaml:"busy_style" toml:"busy_style"`
	LoadingText string `yaml:"loading_text" toml:"loading_text"`
}

// Metrics enables Prometheus collectors.
type Metrics struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server: Server{
			BaseURL:    DefaultBaseURL,
			ActionPath: DefaultActionPath,
			Timeout:    Duration{DefaultTimeout},
			ContactURL: DefaultContactURL,
			UserAgent:  DefaultUserAgent,
		},
		Dispatch: Dispatch{FailurePolicy: "abort"},
		UI: UI{
			BusyStyle:   DefaultBusyStyle,
			LoadingText: DefaultLoadingText,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Endpoint joins the base URL and the action path.
func (s Server) Endpoint() string {
	base := strings.TrimRight(s.BaseURL, "/")
	path := strings.Trim(s.ActionPath, "/")
	if path == "" {
		return base
	}
	return base + "/" + path
}

// Duration is a time.Duration written as "30s" or "1m".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalYAML parses a scalar duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &yaml.TypeError{Errors: []string{"duration must be a string like \"30s\""}}
	}
	return d.UnmarshalText([]byte(node.Value))
}
