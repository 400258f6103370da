package config

import (
	"net/url"
	"strings"

	"github.com/dshills/actionwire/internal/dispatcher"
)

// Validate checks every section. Errors wrap ErrInvalid.
func (c Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return invalid("server.base_url", "%v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid("server.base_url", "scheme must be http or https, got %q", c.Server.BaseURL)
	}
	if u.Host == "" {
		return invalid("server.base_url", "missing host in %q", c.Server.BaseURL)
	}
	if c.Server.Timeout.Duration < 0 {
		return invalid("server.timeout", "must not be negative")
	}

	if _, err := dispatcher.ParseFailurePolicy(c.Dispatch.FailurePolicy); err != nil {
		return invalid("dispatch.failure_policy", "%v", err)
	}

	switch strings.ToLower(strings.TrimSpace(c.UI.BusyStyle)) {
	case "", "plain", "loading":
	default:
		return invalid("ui.busy_style", "unknown style %q", c.UI.BusyStyle)
	}

	for i, p := range c.Plugins {
		if strings.TrimSpace(p) == "" {
			return invalid("plugins", "entry %d is empty", i)
		}
	}

	if _, err := c.Logging.Normalize(); err != nil {
		return invalid("logging", "%v", err)
	}
	return nil
}
