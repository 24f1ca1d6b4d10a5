package remotewrite

import (
	"fmt"
	"net/url"
	"time"
)

// Configuration selects and authenticates the remote_write endpoint that
// receives the inverter samples.
type Configuration struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`

	// Timeout bounds each batch upload (default: 30s).
	Timeout string `yaml:"timeout"`

	// BasicAuth credentials, mutually exclusive with BearerToken.
	BasicAuth *BasicAuthConfig `yaml:"basicAuth,omitempty"`

	BearerToken string `yaml:"bearerToken,omitempty"`

	// Headers are added verbatim to every upload, e.g. X-Scope-OrgID for
	// multi-tenant Mimir/Cortex installs.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// BasicAuthConfig holds HTTP Basic Authentication credentials.
type BasicAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Validate rejects configurations the sink could not upload with.
func (c *Configuration) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.URL == "" {
		return fmt.Errorf("remoteWrite.url is required when enabled")
	}

	parsedURL, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("remoteWrite.url is invalid: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("remoteWrite.url must use http or https scheme")
	}

	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("remoteWrite.timeout is invalid: %w", err)
		}
	}

	if c.BasicAuth != nil && c.BearerToken != "" {
		return fmt.Errorf("remoteWrite.basicAuth and remoteWrite.bearerToken are mutually exclusive")
	}

	if c.BasicAuth != nil {
		if c.BasicAuth.Username == "" {
			return fmt.Errorf("remoteWrite.basicAuth.username is required when basicAuth is configured")
		}
		if c.BasicAuth.Password == "" {
			return fmt.Errorf("remoteWrite.basicAuth.password is required when basicAuth is configured")
		}
	}

	return nil
}

// GetTimeout returns the configured timeout or the default (30s).
func (c *Configuration) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 30 * time.Second
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return duration
}
