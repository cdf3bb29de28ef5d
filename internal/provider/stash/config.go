package stash

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/johanforsgren/stashreview/internal/domain"
	"github.com/johanforsgren/stashreview/internal/provider/common"
)

const (
	DefaultTimeout       = 10 * time.Second
	DefaultClientVersion = "dev"
)

type Config struct {
	// BaseURL is the server root, e.g. https://stash.example.com.
	BaseURL     string
	Credentials domain.Credentials
	// Timeout bounds each HTTP exchange, redirects included.
	Timeout       time.Duration
	ClientVersion string
	// Transport replaces http.DefaultTransport underneath logging and auth.
	Transport http.RoundTripper
}

func (c Config) withDefaults() Config {
	if c.Credentials == nil {
		c.Credentials = domain.NoAuth{}
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.ClientVersion == "" {
		c.ClientVersion = DefaultClientVersion
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return c
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL is required", common.ErrInvalidConfig)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: base URL: %v", common.ErrInvalidConfig, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base URL must be an absolute http(s) URL, got %q", common.ErrInvalidConfig, c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", common.ErrInvalidConfig)
	}
	if t, ok := c.Credentials.(domain.TokenAuth); ok && t.Token == "" {
		return fmt.Errorf("%w: token credentials require a token", common.ErrInvalidConfig)
	}
	return nil
}
