package sdk

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultRetryAttempts = 3
	defaultRetryWaitMin  = 500 * time.Millisecond
	defaultRetryWaitMax  = 10 * time.Second
	defaultTimeout       = 30 * time.Second
)

// ClientConfig contains the configuration for creating a new SDK client.
type ClientConfig struct {
	// BaseURL is the console server address, e.g. "https://everest.example.com".
	BaseURL string

	// Token is a session token from a previous Login.
	// Optional: only public routes work without it.
	Token string

	// HTTPClient is the HTTP client to use for requests.
	// Optional: if nil, a default client with Timeout is created.
	HTTPClient *http.Client

	// RetryAttempts is how many times a request is retried after a 5xx,
	// a 429 or a network error. Negative disables retries.
	// Default: 3
	RetryAttempts int

	// RetryWaitMin is the first wait between retries.
	// Default: 500ms
	RetryWaitMin time.Duration

	// RetryWaitMax caps the wait between retries.
	// Default: 10s
	RetryWaitMax time.Duration

	// Timeout is the HTTP request timeout.
	// Default: 30s
	Timeout time.Duration
}

// Validate checks the configuration and fills in defaults.
func (c *ClientConfig) Validate() error {
	base := strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("%w: invalid base URL: %w", ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: base URL must start with http:// or https://", ErrInvalidConfig)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: base URL has no host", ErrInvalidConfig)
	}
	c.BaseURL = base

	switch {
	case c.RetryAttempts == 0:
		c.RetryAttempts = defaultRetryAttempts
	case c.RetryAttempts < 0:
		c.RetryAttempts = 0
	}
	if c.RetryWaitMin <= 0 {
		c.RetryWaitMin = defaultRetryWaitMin
	}
	if c.RetryWaitMax <= 0 {
		c.RetryWaitMax = defaultRetryWaitMax
	}
	if c.RetryWaitMax < c.RetryWaitMin {
		return fmt.Errorf("%w: retry wait max (%s) is lower than retry wait min (%s)",
			ErrInvalidConfig, c.RetryWaitMax, c.RetryWaitMin)
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{
			Timeout: c.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return nil
}
