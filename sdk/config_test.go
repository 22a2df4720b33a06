package sdk

import (
	"errors"
	"testing"
	"time"
)

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ClientConfig
		wantErr bool
		check   func(t *testing.T, c *ClientConfig)
	}{
		{
			name:   "defaults",
			config: ClientConfig{BaseURL: "https://everest.example.com/"},
			check: func(t *testing.T, c *ClientConfig) {
				if c.BaseURL != "https://everest.example.com" {
					t.Errorf("BaseURL = %q, want trailing slash trimmed", c.BaseURL)
				}
				if c.RetryAttempts != defaultRetryAttempts {
					t.Errorf("RetryAttempts = %d, want %d", c.RetryAttempts, defaultRetryAttempts)
				}
				if c.RetryWaitMin != defaultRetryWaitMin || c.RetryWaitMax != defaultRetryWaitMax {
					t.Errorf("retry waits = %s/%s", c.RetryWaitMin, c.RetryWaitMax)
				}
				if c.Timeout != defaultTimeout {
					t.Errorf("Timeout = %s, want %s", c.Timeout, defaultTimeout)
				}
				if c.HTTPClient == nil || c.HTTPClient.Timeout != defaultTimeout {
					t.Error("expected a default HTTP client with the timeout")
				}
			},
		},
		{
			name:   "negative retries disable retrying",
			config: ClientConfig{BaseURL: "http://localhost:8080", RetryAttempts: -1},
			check: func(t *testing.T, c *ClientConfig) {
				if c.RetryAttempts != 0 {
					t.Errorf("RetryAttempts = %d, want 0", c.RetryAttempts)
				}
			},
		},
		{
			name:   "custom values are kept",
			config: ClientConfig{BaseURL: "http://localhost:8080", RetryAttempts: 5, RetryWaitMin: time.Second, RetryWaitMax: time.Minute, Timeout: time.Second},
			check: func(t *testing.T, c *ClientConfig) {
				if c.RetryAttempts != 5 || c.RetryWaitMin != time.Second || c.RetryWaitMax != time.Minute {
					t.Errorf("custom values overwritten: %+v", c)
				}
			},
		},
		{name: "missing base URL", config: ClientConfig{}, wantErr: true},
		{name: "blank base URL", config: ClientConfig{BaseURL: "   "}, wantErr: true},
		{name: "no scheme", config: ClientConfig{BaseURL: "everest.example.com"}, wantErr: true},
		{name: "wrong scheme", config: ClientConfig{BaseURL: "ftp://everest.example.com"}, wantErr: true},
		{name: "no host", config: ClientConfig{BaseURL: "https://"}, wantErr: true},
		{
			name:    "max below min",
			config:  ClientConfig{BaseURL: "http://localhost", RetryWaitMin: time.Second, RetryWaitMax: time.Millisecond},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("Validate() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error = %v", err)
			}
			if tt.check != nil {
				tt.check(t, &tt.config)
			}
		})
	}
}
