// Package sdk is a Go client for the Everest console API.
//
// A Client is safe for concurrent use. Login stores the session token on the
// client and every later request sends it as a bearer token:
//
//	c, err := sdk.NewClient(sdk.ClientConfig{BaseURL: "https://everest.example.com"})
//	if err != nil {
//		return err
//	}
//	if err := c.Login(ctx, "admin", password); err != nil {
//		return err
//	}
//	clusters, err := c.ListDatabaseClusters(ctx, "dev")
//
// Failed requests return an *APIError that unwraps to one of the package's
// sentinel errors, so callers can use errors.Is(err, sdk.ErrNotFound).
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/everest-platform/console/models"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 1 << 20

// Client talks to a single console server.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	retryAttempts int
	retryWaitMin  time.Duration
	retryWaitMax  time.Duration

	mu    sync.RWMutex
	token string
}

// NewClient creates a new SDK client with the given configuration.
func NewClient(config ClientConfig) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		baseURL:       config.BaseURL,
		httpClient:    config.HTTPClient,
		retryAttempts: config.RetryAttempts,
		retryWaitMin:  config.RetryWaitMin,
		retryWaitMax:  config.RetryWaitMax,
		token:         config.Token,
	}, nil
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the current session token, or "" when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the session token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// do sends a JSON request and decodes a JSON response into out. in and out
// may be nil. Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	token := c.Token()

	resp, err := c.doRequestWithRetry(ctx, func() (*http.Request, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return req, nil
	})
	if err != nil {
		return err
	}
	defer drainAndCloseBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies that
// are not the server's JSON error shape end up in Message verbatim.
func parseErrorResponse(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Request-ID"),
	}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
		apiErr.RetryAfter = secs
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var e models.Error
	if err := json.Unmarshal(body, &e); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}
	apiErr.Code = e.Error
	apiErr.Message = e.Message
	if e.RequestID != "" {
		apiErr.RequestID = e.RequestID
	}
	return apiErr
}

func namespacedPath(namespace, resource string, name ...string) string {
	p := "/v1/namespaces/" + url.PathEscape(namespace) + "/" + resource
	for _, n := range name {
		p += "/" + url.PathEscape(n)
	}
	return p
}

// ============================================================================
// Session
// ============================================================================

// Login exchanges a username and password for a session token and stores it
// on the client.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var tok models.SessionToken
	creds := models.UserCredentials{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/v1/session", nil, creds, &tok); err != nil {
		return fmt.Errorf("failed to login: %w", err)
	}
	if tok.Token == "" {
		return fmt.Errorf("failed to login: %w", errors.New("server returned an empty token"))
	}
	c.SetToken(tok.Token)
	return nil
}

// Logout revokes the session token and clears it from the client. A token the
// server already rejects is cleared too.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodDelete, "/v1/session", nil, nil, nil)
	if err == nil || errors.Is(err, ErrUnauthorized) {
		c.SetToken("")
	}
	if err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// ============================================================================
// Server
// ============================================================================

// Version returns the server build information. It needs no session.
func (c *Client) Version(ctx context.Context) (*models.Version, error) {
	var v models.Version
	if err := c.do(ctx, http.MethodGet, "/v1/version", nil, nil, &v); err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	return &v, nil
}

// Ready reports whether the server can reach the Kubernetes API.
func (c *Client) Ready(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/health/ready", nil, nil, nil); err != nil {
		return fmt.Errorf("server is not ready: %w", err)
	}
	return nil
}

// ClusterInfo returns the Kubernetes cluster type and version.
func (c *Client) ClusterInfo(ctx context.Context) (*models.ClusterInfo, error) {
	var info models.ClusterInfo
	if err := c.do(ctx, http.MethodGet, "/v1/cluster-info", nil, nil, &info); err != nil {
		return nil, fmt.Errorf("failed to get cluster info: %w", err)
	}
	return &info, nil
}

// Permissions returns the policy lines that apply to the logged in user.
func (c *Client) Permissions(ctx context.Context) (*models.UserPermissions, error) {
	var perms models.UserPermissions
	if err := c.do(ctx, http.MethodGet, "/v1/permissions", nil, nil, &perms); err != nil {
		return nil, fmt.Errorf("failed to get permissions: %w", err)
	}
	return &perms, nil
}

// ListNamespaces returns the database namespaces the user may read.
func (c *Client) ListNamespaces(ctx context.Context) ([]string, error) {
	var namespaces []string
	if err := c.do(ctx, http.MethodGet, "/v1/namespaces", nil, nil, &namespaces); err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}
	return namespaces, nil
}
