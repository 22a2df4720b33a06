// Package versionservice queries the Percona version service for the engine
// versions an operator release supports.
package versionservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	goversion "github.com/hashicorp/go-version"
)

// DefaultURL is the public version service.
const DefaultURL = "https://check.percona.com"

// ErrUnknownOperator is returned for an operator the service has no matrix key for.
var ErrUnknownOperator = errors.New("unknown operator")

//nolint:gochecknoglobals
var engineMatrixKey = map[string]string{
	"percona-xtradb-cluster-operator": "pxc",
	"percona-server-mongodb-operator": "mongod",
	"percona-postgresql-operator":     "postgresql",
}

// Interface is implemented by the version service client.
type Interface interface {
	// GetSupportedEngineVersions returns the engine versions supported by
	// operator at operatorVersion, sorted ascending.
	GetSupportedEngineVersions(ctx context.Context, operator, operatorVersion string) ([]string, error)
}

// Client talks to the version service over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	maxElapsed time.Duration
}

var _ Interface = (*Client)(nil)

// New returns a client for the service at baseURL.
func New(baseURL string) *Client {
	return &Client{
		url:        strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxElapsed: 30 * time.Second,
	}
}

// WithHTTPClient replaces the HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.httpClient = h
	return c
}

type matrixResponse struct {
	Versions []struct {
		Matrix map[string]map[string]json.RawMessage `json:"matrix"`
	} `json:"versions"`
}

// GetSupportedEngineVersions implements Interface.
func (c *Client) GetSupportedEngineVersions(ctx context.Context, operator, operatorVersion string) ([]string, error) {
	key, ok := engineMatrixKey[operator]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, operator)
	}

	endpoint := fmt.Sprintf("%s/versions/v1/%s/%s",
		c.url, url.PathEscape(operator), url.PathEscape(strings.TrimPrefix(operatorVersion, "v")))

	var body matrixResponse
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}()

		switch {
		case resp.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("version service returned %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("version service returned %d", resp.StatusCode))
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode version service response: %w", err))
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.maxElapsed
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}

	var versions []*goversion.Version
	for _, v := range body.Versions {
		for raw := range v.Matrix[key] {
			sv, err := goversion.NewVersion(raw)
			if err != nil {
				continue
			}
			versions = append(versions, sv)
		}
	}
	slices.SortFunc(versions, func(a, b *goversion.Version) int { return a.Compare(b) })

	result := make([]string, 0, len(versions))
	for _, v := range versions {
		result = append(result, v.Original())
	}
	return result, nil
}
