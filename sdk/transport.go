package sdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// requestFactory builds a fresh request for every attempt so bodies can be
// replayed.
type requestFactory func() (*http.Request, error)

// doRequestWithRetry performs a request, retrying network errors, 5xx and
// 429 responses with exponential backoff and jitter. After the last attempt
// the final response is returned as is, so the caller can decode the error.
func (c *Client) doRequestWithRetry(ctx context.Context, newRequest requestFactory) (*http.Response, error) {
	b := c.newBackoff()

	for attempt := 0; ; attempt++ {
		req, err := newRequest()
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err == nil && !retryable(resp.StatusCode) {
			return resp, nil
		}

		if attempt >= c.retryAttempts {
			if err != nil {
				return nil, fmt.Errorf("request failed after %d attempts: %w", attempt+1, err)
			}
			return resp, nil
		}

		wait := b.NextBackOff()
		if resp != nil {
			if ra := retryAfter(resp); ra > wait {
				wait = min(ra, c.retryWaitMax)
			}
			drainAndCloseBody(resp)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Client) newBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryWaitMin
	b.MaxInterval = c.retryWaitMax
	b.Multiplier = 2
	b.RandomizationFactor = 0.5
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// retryAfter returns the Retry-After header as a duration, or zero.
func retryAfter(resp *http.Response) time.Duration {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// drainAndCloseBody reads and closes the response body to ensure connection reuse.
func drainAndCloseBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
}
