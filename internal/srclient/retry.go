// ABOUTME: Bounded retry loop with linear backoff for upstream requests.
// ABOUTME: Retries transport errors and a fixed set of transient status codes.

package srclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// retryStatuses are upstream statuses worth another attempt.
var retryStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// doWithRetry issues up to maxRetries+1 attempts. A retryable status on the
// last attempt is returned as-is; a transport error on the last attempt, or
// any cancellation, is returned as an error.
func (c *Client) doWithRetry(ctx context.Context, endpoint, rawURL string, header http.Header) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.metrics.recordRetry(endpoint, attempt)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header = header.Clone()

		resp, err := c.doer.Do(req)
		if err != nil {
			c.metrics.recordAttempt(endpoint, 0)
			lastErr = err
			if isCancellation(ctx, err) || attempt == c.maxRetries {
				return nil, err
			}
			c.logger.Debug("upstream request failed, retrying",
				"url", rawURL,
				"attempt", attempt+1,
				"error", err,
			)
			if err := c.sleep(ctx, c.backoff(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		c.metrics.recordAttempt(endpoint, resp.StatusCode)
		if retryStatuses[resp.StatusCode] && attempt < c.maxRetries {
			c.logger.Debug("upstream returned retryable status",
				"url", rawURL,
				"attempt", attempt+1,
				"status", resp.StatusCode,
			)
			drain(resp.Body)
			if err := c.sleep(ctx, c.backoff(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		return resp, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no attempts made")
	}
	return nil, lastErr
}

// backoff returns the wait before the attempt following attempt (0-indexed).
func (c *Client) backoff(attempt int) time.Duration {
	return time.Duration(attempt+1) * c.retryBackoff
}

// isCancellation reports whether err stems from the call's own context.
func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// drain discards and closes a body so the connection can be reused.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
