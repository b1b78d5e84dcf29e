package leaddocket

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/firmmetrics/leadsync/internal/metrics"
)

// Rate-limited requests wait longer than other failures because the
// API's 429 window is measured in minutes.
const (
	rateLimitDelay = 120 * time.Second
	errorDelay     = 60 * time.Second
)

// UpstreamError reports a request that still failed after the single
// permitted retry. It is fatal: the whole run aborts and nothing
// collected so far is flushed.
type UpstreamError struct {
	URL        string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("leaddocket request %s failed with status %d after retry", e.URL, e.StatusCode)
}

// RetryPolicy retries a failed request exactly once after a fixed
// delay. No backoff, no jitter: the upstream rate limiter resets on a
// fixed schedule, so a second attempt after the window either succeeds
// or the key is blocked and the run should die.
type RetryPolicy struct {
	rateLimitDelay time.Duration
	errorDelay     time.Duration
	logger         *zap.Logger

	// sleep is swapped out in tests to avoid real multi-minute waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy builds a policy with the production delays.
func NewRetryPolicy(logger *zap.Logger) *RetryPolicy {
	return &RetryPolicy{
		rateLimitDelay: rateLimitDelay,
		errorDelay:     errorDelay,
		logger:         logger,
		sleep:          sleepContext,
	}
}

// Do issues req and, on a non-2xx response, sleeps and retries it once.
// The returned response may still be non-2xx; the caller decides how to
// surface that (it is always fatal in this pipeline). Transport-level
// errors are not retried.
func (p *RetryPolicy) Do(ctx context.Context, client *http.Client, req *http.Request, stats *Stats) (*http.Response, error) {
	resp, err := client.Do(req)
	stats.Requests++
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL, err)
	}
	metrics.ObserveAPIRequest(resp.StatusCode)
	if isSuccess(resp.StatusCode) {
		return resp, nil
	}

	p.logger.Warn("API request failed, will retry once",
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Int("requests_so_far", stats.Requests),
	)

	delay := p.errorDelay
	if resp.StatusCode == http.StatusTooManyRequests {
		p.logger.Warn("rate limit hit",
			zap.Any("response_headers", resp.Header),
			zap.Duration("delay", p.rateLimitDelay),
		)
		delay = p.rateLimitDelay
	}
	drainBody(resp)

	if err := p.sleep(ctx, delay); err != nil {
		return nil, fmt.Errorf("retry wait for %s: %w", req.URL, err)
	}

	retryResp, err := client.Do(req.Clone(ctx))
	stats.Requests++
	if err != nil {
		return nil, fmt.Errorf("retry request %s: %w", req.URL, err)
	}
	metrics.ObserveAPIRequest(retryResp.StatusCode)
	return retryResp, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// drainBody fully consumes and closes a response body so the transport
// can reuse the connection for the retry.
func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// sleepContext waits for d, aborting early if the context finishes.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	case <-timer.C:
		return nil
	}
}
