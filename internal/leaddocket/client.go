package leaddocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/firmmetrics/leadsync/internal/metrics"
)

// cutoffLayout is the minute-precision format the change endpoint
// expects for its date parameter.
const cutoffLayout = "2006-01-02T15:04"

// Client talks to a single LeadDocket tenant.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	headers    http.Header
	retry      *RetryPolicy
	logger     *zap.Logger

	// now is replaced in tests to pin the change cutoff.
	now func() time.Time
}

// NewClient builds a Client. apiKey is sent on every request via the
// api_key header, alongside an Accept header; that pair is the entire
// authentication surface of the API.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	headers := http.Header{}
	headers.Set("Accept", "application/json")
	headers.Set("api_key", apiKey)
	return &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout},
		headers:    headers,
		retry:      NewRetryPolicy(logger),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// ChangesSince returns every lead whose status changed in the last
// `minutes` minutes, walking all pages of the change listing in page
// order. A page request that fails even after the single retry aborts
// the whole call; partial results are discarded.
func (c *Client) ChangesSince(ctx context.Context, minutes int, stats *Stats) ([]LeadSummary, error) {
	cutoff := c.now().Add(-time.Duration(minutes) * time.Minute).Format(cutoffLayout)
	c.logger.Info("scanning for lead changes",
		zap.Int("lookback_minutes", minutes),
		zap.String("cutoff", cutoff),
	)

	firstURL := c.changesURL(cutoff, 1)
	resp, err := c.get(ctx, firstURL, stats)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		drainBody(resp)
		return nil, &UpstreamError{URL: firstURL, StatusCode: resp.StatusCode}
	}

	var first changesPage
	if err := decodeJSON(resp, &first); err != nil {
		return nil, fmt.Errorf("decode change listing: %w", err)
	}

	stats.TotalRecords = first.TotalRecordCount
	c.logger.Info("changes found",
		zap.Int("total_records", first.TotalRecordCount),
		zap.Int("total_pages", first.TotalPages),
		zap.String("since", cutoff),
	)

	records := append([]LeadSummary(nil), first.Records...)
	for page := 2; page <= first.TotalPages; page++ {
		c.logger.Info("fetching change page", zap.Int("page", page))
		pageURL := c.changesURL(cutoff, page)
		resp, err := c.getWithRetry(ctx, pageURL, stats)
		if err != nil {
			return nil, err
		}
		if !isSuccess(resp.StatusCode) {
			drainBody(resp)
			return nil, &UpstreamError{URL: pageURL, StatusCode: resp.StatusCode}
		}
		var pg changesPage
		if err := decodeJSON(resp, &pg); err != nil {
			return nil, fmt.Errorf("decode change page %d: %w", page, err)
		}
		records = append(records, pg.Records...)
	}
	return records, nil
}

// ExpandDetails fetches the full detail record for every summary, one
// request per lead, preserving input order. Sequential on purpose: the
// API is rate limited and the run budget tolerates linear wall-clock
// cost.
func (c *Client) ExpandDetails(ctx context.Context, summaries []LeadSummary, stats *Stats) ([]LeadDetail, error) {
	details := make([]LeadDetail, 0, len(summaries))
	for i, summary := range summaries {
		c.logger.Info("processing lead",
			zap.Int("lead", i+1),
			zap.Int("of", stats.TotalRecords),
			zap.Int("lead_id", summary.ID),
		)
		detailURL := c.leadURL(summary.ID)
		resp, err := c.getWithRetry(ctx, detailURL, stats)
		if err != nil {
			return nil, err
		}
		if !isSuccess(resp.StatusCode) {
			drainBody(resp)
			return nil, &UpstreamError{URL: detailURL, StatusCode: resp.StatusCode}
		}
		var detail LeadDetail
		if err := decodeJSON(resp, &detail); err != nil {
			return nil, fmt.Errorf("decode lead %d: %w", summary.ID, err)
		}
		details = append(details, detail)
	}
	return details, nil
}

func (c *Client) changesURL(cutoff string, page int) string {
	u := c.baseURL.JoinPath("leads", "laststatuschangesince")
	q := url.Values{}
	q.Set("date", cutoff)
	if page > 1 {
		q.Set("page", fmt.Sprintf("%d", page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) leadURL(id int) string {
	return c.baseURL.JoinPath("leads", fmt.Sprintf("%d", id)).String()
}

// get issues a single request with no retry. Only the initial change
// listing uses it; every subsequent request goes through the policy.
func (c *Client) get(ctx context.Context, rawURL string, stats *Stats) (*http.Response, error) {
	req, err := c.newRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	stats.Requests++
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}
	metrics.ObserveAPIRequest(resp.StatusCode)
	return resp, nil
}

func (c *Client) getWithRetry(ctx context.Context, rawURL string, stats *Stats) (*http.Response, error) {
	req, err := c.newRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return c.retry.Do(ctx, c.httpClient, req, stats)
}

func (c *Client) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", rawURL, err)
	}
	req.Header = c.headers.Clone()
	return req, nil
}

func decodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close() //nolint:errcheck
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return err //nolint:wrapcheck
	}
	return nil
}
