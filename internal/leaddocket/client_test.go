package leaddocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// sleepRecorder captures retry delays instead of actually waiting.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return nil
}

// newTestClient builds a Client against a test server with a pinned
// clock and recorded (not slept) retry delays.
func newTestClient(t *testing.T, baseURL string) (*Client, *sleepRecorder) {
	t.Helper()

	client, err := NewClient(baseURL, "test-key", 5*time.Second, zap.NewNop())
	require.NoError(t, err)

	client.now = func() time.Time {
		return time.Date(2024, 3, 15, 12, 30, 45, 0, time.UTC)
	}
	rec := &sleepRecorder{}
	client.retry.sleep = rec.sleep
	return client, rec
}

func changesPageJSON(totalRecords, totalPages int, ids ...int) string {
	records := make([]map[string]int, 0, len(ids))
	for _, id := range ids {
		records = append(records, map[string]int{"Id": id})
	}
	payload, _ := json.Marshal(map[string]any{
		"TotalRecordCount": totalRecords,
		"TotalPages":       totalPages,
		"Records":          records,
	})
	return string(payload)
}

func TestChangesSinceSinglePage(t *testing.T) {
	t.Parallel()

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/leads/laststatuschangesince", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "test-key", r.Header.Get("api_key"))
		// Cutoff is minute precision: pinned 12:30 minus 10 minutes.
		assert.Equal(t, "2024-03-15T12:20", r.URL.Query().Get("date"))
		assert.Empty(t, r.URL.Query().Get("page"))
		fmt.Fprint(w, changesPageJSON(2, 1, 11, 22))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	stats := &Stats{}
	summaries, err := client.ChangesSince(context.Background(), 10, stats)
	require.NoError(t, err)

	assert.Equal(t, []LeadSummary{{ID: 11}, {ID: 22}}, summaries)
	assert.Equal(t, 1, requests)
	assert.Equal(t, 1, stats.Requests)
	assert.Equal(t, 2, stats.TotalRecords)
}

func TestChangesSinceWalksAllPagesInOrder(t *testing.T) {
	t.Parallel()

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch r.URL.Query().Get("page") {
		case "":
			fmt.Fprint(w, changesPageJSON(5, 3, 1, 2))
		case "2":
			fmt.Fprint(w, changesPageJSON(5, 3, 3))
		case "3":
			fmt.Fprint(w, changesPageJSON(5, 3, 4, 5))
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	stats := &Stats{}
	summaries, err := client.ChangesSince(context.Background(), 10, stats)
	require.NoError(t, err)

	// Exactly one request per page, records concatenated in page order.
	assert.Equal(t, 3, requests)
	ids := make([]int, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids)
	assert.Equal(t, 5, stats.TotalRecords)
}

func TestChangesSinceFirstRequestFailureIsFatal(t *testing.T) {
	t.Parallel()

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, rec := newTestClient(t, server.URL)
	_, err := client.ChangesSince(context.Background(), 10, &Stats{})
	require.Error(t, err)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusInternalServerError, upstreamErr.StatusCode)
	// The initial listing request is not retried.
	assert.Equal(t, 1, requests)
	assert.Empty(t, rec.delays)
}

func TestChangesSincePageFailureAfterRetryAbortsRun(t *testing.T) {
	t.Parallel()

	var pageTwoRequests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			pageTwoRequests++
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, changesPageJSON(3, 2, 1, 2))
	}))
	defer server.Close()

	client, rec := newTestClient(t, server.URL)
	summaries, err := client.ChangesSince(context.Background(), 10, &Stats{})
	require.Error(t, err)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	// One retry only, then the run dies; partial results are discarded.
	assert.Equal(t, 2, pageTwoRequests)
	assert.Equal(t, []time.Duration{60 * time.Second}, rec.delays)
	assert.Nil(t, summaries)
}

func detailJSON(id int) string {
	return fmt.Sprintf(`{
		"Id": %d,
		"Status": "Chase",
		"SeverityLevel": "No Case",
		"Contact": {"FirstName": "Lead", "LastName": "%d"},
		"PracticeArea": {"Name": "PI", "Code": "PI"},
		"Paralegal": null,
		"PhoneCall": null
	}`, id, id)
}

func TestExpandDetailsPreservesOrder(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/leads/"))
		require.NoError(t, err)
		fmt.Fprint(w, detailJSON(id))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	stats := &Stats{TotalRecords: 3}
	details, err := client.ExpandDetails(context.Background(), []LeadSummary{{ID: 7}, {ID: 3}, {ID: 9}}, stats)
	require.NoError(t, err)

	require.Len(t, details, 3)
	assert.Equal(t, 7, details[0].ID)
	assert.Equal(t, 3, details[1].ID)
	assert.Equal(t, 9, details[2].ID)
	assert.Nil(t, details[0].Paralegal)
	assert.Equal(t, "Chase", *details[0].Status)
	assert.Equal(t, 3, stats.Requests)
}

func TestExpandDetailsRateLimitRetriesOnceThenSucceeds(t *testing.T) {
	t.Parallel()

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, detailJSON(5))
	}))
	defer server.Close()

	client, rec := newTestClient(t, server.URL)
	stats := &Stats{}
	details, err := client.ExpandDetails(context.Background(), []LeadSummary{{ID: 5}}, stats)
	require.NoError(t, err)

	// 429 sleeps the longer rate-limit window, then retries exactly once.
	assert.Equal(t, []time.Duration{120 * time.Second}, rec.delays)
	assert.Equal(t, 2, requests)
	assert.Equal(t, 2, stats.Requests)
	require.Len(t, details, 1)
	assert.Equal(t, 5, details[0].ID)
}

func TestExpandDetailsSecondFailureAborts(t *testing.T) {
	t.Parallel()

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, rec := newTestClient(t, server.URL)
	_, err := client.ExpandDetails(context.Background(), []LeadSummary{{ID: 5}}, &Stats{})
	require.Error(t, err)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusTooManyRequests, upstreamErr.StatusCode)
	// No second retry.
	assert.Equal(t, 2, requests)
	assert.Equal(t, []time.Duration{120 * time.Second}, rec.delays)
}
