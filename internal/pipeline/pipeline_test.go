package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/firmmetrics/leadsync/internal/archive"
	"github.com/firmmetrics/leadsync/internal/leaddocket"
	"github.com/firmmetrics/leadsync/internal/metrics"
	"github.com/firmmetrics/leadsync/internal/normalize"
	"github.com/firmmetrics/leadsync/internal/warehouse"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixedIDs struct{ id string }

func (g fixedIDs) NewID() (string, error) { return g.id, nil }

func testConfig() Config {
	return Config{
		ProdTable:     "leads_prod",
		StagingTable:  "leads_staging",
		ArchivePrefix: "runs",
	}
}

// newLeadDocketServer fakes a two-page change listing (2 + 1 records)
// plus the per-lead detail endpoint.
func newLeadDocketServer(t *testing.T, severity string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/leads/laststatuschangesince":
			if r.URL.Query().Get("page") == "2" {
				fmt.Fprint(w, `{"TotalRecordCount":3,"TotalPages":2,"Records":[{"Id":30}]}`)
				return
			}
			fmt.Fprint(w, `{"TotalRecordCount":3,"TotalPages":2,"Records":[{"Id":10},{"Id":20}]}`)
		case strings.HasPrefix(r.URL.Path, "/leads/"):
			id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/leads/"))
			require.NoError(t, err)
			fmt.Fprintf(w, `{
				"Id": %d,
				"Status": "Chase",
				"SeverityLevel": %q,
				"Contact": {"FirstName": "Lead"},
				"PracticeArea": {"Name": "PI"}
			}`, id, severity)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestPipeline(t *testing.T, baseURL string, wh warehouse.Provider, arch archive.Provider) *Pipeline {
	t.Helper()

	client, err := leaddocket.NewClient(baseURL, "test-key", 5*time.Second, zap.NewNop())
	require.NoError(t, err)

	return New(
		client,
		wh,
		arch,
		fixedClock{t: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)},
		fixedIDs{id: "run-abc"},
		testConfig(),
		zap.NewNop(),
	)
}

func ndjsonIDs(t *testing.T, data []byte) []int64 {
	t.Helper()

	var ids []int64
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		var row struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &row))
		ids = append(ids, row.ID)
	}
	return ids
}

func TestRunStagesAndMergesWhenProdExists(t *testing.T) {
	t.Parallel()

	server := newLeadDocketServer(t, "No Case")
	defer server.Close()

	wh := &warehouse.MockProvider{}
	wh.On("EnsureDataset", mock.Anything).Return(nil)
	wh.On("ProdTableExists", mock.Anything).Return(true, nil)
	var staged []byte
	wh.On("Load", mock.Anything, "leads_staging", mock.Anything, warehouse.WriteTruncate).
		Run(func(args mock.Arguments) { staged = args.Get(2).([]byte) }).
		Return(nil)
	wh.On("Merge", mock.Anything).Return(int64(2), nil)

	arch := &archive.MockProvider{}
	arch.On("Save", mock.Anything, "runs/2024/03/15/run-abc.ndjson", mock.Anything).Return(nil)

	p := newTestPipeline(t, server.URL, wh, arch)
	result, err := p.Run(context.Background(), 10)
	require.NoError(t, err)

	// Three rows, page order then intra-page order.
	assert.Equal(t, 3, result.LeadCount)
	assert.Equal(t, int64(2), result.RowsInserted)
	assert.Equal(t, "run-abc", result.RunID)
	assert.Equal(t, []int64{10, 20, 30}, ndjsonIDs(t, staged))

	wh.AssertExpectations(t)
	arch.AssertExpectations(t)
}

func TestRunLoadsProductionDirectlyOnFirstRun(t *testing.T) {
	t.Parallel()

	server := newLeadDocketServer(t, "No Case")
	defer server.Close()

	wh := &warehouse.MockProvider{}
	wh.On("EnsureDataset", mock.Anything).Return(nil)
	wh.On("ProdTableExists", mock.Anything).Return(false, nil)
	wh.On("Load", mock.Anything, "leads_prod", mock.Anything, warehouse.WriteEmpty).Return(nil)

	p := newTestPipeline(t, server.URL, wh, &archive.NoOpProvider{})
	result, err := p.Run(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.RowsInserted)
	wh.AssertExpectations(t)
	wh.AssertNotCalled(t, "Merge", mock.Anything)
}

func TestRunEmptyWindowTouchesNothing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"TotalRecordCount":0,"TotalPages":0,"Records":[]}`)
	}))
	defer server.Close()

	wh := &warehouse.MockProvider{}
	p := newTestPipeline(t, server.URL, wh, &archive.NoOpProvider{})

	result, err := p.Run(context.Background(), 10)
	require.NoError(t, err)

	assert.Zero(t, result.LeadCount)
	assert.Zero(t, result.RowsInserted)
	wh.AssertNotCalled(t, "EnsureDataset", mock.Anything)
	wh.AssertNotCalled(t, "Load", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	wh.AssertNotCalled(t, "Merge", mock.Anything)
}

func TestRunUnknownSeverityAbortsBeforeAnyLoad(t *testing.T) {
	t.Parallel()

	server := newLeadDocketServer(t, "Not A Real Severity")
	defer server.Close()

	wh := &warehouse.MockProvider{}
	p := newTestPipeline(t, server.URL, wh, &archive.NoOpProvider{})

	_, err := p.Run(context.Background(), 10)
	require.Error(t, err)

	var unknownErr *normalize.UnknownSeverityError
	assert.True(t, errors.As(err, &unknownErr))
	wh.AssertNotCalled(t, "Load", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	wh.AssertNotCalled(t, "Merge", mock.Anything)
}

// stubSource lets failure paths be driven without real HTTP.
type stubSource struct {
	summaries []leaddocket.LeadSummary
	details   []leaddocket.LeadDetail
	changeErr error
	expandErr error
}

func (s *stubSource) ChangesSince(_ context.Context, _ int, _ *leaddocket.Stats) ([]leaddocket.LeadSummary, error) {
	return s.summaries, s.changeErr
}

func (s *stubSource) ExpandDetails(_ context.Context, _ []leaddocket.LeadSummary, _ *leaddocket.Stats) ([]leaddocket.LeadDetail, error) {
	return s.details, s.expandErr
}

func TestRunUpstreamFailureDiscardsPartialResults(t *testing.T) {
	t.Parallel()

	source := &stubSource{
		summaries: []leaddocket.LeadSummary{{ID: 1}},
		expandErr: &leaddocket.UpstreamError{URL: "https://x/leads/1", StatusCode: 502},
	}
	wh := &warehouse.MockProvider{}
	p := New(source, wh, &archive.NoOpProvider{},
		fixedClock{t: time.Now()}, fixedIDs{id: "run-x"}, testConfig(), zap.NewNop())

	_, err := p.Run(context.Background(), 10)
	require.Error(t, err)

	var upstreamErr *leaddocket.UpstreamError
	assert.True(t, errors.As(err, &upstreamErr))
	wh.AssertNotCalled(t, "Load", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunArchiveFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	server := newLeadDocketServer(t, "No Case")
	defer server.Close()

	wh := &warehouse.MockProvider{}
	wh.On("EnsureDataset", mock.Anything).Return(nil)
	wh.On("ProdTableExists", mock.Anything).Return(true, nil)
	wh.On("Load", mock.Anything, "leads_staging", mock.Anything, warehouse.WriteTruncate).Return(nil)
	wh.On("Merge", mock.Anything).Return(int64(0), nil)

	arch := &archive.MockProvider{}
	arch.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket gone"))

	p := newTestPipeline(t, server.URL, wh, arch)
	result, err := p.Run(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 3, result.LeadCount)
	wh.AssertExpectations(t)
}

// A concurrent writer can shrink production between the merge's row
// counts, making the reported delta negative. The run must still
// complete: production was already updated, so crashing here would only
// trigger a redelivery loop in serve mode.
func TestRunNegativeMergeDeltaCompletes(t *testing.T) {
	t.Parallel()

	metrics.Init()

	server := newLeadDocketServer(t, "No Case")
	defer server.Close()

	wh := &warehouse.MockProvider{}
	wh.On("EnsureDataset", mock.Anything).Return(nil)
	wh.On("ProdTableExists", mock.Anything).Return(true, nil)
	wh.On("Load", mock.Anything, "leads_staging", mock.Anything, warehouse.WriteTruncate).Return(nil)
	wh.On("Merge", mock.Anything).Return(int64(-1), nil)

	p := newTestPipeline(t, server.URL, wh, &archive.NoOpProvider{})
	result, err := p.Run(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, int64(-1), result.RowsInserted)
	wh.AssertExpectations(t)
}

func TestRunMergeFailurePropagates(t *testing.T) {
	t.Parallel()

	server := newLeadDocketServer(t, "No Case")
	defer server.Close()

	wh := &warehouse.MockProvider{}
	wh.On("EnsureDataset", mock.Anything).Return(nil)
	wh.On("ProdTableExists", mock.Anything).Return(true, nil)
	wh.On("Load", mock.Anything, "leads_staging", mock.Anything, warehouse.WriteTruncate).Return(nil)
	wh.On("Merge", mock.Anything).Return(int64(0), errors.New("quota exceeded"))

	p := newTestPipeline(t, server.URL, wh, &archive.NoOpProvider{})
	_, err := p.Run(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
