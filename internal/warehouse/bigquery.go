package warehouse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/bigquery"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

// BigQueryProvider implements Provider against BigQuery. Authentication
// is handled via Application Default Credentials.
type BigQueryProvider struct {
	Client       *bigquery.Client
	Dataset      string
	ProdTable    string
	StagingTable string
	Location     string
	Logger       *zap.Logger
}

// NewBigQueryProvider creates a BigQuery client for the given project.
func NewBigQueryProvider(ctx context.Context, projectID, dataset, prodTable, stagingTable, location string, logger *zap.Logger) (*BigQueryProvider, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create bigquery client: %w", err)
	}
	return &BigQueryProvider{
		Client:       client,
		Dataset:      dataset,
		ProdTable:    prodTable,
		StagingTable: stagingTable,
		Location:     location,
		Logger:       logger,
	}, nil
}

// EnsureDataset creates the dataset in the configured location when the
// metadata lookup reports not-found. Any other lookup error is real.
func (p *BigQueryProvider) EnsureDataset(ctx context.Context) error {
	ds := p.Client.Dataset(p.Dataset)
	_, err := ds.Metadata(ctx)
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("get dataset %s: %w", p.Dataset, err)
	}

	p.Logger.Info("dataset does not exist, creating it",
		zap.String("dataset", p.Dataset),
		zap.String("location", p.Location),
	)
	if err := ds.Create(ctx, &bigquery.DatasetMetadata{Location: p.Location}); err != nil {
		return fmt.Errorf("create dataset %s: %w", p.Dataset, err)
	}
	p.Logger.Info("dataset created", zap.String("dataset", p.Dataset))
	return nil
}

// ProdTableExists distinguishes the expected first-run not-found from
// real lookup failures.
func (p *BigQueryProvider) ProdTableExists(ctx context.Context) (bool, error) {
	_, err := p.Client.Dataset(p.Dataset).Table(p.ProdTable).Metadata(ctx)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("get table %s: %w", p.ProdTable, err)
}

// Load bulk-loads NDJSON into the named table with the explicit lead
// schema and blocks until the job completes. On failure the job's error
// list is logged before the error propagates.
func (p *BigQueryProvider) Load(ctx context.Context, table string, ndjson []byte, mode WriteMode) error {
	var disposition bigquery.TableWriteDisposition
	switch mode {
	case WriteEmpty:
		disposition = bigquery.WriteEmpty
	case WriteTruncate:
		disposition = bigquery.WriteTruncate
	default:
		return fmt.Errorf("unknown write mode %q", mode)
	}

	source := bigquery.NewReaderSource(bytes.NewReader(ndjson))
	source.SourceFormat = bigquery.JSON
	source.Schema = LeadSchema

	loader := p.Client.Dataset(p.Dataset).Table(table).LoaderFrom(source)
	loader.Location = p.Location
	loader.WriteDisposition = disposition

	job, err := loader.Run(ctx)
	if err != nil {
		return fmt.Errorf("start load of %s.%s: %w", p.Dataset, table, err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for load of %s.%s: %w", p.Dataset, table, err)
	}
	if err := status.Err(); err != nil {
		p.Logger.Error("load job failed",
			zap.String("table", table),
			zap.Any("job_errors", status.Errors),
		)
		return fmt.Errorf("load %s.%s: %w", p.Dataset, table, err)
	}

	p.Logger.Info("load complete", zap.String("table", table))
	return nil
}

// Merge upserts staging into production keyed on id. Matched rows have
// only the mutable column subset overwritten; unmatched rows are
// inserted whole. The returned delta is production row count after
// minus before, which approximates the insert count; a concurrent
// writer could skew it, acceptable for a low-frequency batch job.
func (p *BigQueryProvider) Merge(ctx context.Context) (int64, error) {
	before, err := p.tableRowCount(ctx, p.ProdTable)
	if err != nil {
		return 0, err
	}

	query := p.Client.Query(p.mergeQuery())
	query.Location = p.Location
	job, err := query.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("start merge: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return 0, fmt.Errorf("wait for merge: %w", err)
	}
	if err := status.Err(); err != nil {
		p.Logger.Error("merge job failed", zap.Any("job_errors", status.Errors))
		return 0, fmt.Errorf("merge %s into %s: %w", p.StagingTable, p.ProdTable, err)
	}

	after, err := p.tableRowCount(ctx, p.ProdTable)
	if err != nil {
		return 0, err
	}
	inserted := int64(after) - int64(before)

	p.Logger.Info("merge complete",
		zap.Int64("rows_inserted", inserted),
		zap.Int64("bytes_processed", status.Statistics.TotalBytesProcessed),
	)
	return inserted, nil
}

// Close releases the BigQuery client.
func (p *BigQueryProvider) Close() error {
	if err := p.Client.Close(); err != nil {
		return fmt.Errorf("close bigquery client: %w", err)
	}
	return nil
}

func (p *BigQueryProvider) tableRowCount(ctx context.Context, table string) (uint64, error) {
	meta, err := p.Client.Dataset(p.Dataset).Table(table).Metadata(ctx)
	if err != nil {
		return 0, fmt.Errorf("get table %s row count: %w", table, err)
	}
	return meta.NumRows, nil
}

// mergeQuery renders the MERGE statement. Staging and production share
// a schema, so the not-matched branch can insert the whole row.
func (p *BigQueryProvider) mergeQuery() string {
	assignments := make([]string, 0, len(mutableColumns))
	for _, col := range mutableColumns {
		assignments = append(assignments, fmt.Sprintf("%s = staging.%s", col, col))
	}
	return fmt.Sprintf(`MERGE `+"`%s.%s`"+` prod
USING `+"`%s.%s`"+` staging
ON prod.id = staging.id
WHEN MATCHED THEN
  UPDATE SET %s
WHEN NOT MATCHED THEN
  INSERT ROW`,
		p.Dataset, p.ProdTable,
		p.Dataset, p.StagingTable,
		strings.Join(assignments, ",\n    "),
	)
}

// isNotFound reports whether err is an HTTP 404 from the BigQuery API.
func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound
	}
	return false
}
