// Package warehouse loads normalized lead rows into BigQuery and
// reconciles the staging table into production with a key-matched
// merge.
package warehouse

import (
	"context"
)

// WriteMode selects how a load treats existing table contents.
type WriteMode string

const (
	// WriteEmpty loads only if the table is empty or absent. Used for
	// the first run, which writes straight to production.
	WriteEmpty WriteMode = "empty"
	// WriteTruncate replaces the table contents. Used for the staging
	// table on every subsequent run.
	WriteTruncate WriteMode = "truncate"
)

// Provider is the warehouse surface the pipeline depends on. The
// production implementation is BigQuery; tests substitute a mock.
type Provider interface {
	// EnsureDataset creates the destination dataset if it does not
	// exist. Missing datasets are an expected first-run condition.
	EnsureDataset(ctx context.Context) error

	// ProdTableExists reports whether the production table exists,
	// distinguishing not-found from real lookup failures.
	ProdTableExists(ctx context.Context) (bool, error)

	// Load bulk-loads newline-delimited JSON into the named table and
	// blocks until the load job completes.
	Load(ctx context.Context, table string, ndjson []byte, mode WriteMode) error

	// Merge upserts staging into production keyed on the lead id and
	// returns the net number of rows inserted.
	Merge(ctx context.Context) (int64, error)

	Close() error
}

// NoOpProvider discards all writes. Useful for dry runs where leads are
// fetched and normalized but nothing reaches the warehouse.
type NoOpProvider struct{}

// EnsureDataset does nothing and always returns nil.
func (NoOpProvider) EnsureDataset(_ context.Context) error { return nil }

// ProdTableExists always reports true so dry runs exercise the
// staging-and-merge path.
func (NoOpProvider) ProdTableExists(_ context.Context) (bool, error) { return true, nil }

// Load discards the rows.
func (NoOpProvider) Load(_ context.Context, _ string, _ []byte, _ WriteMode) error { return nil }

// Merge reports zero inserted rows.
func (NoOpProvider) Merge(_ context.Context) (int64, error) { return 0, nil }

// Close does nothing.
func (NoOpProvider) Close() error { return nil }
