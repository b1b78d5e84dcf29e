// Package pipeline orchestrates one synchronization run: fetch changed
// leads, expand details, normalize, archive, load, and merge.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/firmmetrics/leadsync/internal/archive"
	"github.com/firmmetrics/leadsync/internal/leaddocket"
	"github.com/firmmetrics/leadsync/internal/metrics"
	"github.com/firmmetrics/leadsync/internal/normalize"
	"github.com/firmmetrics/leadsync/internal/warehouse"
)

// LeadSource is the slice of the LeadDocket client the pipeline uses.
type LeadSource interface {
	ChangesSince(ctx context.Context, minutes int, stats *leaddocket.Stats) ([]leaddocket.LeadSummary, error)
	ExpandDetails(ctx context.Context, summaries []leaddocket.LeadSummary, stats *leaddocket.Stats) ([]leaddocket.LeadDetail, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}

// Config carries the table names and archive layout for a run.
type Config struct {
	ProdTable     string
	StagingTable  string
	ArchivePrefix string
}

// Result summarizes one completed run. Counters live here, never in
// package-level state, so overlapping invocations stay independent.
type Result struct {
	RunID        string
	LeadCount    int
	Requests     int
	RowsInserted int64
	Elapsed      time.Duration
}

// Pipeline wires the lead source to the warehouse for one tenant.
type Pipeline struct {
	source    LeadSource
	warehouse warehouse.Provider
	archive   archive.Provider
	clock     Clock
	ids       IDGenerator
	cfg       Config
	logger    *zap.Logger
}

// New constructs a Pipeline.
func New(
	source LeadSource,
	wh warehouse.Provider,
	arch archive.Provider,
	clock Clock,
	ids IDGenerator,
	cfg Config,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		source:    source,
		warehouse: wh,
		archive:   arch,
		clock:     clock,
		ids:       ids,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run executes one synchronization pass over the given lookback window.
// Any upstream or warehouse failure aborts the run with no partial
// flush: rows reach production only through a completed load or merge.
func (p *Pipeline) Run(ctx context.Context, lookbackMinutes int) (Result, error) {
	start := p.clock.Now()
	runID, err := p.ids.NewID()
	if err != nil {
		return Result{}, fmt.Errorf("generate run id: %w", err)
	}
	logger := p.logger.With(zap.String("run_id", runID))

	stats := &leaddocket.Stats{}
	fail := func(err error) (Result, error) {
		metrics.ObserveRun("failure", p.clock.Now().Sub(start))
		return Result{}, err
	}

	summaries, err := p.source.ChangesSince(ctx, lookbackMinutes, stats)
	if err != nil {
		return fail(err)
	}
	if len(summaries) == 0 {
		elapsed := p.clock.Now().Sub(start)
		logger.Info("no lead changes in window, nothing to load",
			zap.Int("lookback_minutes", lookbackMinutes),
			zap.Int("requests", stats.Requests),
		)
		metrics.ObserveRun("empty", elapsed)
		return Result{RunID: runID, Requests: stats.Requests, Elapsed: elapsed}, nil
	}

	details, err := p.source.ExpandDetails(ctx, summaries, stats)
	if err != nil {
		return fail(err)
	}

	rows := make([]normalize.LeadRow, 0, len(details))
	for _, detail := range details {
		row, err := normalize.Normalize(detail)
		if err != nil {
			return fail(fmt.Errorf("normalize lead: %w", err))
		}
		rows = append(rows, row)
	}
	metrics.AddLeadsProcessed(len(rows))

	ndjson, err := warehouse.EncodeNDJSON(rows)
	if err != nil {
		return fail(err)
	}

	// The archive is an audit trail, not part of the load path; a
	// failed write is logged but does not abort the run.
	objectName := p.archiveObjectName(start, runID)
	if err := p.archive.Save(ctx, objectName, ndjson); err != nil {
		logger.Warn("failed to archive run batch",
			zap.String("object", objectName),
			zap.Error(err),
		)
	}

	if err := p.warehouse.EnsureDataset(ctx); err != nil {
		return fail(err)
	}

	prodExists, err := p.warehouse.ProdTableExists(ctx)
	if err != nil {
		return fail(err)
	}

	var inserted int64
	if !prodExists {
		// First run: no production table yet, load it directly.
		logger.Info("production table does not exist, loading it directly",
			zap.String("table", p.cfg.ProdTable),
			zap.Int("rows", len(rows)),
		)
		if err := p.warehouse.Load(ctx, p.cfg.ProdTable, ndjson, warehouse.WriteEmpty); err != nil {
			return fail(err)
		}
		inserted = int64(len(rows))
	} else {
		if err := p.warehouse.Load(ctx, p.cfg.StagingTable, ndjson, warehouse.WriteTruncate); err != nil {
			return fail(err)
		}
		inserted, err = p.warehouse.Merge(ctx)
		if err != nil {
			return fail(err)
		}
	}
	metrics.AddRowsInserted(inserted)

	elapsed := p.clock.Now().Sub(start)
	metrics.ObserveRun("success", elapsed)
	logger.Info("sync run complete",
		zap.Int("leads", len(rows)),
		zap.Int("requests", stats.Requests),
		zap.Int64("rows_inserted", inserted),
		zap.Duration("elapsed", elapsed),
	)
	return Result{
		RunID:        runID,
		LeadCount:    len(rows),
		Requests:     stats.Requests,
		RowsInserted: inserted,
		Elapsed:      elapsed,
	}, nil
}

// archiveObjectName lays runs out by date so buckets stay browsable:
// {prefix}/2006/01/02/{run_id}.ndjson
func (p *Pipeline) archiveObjectName(start time.Time, runID string) string {
	return fmt.Sprintf("%s/%s/%s.ndjson", p.cfg.ArchivePrefix, start.Format("2006/01/02"), runID)
}
