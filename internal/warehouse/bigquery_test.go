package warehouse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testProvider() *BigQueryProvider {
	return &BigQueryProvider{
		Dataset:      "leads",
		ProdTable:    "leads_prod",
		StagingTable: "leads_staging",
		Location:     "US",
		Logger:       zap.NewNop(),
	}
}

func TestMergeQueryKeyedOnLeadID(t *testing.T) {
	t.Parallel()

	query := testProvider().mergeQuery()
	assert.Contains(t, query, "MERGE `leads.leads_prod` prod")
	assert.Contains(t, query, "USING `leads.leads_staging` staging")
	assert.Contains(t, query, "ON prod.id = staging.id")
	assert.Contains(t, query, "WHEN NOT MATCHED THEN")
	assert.Contains(t, query, "INSERT ROW")
}

func TestMergeQueryUpdatesExactlyTheMutableColumns(t *testing.T) {
	t.Parallel()

	query := testProvider().mergeQuery()

	updateClause := query[strings.Index(query, "UPDATE SET"):strings.Index(query, "WHEN NOT MATCHED")]
	for _, col := range mutableColumns {
		assert.Contains(t, updateClause, col+" = staging."+col)
	}

	// Contact and demographic columns are immutable once created.
	assert.NotContains(t, updateClause, "contact_")
	assert.NotContains(t, updateClause, "practicearea_")
	assert.NotContains(t, updateClause, "creator_")
	assert.NotContains(t, updateClause, "intake_")
}

// Each staging column feeds its own production column; in particular
// holddate comes from staging.holddate, not another date field.
func TestMergeQueryAssignmentsAreColumnAligned(t *testing.T) {
	t.Parallel()

	query := testProvider().mergeQuery()
	assert.Contains(t, query, "holddate = staging.holddate")

	for _, line := range strings.Split(query, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ","))
		if !strings.Contains(line, "= staging.") || strings.HasPrefix(line, "ON ") {
			continue
		}
		line = strings.TrimPrefix(line, "UPDATE SET ")
		parts := strings.Split(line, " = staging.")
		require.Len(t, parts, 2, "assignment %q", line)
		assert.Equal(t, parts[0], parts[1], "assignment %q", line)
	}
}

func TestLoadRejectsUnknownWriteMode(t *testing.T) {
	t.Parallel()

	err := testProvider().Load(t.Context(), "leads_prod", nil, WriteMode("upsert"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown write mode")
}
