package warehouse

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmmetrics/leadsync/internal/normalize"
)

func TestEncodeNDJSONOneObjectPerLine(t *testing.T) {
	t.Parallel()

	status := "Chase"
	rows := []normalize.LeadRow{
		{ID: 1, Status: &status},
		{ID: 2},
		{ID: 3},
	}

	data, err := EncodeNDJSON(rows)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)

	for i, line := range lines {
		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &decoded), "line %d", i)
		assert.Equal(t, float64(i+1), decoded["id"])
	}
}

// TestEncodeNDJSONEmitsNullColumns verifies the schema-conformance
// invariant: absent source data still produces the column, as null.
func TestEncodeNDJSONEmitsNullColumns(t *testing.T) {
	t.Parallel()

	data, err := EncodeNDJSON([]normalize.LeadRow{{ID: 9}})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, field := range LeadSchema {
		val, present := decoded[field.Name]
		assert.True(t, present, "column %s missing from row", field.Name)
		if field.Name != "id" {
			assert.Nil(t, val, "column %s should be null", field.Name)
		}
	}
}

func TestEncodeNDJSONEmptyInput(t *testing.T) {
	t.Parallel()

	data, err := EncodeNDJSON(nil)
	require.NoError(t, err)
	assert.Empty(t, data)
}
