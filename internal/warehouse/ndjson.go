package warehouse

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/firmmetrics/leadsync/internal/normalize"
)

// EncodeNDJSON serializes rows as newline-delimited JSON, one object
// per line. BigQuery's bulk-load path handles line-delimited input far
// more robustly than a single large JSON array.
func EncodeNDJSON(rows []normalize.LeadRow) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i, row := range rows {
		if err := enc.Encode(row); err != nil {
			return nil, fmt.Errorf("encode row %d (lead %d): %w", i, row.ID, err)
		}
	}
	return buf.Bytes(), nil
}
