// Package catalog turns raw spreadsheet rows into indexable documents:
// forward-filling grouped cells, normalising numeric fields, rendering
// the embedding text and deriving deterministic document IDs.
package catalog

import (
	"strings"

	"github.com/grill-labs/aerobot/internal/core/domain"
)

// ForwardFill propagates the last non-empty value down each fillable
// column, modelling the merged-cell grouping of the source export.
// It must run before any row filtering: a row whose model name is
// blank may still inherit one from the row above.
func ForwardFill(t *domain.Table) {
	for _, col := range domain.FillColumns {
		if !hasColumn(t.Columns, col) {
			continue
		}
		last := ""
		for _, row := range t.Rows {
			if strings.TrimSpace(row[col]) != "" {
				last = row[col]
				continue
			}
			if last != "" {
				row[col] = last
			}
		}
	}
}

func hasColumn(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}
