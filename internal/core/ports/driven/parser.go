package driven

import (
	"context"

	"github.com/grill-labs/aerobot/internal/core/domain"
)

// CatalogParser reads a catalog export file into a Table.
// Unrecognised extensions fail with domain.ErrUnsupportedFormat.
type CatalogParser interface {
	Parse(ctx context.Context, path string) (*domain.Table, error)
}
