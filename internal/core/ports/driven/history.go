package driven

import (
	"context"

	"github.com/grill-labs/aerobot/internal/core/domain"
)

// IngestHistory records ingestion runs for the admin surface. Like the
// document count, this is advisory telemetry: a failed write must not
// fail an ingestion that already succeeded.
type IngestHistory interface {
	// Record persists one ingestion run.
	Record(ctx context.Context, run domain.IngestRun) error

	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.IngestRun, error)

	// Close releases resources.
	Close() error
}
