package driven

import (
	"context"

	"github.com/grill-labs/aerobot/internal/core/domain"
)

// VectorStore owns the collection lifecycle and similarity search.
// All persistent state of the assistant lives behind this port; the
// store provides its own consistency for concurrent upserts
// (last-write-wins per document ID).
type VectorStore interface {
	// EnsureCollection creates the collection if absent, with the
	// configured dimensionality and cosine similarity. Idempotent.
	EnsureCollection(ctx context.Context) error

	// RecreateCollection deletes the collection if present (absence is
	// not an error) and creates it anew. Destructive: every prior point
	// is lost, which is exactly what a full refresh wants.
	RecreateCollection(ctx context.Context) error

	// Upsert writes the documents as points keyed by their IDs,
	// overwriting existing points. The whole batch fails together;
	// points are never silently dropped on partial failure.
	Upsert(ctx context.Context, docs []domain.Document) error

	// Search returns up to topK points whose similarity to the query
	// vector is >= scoreThreshold, ordered by descending similarity.
	// An empty result is a normal outcome, not an error.
	Search(ctx context.Context, vector []float32, topK int, scoreThreshold float64) ([]domain.SearchResult, error)

	// Count returns the current point count. This is advisory
	// telemetry: it reports 0 when the collection is unreachable or
	// absent instead of failing.
	Count(ctx context.Context) int
}
