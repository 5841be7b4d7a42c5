// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations must preserve order: EmbedBatch returns exactly one
// vector per input text, in input order. A failed call surfaces as
// domain.ErrEmbeddingProvider, never as an empty or zero vector, which
// would corrupt the index invisibly.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size. It must match the
	// vector store's collection configuration exactly.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}
