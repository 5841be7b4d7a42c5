package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrUnsupportedFormat indicates a catalog file with an unrecognised
	// extension. User-correctable: convert to .xlsx or .csv.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrStoreUnavailable indicates the vector store is unreachable or
	// misconfigured. Both ingestion and queries abort on it.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrEmbeddingProvider indicates the embedding call failed (auth,
	// rate limit, timeout, malformed response). Never downgraded to an
	// empty vector, which would corrupt the index invisibly.
	ErrEmbeddingProvider = errors.New("embedding provider failure")

	// ErrAnswerGeneration indicates the language model call failed.
	// Chat surfaces show a generic apology, never the raw error.
	ErrAnswerGeneration = errors.New("answer generation failed")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
