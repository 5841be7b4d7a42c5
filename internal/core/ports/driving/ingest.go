// Package driving provides interfaces exposed by the application core (primary/inbound ports).
package driving

import "context"

// IngestReport summarises one ingestion run for the admin surface.
type IngestReport struct {
	// Documents is the number of documents written to the store.
	Documents int

	// Skipped counts rows dropped for missing identity fields. These
	// are a policy, not errors: counted here, never surfaced one by one.
	Skipped int
}

// Ingestor rebuilds or extends the knowledge base from a catalog file.
type Ingestor interface {
	// IngestFile parses, normalises, embeds and upserts one file.
	// With recreate the collection is destroyed and rebuilt first,
	// but only after the file is known to contain at least one valid
	// row, so a garbage upload never wipes existing data.
	IngestFile(ctx context.Context, path string, recreate bool) (IngestReport, error)
}
