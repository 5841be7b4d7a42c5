// Package services implements the application core behind the driving ports.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grill-labs/aerobot/internal/catalog"
	"github.com/grill-labs/aerobot/internal/core/domain"
	"github.com/grill-labs/aerobot/internal/core/ports/driven"
	"github.com/grill-labs/aerobot/internal/core/ports/driving"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService orchestrates the ingestion pipeline:
// parse -> forward-fill -> normalise/render/identify -> (re)create
// collection -> embed batch -> upsert.
//
// Atomicity is best-effort: embedding and upsert are single batch
// calls, and a mid-batch failure aborts the run leaving the collection
// in whatever state the store's batch semantics produced.
type IngestService struct {
	parser   driven.CatalogParser
	embedder driven.EmbeddingService
	store    driven.VectorStore
	history  driven.IngestHistory
	log      *zap.Logger
}

// NewIngestService creates the ingestion pipeline. The history store is
// optional; when nil, runs are simply not recorded.
func NewIngestService(
	parser driven.CatalogParser,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	history driven.IngestHistory,
	log *zap.Logger,
) *IngestService {
	return &IngestService{
		parser:   parser,
		embedder: embedder,
		store:    store,
		history:  history,
		log:      log,
	}
}

// IngestFile processes one catalog file and returns how many documents
// were written. Re-ingesting the same file converges to one document
// per (article, color) pair, since IDs are deterministic and the store
// upserts by ID.
func (s *IngestService) IngestFile(ctx context.Context, path string, recreate bool) (driving.IngestReport, error) {
	started := time.Now()
	report, err := s.ingest(ctx, path, recreate)
	s.recordRun(ctx, path, recreate, started, report, err)
	return report, err
}

func (s *IngestService) ingest(ctx context.Context, path string, recreate bool) (driving.IngestReport, error) {
	s.log.Info("ingesting catalog file", zap.String("file", path), zap.Bool("recreate", recreate))

	table, err := s.parser.Parse(ctx, path)
	if err != nil {
		return driving.IngestReport{}, fmt.Errorf("parse %s: %w", path, err)
	}

	catalog.ForwardFill(table)

	var report driving.IngestReport
	docs := make([]domain.Document, 0, len(table.Rows))
	for _, row := range table.Rows {
		doc, ok := catalog.BuildDocument(table.Columns, row)
		if !ok {
			report.Skipped++
			continue
		}
		docs = append(docs, doc)
	}
	s.log.Info("rows normalised",
		zap.Int("rows", len(table.Rows)),
		zap.Int("documents", len(docs)),
		zap.Int("skipped", report.Skipped))

	// An empty or garbage upload must never destroy existing data, so
	// the collection is only touched once there is something to write.
	if len(docs) == 0 {
		s.log.Warn("no valid rows, collection left untouched", zap.String("file", path))
		return report, nil
	}

	if recreate {
		err = s.store.RecreateCollection(ctx)
	} else {
		err = s.store.EnsureCollection(ctx)
	}
	if err != nil {
		return report, fmt.Errorf("prepare collection: %w", err)
	}

	texts := make([]string, len(docs))
	for i := range docs {
		texts[i] = docs[i].Text
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return report, fmt.Errorf("embed %d documents: %w", len(docs), err)
	}
	if len(vectors) != len(docs) {
		return report, fmt.Errorf("%w: got %d vectors for %d documents",
			domain.ErrEmbeddingProvider, len(vectors), len(docs))
	}
	for i := range docs {
		docs[i].Vector = vectors[i]
	}

	if err := s.store.Upsert(ctx, docs); err != nil {
		return report, fmt.Errorf("upsert %d documents: %w", len(docs), err)
	}

	report.Documents = len(docs)
	s.log.Info("ingestion complete", zap.String("file", path), zap.Int("documents", report.Documents))
	return report, nil
}

// recordRun logs the run in the ingest history. History is advisory:
// a failed write is logged, never turned into an ingestion failure.
func (s *IngestService) recordRun(ctx context.Context, path string, recreate bool, started time.Time, report driving.IngestReport, runErr error) {
	if s.history == nil {
		return
	}
	run := domain.IngestRun{
		ID:         uuid.NewString(),
		File:       path,
		Documents:  report.Documents,
		Skipped:    report.Skipped,
		Recreate:   recreate,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := s.history.Record(ctx, run); err != nil {
		s.log.Warn("recording ingest run failed", zap.Error(err))
	}
}
