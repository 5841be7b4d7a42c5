package services

import (
	"context"

	"github.com/grill-labs/aerobot/internal/core/domain"
	"github.com/grill-labs/aerobot/internal/core/ports/driven"
)

// --- Mock implementations of the driven ports ---

// mockParser implements driven.CatalogParser.
type mockParser struct {
	table    *domain.Table
	parseErr error
}

func (m *mockParser) Parse(_ context.Context, _ string) (*domain.Table, error) {
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	// Copy rows: the pipeline forward-fills in place and tests reuse
	// the fixture across runs.
	rows := make([]domain.Row, len(m.table.Rows))
	for i, r := range m.table.Rows {
		row := make(domain.Row, len(r))
		for k, v := range r {
			row[k] = v
		}
		rows[i] = row
	}
	return &domain.Table{Columns: m.table.Columns, Rows: rows}, nil
}

// mockEmbedder implements driven.EmbeddingService.
type mockEmbedder struct {
	dims        int
	embedErr    error
	batchErr    error
	shortBatch  bool // return one vector fewer than requested
	batchCalls  int
	singleCalls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.singleCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return make([]float32, m.Dimensions()), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	n := len(texts)
	if m.shortBatch && n > 0 {
		n--
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = make([]float32, m.Dimensions())
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 8
}

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

// mockVectorStore implements driven.VectorStore with ID-keyed upsert
// semantics so idempotency is observable.
type mockVectorStore struct {
	points      map[string]domain.Document
	results     []domain.SearchResult
	ensureErr   error
	recreateErr error
	upsertErr   error
	searchErr   error

	ensureCalls   int
	recreateCalls int
	upsertCalls   int
	lastThreshold float64
	lastTopK      int
}

func newMockVectorStore() *mockVectorStore {
	return &mockVectorStore{points: map[string]domain.Document{}}
}

func (m *mockVectorStore) EnsureCollection(_ context.Context) error {
	m.ensureCalls++
	return m.ensureErr
}

func (m *mockVectorStore) RecreateCollection(_ context.Context) error {
	m.recreateCalls++
	if m.recreateErr != nil {
		return m.recreateErr
	}
	m.points = map[string]domain.Document{}
	return nil
}

func (m *mockVectorStore) Upsert(_ context.Context, docs []domain.Document) error {
	m.upsertCalls++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	for _, d := range docs {
		m.points[d.ID] = d
	}
	return nil
}

func (m *mockVectorStore) Search(_ context.Context, _ []float32, topK int, threshold float64) ([]domain.SearchResult, error) {
	m.lastTopK = topK
	m.lastThreshold = threshold
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results, nil
}

func (m *mockVectorStore) Count(_ context.Context) int { return len(m.points) }

// mockLLM implements driven.LLMService.
type mockLLM struct {
	reply        string
	chatErr      error
	lastMessages []driven.ChatMessage
	lastOpts     driven.ChatOptions
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.lastMessages = messages
	m.lastOpts = opts
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func (m *mockLLM) ChatStream(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions, onDelta func(string)) (string, error) {
	m.lastMessages = messages
	m.lastOpts = opts
	if m.chatErr != nil {
		return "", m.chatErr
	}
	// Deliver rune by rune; the accumulated text must match Chat.
	for _, r := range m.reply {
		onDelta(string(r))
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

// mockHistory implements driven.IngestHistory.
type mockHistory struct {
	runs      []domain.IngestRun
	recordErr error
}

func (m *mockHistory) Record(_ context.Context, run domain.IngestRun) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockHistory) List(_ context.Context, limit int) ([]domain.IngestRun, error) {
	if limit > len(m.runs) {
		limit = len(m.runs)
	}
	return m.runs[:limit], nil
}

func (m *mockHistory) Close() error { return nil }
