package cli

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/grill-labs/aerobot/internal/config"
	"github.com/grill-labs/aerobot/internal/core/domain"
	"github.com/grill-labs/aerobot/internal/core/ports/driving"
)

// setupTestServices swaps the package-level services for mocks so
// PersistentPreRunE skips real wiring. Returns a cleanup function.
func setupTestServices() func() {
	oldCfg := cfg
	oldLog := log
	oldStore := vectorStore
	oldHistory := history
	oldIngestor := ingestor
	oldAssistant := assistant

	cfg = config.Default()
	log = zap.NewNop()
	vectorStore = &mockVectorStore{count: 7}
	history = &mockHistory{}
	ingestor = &mockIngestor{report: driving.IngestReport{Documents: 3, Skipped: 1}}
	assistant = &mockAssistant{answer: domain.Answer{
		Text:    "Модель Гриль-1000 имеет 2 ТЭНа.",
		Context: "Документ 1 (релевантность: 0.91):\nМодель: Гриль-1000",
	}}

	return func() {
		cfg = oldCfg
		log = oldLog
		vectorStore = oldStore
		history = oldHistory
		ingestor = oldIngestor
		assistant = oldAssistant
	}
}

type mockIngestor struct {
	report   driving.IngestReport
	err      error
	lastPath string
	recreate bool
	calls    int
}

func (m *mockIngestor) IngestFile(_ context.Context, path string, recreate bool) (driving.IngestReport, error) {
	m.calls++
	m.lastPath = path
	m.recreate = recreate
	return m.report, m.err
}

type mockAssistant struct {
	answer       domain.Answer
	err          error
	lastQuestion string
}

func (m *mockAssistant) Answer(_ context.Context, question string) (domain.Answer, error) {
	m.lastQuestion = question
	return m.answer, m.err
}

func (m *mockAssistant) AnswerStream(_ context.Context, question string, onDelta func(string)) (domain.Answer, error) {
	m.lastQuestion = question
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	if onDelta != nil {
		for _, r := range m.answer.Text {
			onDelta(string(r))
		}
	}
	return m.answer, nil
}

type mockVectorStore struct {
	count int
}

func (m *mockVectorStore) EnsureCollection(context.Context) error   { return nil }
func (m *mockVectorStore) RecreateCollection(context.Context) error { return nil }
func (m *mockVectorStore) Upsert(context.Context, []domain.Document) error {
	return errors.New("not used in cli tests")
}
func (m *mockVectorStore) Search(context.Context, []float32, int, float64) ([]domain.SearchResult, error) {
	return nil, nil
}
func (m *mockVectorStore) Count(context.Context) int { return m.count }

type mockHistory struct {
	runs []domain.IngestRun
	err  error
}

func (m *mockHistory) Record(_ context.Context, run domain.IngestRun) error {
	m.runs = append(m.runs, run)
	return m.err
}

func (m *mockHistory) List(_ context.Context, limit int) ([]domain.IngestRun, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > len(m.runs) {
		limit = len(m.runs)
	}
	out := make([]domain.IngestRun, limit)
	copy(out, m.runs)
	return out, nil
}

func (m *mockHistory) Close() error { return nil }

func sampleRun(id string, started time.Time) domain.IngestRun {
	return domain.IngestRun{
		ID:         id,
		File:       "catalog.xlsx",
		Documents:  12,
		Skipped:    2,
		Recreate:   true,
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
	}
}
