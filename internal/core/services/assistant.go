package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/grill-labs/aerobot/internal/core/domain"
	"github.com/grill-labs/aerobot/internal/core/ports/driven"
	"github.com/grill-labs/aerobot/internal/core/ports/driving"
)

// Ensure AssistantService implements the interface.
var _ driving.Assistant = (*AssistantService)(nil)

// noContextMarker is what the model sees when no document clears the
// similarity threshold. The system prompt instructs it to admit there
// is no matching data rather than fabricate from training knowledge.
const noContextMarker = "Контекст не найден."

// AssistantOptions configures query-time retrieval and generation.
type AssistantOptions struct {
	// TopK is the maximum number of documents retrieved per question.
	TopK int

	// ScoreThreshold is the minimum similarity for a retrieved
	// document to enter the context.
	ScoreThreshold float64

	// SystemPrompt carries the grounding policy and domain vocabulary.
	SystemPrompt string

	// MaxTokens and Temperature are passed through to the model.
	MaxTokens   int
	Temperature float64
}

// AssistantService answers questions grounded in retrieved catalog
// documents: embed question -> thresholded search -> numbered context
// block -> two-message prompt -> chat completion.
type AssistantService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	llm      driven.LLMService
	opts     AssistantOptions
	log      *zap.Logger
}

// NewAssistantService creates the retrieval-augmented answerer.
func NewAssistantService(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	llm driven.LLMService,
	opts AssistantOptions,
	log *zap.Logger,
) *AssistantService {
	return &AssistantService{
		embedder: embedder,
		store:    store,
		llm:      llm,
		opts:     opts,
		log:      log,
	}
}

// Answer runs the full pipeline and returns the complete answer.
func (s *AssistantService) Answer(ctx context.Context, question string) (domain.Answer, error) {
	return s.answer(ctx, question, nil)
}

// AnswerStream delivers the answer fragment by fragment via onDelta.
// The accumulated text in the returned Answer is identical to what
// Answer would have produced.
func (s *AssistantService) AnswerStream(ctx context.Context, question string, onDelta func(string)) (domain.Answer, error) {
	return s.answer(ctx, question, onDelta)
}

func (s *AssistantService) answer(ctx context.Context, question string, onDelta func(string)) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("embed question: %w", err)
	}

	results, err := s.store.Search(ctx, vector, s.opts.TopK, s.opts.ScoreThreshold)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("search: %w", err)
	}
	s.log.Debug("documents retrieved",
		zap.Int("count", len(results)),
		zap.Float64("threshold", s.opts.ScoreThreshold))

	contextText := buildContext(results)
	messages := []driven.ChatMessage{
		{Role: "system", Content: s.opts.SystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Контекст:\n%s\n\nВопрос: %s", contextText, question)},
	}
	chatOpts := driven.ChatOptions{
		MaxTokens:   s.opts.MaxTokens,
		Temperature: s.opts.Temperature,
	}

	var text string
	if onDelta != nil {
		text, err = s.llm.ChatStream(ctx, messages, chatOpts, onDelta)
	} else {
		text, err = s.llm.Chat(ctx, messages, chatOpts)
	}
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrAnswerGeneration, err)
	}

	return domain.Answer{
		Text:    text,
		Sources: results,
		Context: contextText,
	}, nil
}

// buildContext formats the retrieved documents into the numbered block
// the model is prompted with. The exact context string is returned to
// the caller inside the Answer, for auditing what the model actually saw.
func buildContext(results []domain.SearchResult) string {
	if len(results) == 0 {
		return noContextMarker
	}
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("Документ %d (релевантность: %.2f):\n%s", i+1, r.Score, r.Text)
	}
	return strings.Join(parts, "\n\n")
}
