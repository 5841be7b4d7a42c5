package driving

import (
	"context"

	"github.com/grill-labs/aerobot/internal/core/domain"
)

// Assistant answers natural-language questions about the catalog,
// grounded in retrieved documents. Either a full answer comes back or
// an error, never a partial one.
type Assistant interface {
	// Answer runs the full pipeline: embed the question, search the
	// store, build the grounded prompt and call the language model.
	Answer(ctx context.Context, question string) (domain.Answer, error)

	// AnswerStream is the incremental variant: onDelta receives answer
	// fragments as they arrive. The accumulated Answer.Text is
	// identical to what Answer would return.
	AnswerStream(ctx context.Context, question string, onDelta func(string)) (domain.Answer, error)
}
