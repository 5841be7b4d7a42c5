package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grill-labs/aerobot/internal/core/domain"
)

var (
	askStream      bool
	askShowContext bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question about the catalog",
	Long: `Answers a single question from the knowledge base. The question is
embedded, the closest catalog documents are retrieved and the model
answers strictly from that context.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askStream, "stream", false, "print the answer as it is generated")
	askCmd.Flags().BoolVar(&askShowContext, "show-context", false, "also print the retrieved context")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if assistant == nil {
		return errors.New("assistant not configured")
	}

	ctx := cmd.Context()

	var answer domain.Answer
	var err error
	if askStream {
		answer, err = assistant.AnswerStream(ctx, question, func(delta string) {
			cmd.Print(delta)
		})
		if err == nil {
			cmd.Println()
		}
	} else {
		answer, err = assistant.Answer(ctx, question)
	}
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	if !askStream {
		cmd.Println(answer.Text)
	}

	if askShowContext {
		cmd.Println()
		cmd.Println("--- context ---")
		cmd.Println(answer.Context)
	}
	return nil
}
