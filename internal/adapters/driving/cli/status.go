package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show knowledge base status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if vectorStore == nil {
		return errors.New("vector store not configured")
	}

	cmd.Printf("Qdrant:     %s\n", cfg.Qdrant.URL)
	cmd.Printf("Collection: %s\n", cfg.Qdrant.Collection)
	cmd.Printf("Documents:  %d\n", vectorStore.Count(cmd.Context()))
	cmd.Printf("Model:      %s (embeddings: %s)\n", cfg.OpenAI.Model, cfg.OpenAI.EmbeddingModel)
	return nil
}
