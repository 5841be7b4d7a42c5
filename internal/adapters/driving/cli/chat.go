package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grill-labs/aerobot/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Opens an interactive terminal chat with the catalog assistant.

Controls:
  Enter - Send question
  Esc   - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if assistant == nil {
		return errors.New("assistant not configured")
	}

	// Count doubles as a reachability probe before the screen is taken
	// over; zero also means the store could not be reached.
	if vectorStore != nil {
		count := vectorStore.Count(cmd.Context())
		log.Info("knowledge base", zap.Int("documents", count))
		if count == 0 {
			cmd.PrintErrln("Warning: knowledge base is empty or unreachable, run 'aerobot ingest' first.")
		}
	}

	model := tui.NewChat(assistant).WithContext(cmd.Context())
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}
