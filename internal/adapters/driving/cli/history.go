package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent ingestion runs",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initHistory()
	},
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if history == nil {
		return errors.New("ingest history not configured")
	}

	runs, err := history.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cmd.Println("No ingestion runs recorded.")
		return nil
	}

	for _, run := range runs {
		mode := "recreate"
		if !run.Recreate {
			mode = "append"
		}
		cmd.Printf("%s  %-8s  %4d docs  %3d skipped  %8s  %s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			mode,
			run.Documents,
			run.Skipped,
			run.FinishedAt.Sub(run.StartedAt).Round(10*time.Millisecond),
			run.File)
		if run.Error != "" {
			cmd.Printf("    failed: %s\n", run.Error)
		}
	}
	return nil
}
