package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	ingestAppend bool
	ingestWatch  bool
)

// debounce window for editors that write files in several bursts.
const watchSettle = 500 * time.Millisecond

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Build the knowledge base from a catalog file",
	Long: `Parses a catalog export (.xlsx or .csv), renders each row into a
document, embeds the documents and writes them to the vector store.

By default the collection is recreated so the knowledge base exactly
mirrors the file. With --append existing documents are kept and rows
with the same article and color are overwritten in place. A file with
no valid rows never touches the collection.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestAppend, "append", false, "keep the existing collection instead of recreating it")
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "re-ingest whenever the file changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	if ingestor == nil {
		return errors.New("ingestor not configured")
	}

	ctx := cmd.Context()
	if err := ingestOnce(ctx, cmd, path); err != nil {
		if !ingestWatch {
			return err
		}
		// In watch mode a bad revision is reported and waited out.
		cmd.PrintErrf("Ingestion failed: %v\n", err)
	}

	if !ingestWatch {
		return nil
	}
	return watchAndIngest(ctx, cmd, path)
}

func ingestOnce(ctx context.Context, cmd *cobra.Command, path string) error {
	report, err := ingestor.IngestFile(ctx, path, !ingestAppend)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", path, err)
	}

	cmd.Printf("Ingested %d documents from %s", report.Documents, path)
	if report.Skipped > 0 {
		cmd.Printf(" (%d rows skipped)", report.Skipped)
	}
	cmd.Println()
	return nil
}

// watchAndIngest re-runs ingestion on every write to the file. The
// watch is on the directory: editors replace files via rename, which
// drops a watch placed on the file itself.
func watchAndIngest(ctx context.Context, cmd *cobra.Command, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	cmd.Printf("Watching %s, press Ctrl+C to stop\n", path)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(event.Name, abs) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchSettle, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			if err := ingestOnce(ctx, cmd, path); err != nil {
				cmd.PrintErrf("Ingestion failed: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}
