// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	embeddingopenai "github.com/grill-labs/aerobot/internal/adapters/driven/embedding/openai"
	historysqlite "github.com/grill-labs/aerobot/internal/adapters/driven/history/sqlite"
	llmopenai "github.com/grill-labs/aerobot/internal/adapters/driven/llm/openai"
	"github.com/grill-labs/aerobot/internal/adapters/driven/tabular"
	"github.com/grill-labs/aerobot/internal/adapters/driven/vectorstore/qdrant"
	"github.com/grill-labs/aerobot/internal/config"
	"github.com/grill-labs/aerobot/internal/core/ports/driven"
	"github.com/grill-labs/aerobot/internal/core/ports/driving"
	"github.com/grill-labs/aerobot/internal/core/services"
	"github.com/grill-labs/aerobot/internal/logger"
)

// Services and adapters wired by initServices. Package-level so
// commands can use them and tests can swap in fakes.
var (
	cfg         config.Config
	log         *zap.Logger
	vectorStore driven.VectorStore
	history     driven.IngestHistory
	ingestor    driving.Ingestor
	assistant   driving.Assistant
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "aerobot",
	Short: "Catalog assistant for air grill models",
	Long: `Aerobot answers questions about air grill models using a
knowledge base built from catalog spreadsheets. Catalog rows are
embedded with OpenAI and stored in Qdrant; answers are generated
strictly from the retrieved context.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initServices()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if history != nil {
			_ = history.Close()
		}
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initBase loads configuration and the logger. Commands that never
// call out to OpenAI or Qdrant (version, history) stop here.
func initBase() error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	log, err = logger.New(verbose)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	return nil
}

// initHistory opens only the local run log on top of initBase.
func initHistory() error {
	if history != nil {
		return nil
	}
	if err := initBase(); err != nil {
		return err
	}
	var err error
	history, err = historysqlite.NewStore(cfg.History.Dir)
	if err != nil {
		return fmt.Errorf("opening ingest history: %w", err)
	}
	return nil
}

// initServices builds the full adapter stack from configuration. Tests
// set the package-level services directly and skip this.
func initServices() error {
	if ingestor != nil && assistant != nil {
		return nil
	}

	if err := initBase(); err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	embedder, err := embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
		APIKey:            cfg.OpenAI.APIKey,
		BaseURL:           cfg.OpenAI.BaseURL,
		Model:             cfg.OpenAI.EmbeddingModel,
		Timeout:           cfg.OpenAITimeout(),
		RequestsPerSecond: cfg.OpenAI.EmbedRPS,
	}, log)
	if err != nil {
		return err
	}

	vectorStore, err = qdrant.NewStore(qdrant.Config{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
		Dimensions: embedder.Dimensions(),
		Timeout:    cfg.QdrantTimeout(),
	}, log)
	if err != nil {
		return err
	}

	llm, err := llmopenai.NewLLMService(llmopenai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.OpenAITimeout(),
	}, log)
	if err != nil {
		return err
	}

	// History is advisory; a failure to open it must not block the
	// commands that talk to the knowledge base.
	if history == nil {
		history, err = historysqlite.NewStore(cfg.History.Dir)
		if err != nil {
			log.Warn("ingest history unavailable", zap.Error(err))
			history = nil
		}
	}

	ingestor = services.NewIngestService(tabular.NewParser(log), embedder, vectorStore, history, log)
	assistant = services.NewAssistantService(embedder, vectorStore, llm, services.AssistantOptions{
		TopK:           cfg.RAG.TopK,
		ScoreThreshold: cfg.RAG.ScoreThreshold,
		SystemPrompt:   cfg.RAG.SystemPrompt,
		MaxTokens:      cfg.OpenAI.MaxTokens,
		Temperature:    cfg.OpenAI.Temperature,
	}, log)

	return nil
}
