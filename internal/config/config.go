// Package config loads and validates the application configuration.
//
// Values come from three layers, lowest to highest precedence: built-in
// defaults, an optional TOML file and environment variables. Secrets
// (the OpenAI and Qdrant API keys) are never read from the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultSystemPrompt grounds the model in the retrieved catalog context.
const DefaultSystemPrompt = `Ты — ассистент по подбору и анализу моделей аэрогрилей.

Ты ОБЯЗАН использовать предоставленный контекст для ответов на вопросы о:
- моделях
- характеристиках
- количестве ТЭНов
- объёме
- мощности
- программах
- сравнении моделей
- фильтрации по параметрам

Ты НЕ имеешь права отвечать из собственных знаний, если информации нет в контексте.
Отвечай ТОЛЬКО на основе данных, полученных из базы знаний.

При анализе:
- Внимательно читай поле "Кол-во ТЭНов"
- Если в этом поле содержится число 2 — модель относится к моделям с двумя ТЭНами
- Извлекай название модели из поля "Название модели"

Никогда не говори, что данные отсутствуют, если они есть в контексте.
Если подходящих моделей нет — честно скажи, что по найденным данным таких моделей нет.`

// Config is the full application configuration.
type Config struct {
	OpenAI  OpenAIConfig  `toml:"openai"`
	Qdrant  QdrantConfig  `toml:"qdrant"`
	RAG     RAGConfig     `toml:"rag"`
	History HistoryConfig `toml:"history"`
}

// OpenAIConfig configures the LLM and embedding clients. The API key is
// environment-only (OPENAI_API_KEY).
type OpenAIConfig struct {
	APIKey         string  `toml:"-"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	EmbeddingModel string  `toml:"embedding_model"`
	Temperature    float64 `toml:"temperature"`
	MaxTokens      int     `toml:"max_tokens"`
	TimeoutSecs    int     `toml:"timeout_secs"`
	EmbedRPS       float64 `toml:"embed_rps"`
}

// QdrantConfig configures the vector store. The API key is
// environment-only (QDRANT_API_KEY).
type QdrantConfig struct {
	APIKey      string `toml:"-"`
	URL         string `toml:"url"`
	Collection  string `toml:"collection"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

// RAGConfig configures retrieval and answering.
type RAGConfig struct {
	TopK           int     `toml:"top_k"`
	ScoreThreshold float64 `toml:"score_threshold"`
	SystemPrompt   string  `toml:"system_prompt"`
}

// HistoryConfig configures the local ingestion run log.
type HistoryConfig struct {
	Dir string `toml:"dir"`
}

// Default returns the configuration with built-in defaults applied.
func Default() Config {
	return Config{
		OpenAI: OpenAIConfig{
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-large",
			Temperature:    0,
			MaxTokens:      2000,
			TimeoutSecs:    60,
		},
		Qdrant: QdrantConfig{
			URL:         "http://localhost:6333",
			Collection:  "knowledge_base",
			TimeoutSecs: 30,
		},
		RAG: RAGConfig{
			TopK:           5,
			ScoreThreshold: 0.3,
			SystemPrompt:   DefaultSystemPrompt,
		},
	}
}

// Load builds the configuration from defaults, the optional TOML file at
// path and environment variables, in that order. An empty path skips the
// file layer; a named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables. Names match the original
// deployment convention so existing .env files keep working.
func (c *Config) applyEnv() {
	setString(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&c.OpenAI.Model, "OPENAI_MODEL")
	setString(&c.OpenAI.EmbeddingModel, "OPENAI_EMBEDDING_MODEL")
	setFloat(&c.OpenAI.Temperature, "OPENAI_TEMPERATURE")
	setInt(&c.OpenAI.MaxTokens, "OPENAI_MAX_TOKENS")
	setInt(&c.OpenAI.TimeoutSecs, "OPENAI_TIMEOUT")

	setString(&c.Qdrant.APIKey, "QDRANT_API_KEY")
	setString(&c.Qdrant.URL, "QDRANT_URL")
	setString(&c.Qdrant.Collection, "COLLECTION_NAME")

	setInt(&c.RAG.TopK, "RAG_TOP_K")
	setFloat(&c.RAG.ScoreThreshold, "RAG_SCORE_THRESHOLD")
	setString(&c.RAG.SystemPrompt, "SYSTEM_PROMPT")
}

// Validate checks the values an invalid configuration cannot run with.
// The OpenAI API key is checked separately by commands that call out,
// so offline commands like history still work without it.
func (c *Config) Validate() error {
	if c.Qdrant.Collection == "" {
		return fmt.Errorf("config: qdrant collection name must not be empty")
	}
	if c.RAG.TopK <= 0 {
		return fmt.Errorf("config: rag top_k must be positive, got %d", c.RAG.TopK)
	}
	if c.RAG.ScoreThreshold < 0 || c.RAG.ScoreThreshold > 1 {
		return fmt.Errorf("config: rag score_threshold must be within [0, 1], got %g", c.RAG.ScoreThreshold)
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		return fmt.Errorf("config: openai temperature must be within [0, 2], got %g", c.OpenAI.Temperature)
	}
	return nil
}

// RequireAPIKey fails when the OpenAI key is missing. Commands that talk
// to the API call this up front for a clear error instead of a 401.
func (c *Config) RequireAPIKey() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("config: OPENAI_API_KEY is not set")
	}
	return nil
}

// OpenAITimeout returns the OpenAI request timeout as a duration.
func (c *Config) OpenAITimeout() time.Duration {
	return time.Duration(c.OpenAI.TimeoutSecs) * time.Second
}

// QdrantTimeout returns the Qdrant request timeout as a duration.
func (c *Config) QdrantTimeout() time.Duration {
	return time.Duration(c.Qdrant.TimeoutSecs) * time.Second
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
