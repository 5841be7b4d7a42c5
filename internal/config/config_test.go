package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "text-embedding-3-large", cfg.OpenAI.EmbeddingModel)
	assert.Equal(t, 2000, cfg.OpenAI.MaxTokens)
	assert.Equal(t, "http://localhost:6333", cfg.Qdrant.URL)
	assert.Equal(t, "knowledge_base", cfg.Qdrant.Collection)
	assert.Equal(t, 5, cfg.RAG.TopK)
	assert.InDelta(t, 0.3, cfg.RAG.ScoreThreshold, 1e-9)
	assert.Contains(t, cfg.RAG.SystemPrompt, "аэрогрилей")
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[openai]
model = "gpt-4o"
max_tokens = 500

[qdrant]
collection = "catalog"

[rag]
top_k = 8
score_threshold = 0.5
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 500, cfg.OpenAI.MaxTokens)
	assert.Equal(t, "catalog", cfg.Qdrant.Collection)
	assert.Equal(t, 8, cfg.RAG.TopK)
	assert.InDelta(t, 0.5, cfg.RAG.ScoreThreshold, 1e-9)
	// Untouched sections keep their defaults.
	assert.Equal(t, "text-embedding-3-large", cfg.OpenAI.EmbeddingModel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[qdrant]
collection = "from_file"
`), 0o600))

	t.Setenv("COLLECTION_NAME", "from_env")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("RAG_TOP_K", "12")
	t.Setenv("RAG_SCORE_THRESHOLD", "0.7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.Qdrant.Collection)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, 12, cfg.RAG.TopK)
	assert.InDelta(t, 0.7, cfg.RAG.ScoreThreshold, 1e-9)
}

func TestLoad_MissingNamedFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty collection",
			mutate:  func(c *Config) { c.Qdrant.Collection = "" },
			wantErr: "collection",
		},
		{
			name:    "non-positive top_k",
			mutate:  func(c *Config) { c.RAG.TopK = 0 },
			wantErr: "top_k",
		},
		{
			name:    "threshold above one",
			mutate:  func(c *Config) { c.RAG.ScoreThreshold = 1.5 },
			wantErr: "score_threshold",
		},
		{
			name:    "negative temperature",
			mutate:  func(c *Config) { c.OpenAI.Temperature = -1 },
			wantErr: "temperature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequireAPIKey(t *testing.T) {
	cfg := Default()
	require.Error(t, cfg.RequireAPIKey())

	cfg.OpenAI.APIKey = "sk-test"
	assert.NoError(t, cfg.RequireAPIKey())
}
