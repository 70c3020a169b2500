package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, 10, cfg.Search.DefaultLimit)
	assert.Equal(t, 100, cfg.Search.MaxLimit)
	assert.Equal(t, 2.0, cfg.Search.NameBoost)
	assert.Equal(t, "nomic-embed-text", cfg.Embeddings.Model)
	assert.Equal(t, 32, cfg.Embeddings.BatchSize)
	assert.Equal(t, 8765, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestDerivedPaths(t *testing.T) {
	cfg := NewConfig()
	cfg.Paths.DataDir = "/var/lib/tasteline"

	assert.Equal(t, filepath.Join("/var/lib/tasteline", "recipes.db"), cfg.CorpusDBPath())
	assert.Equal(t, filepath.Join("/var/lib/tasteline", "lexical.bleve"), cfg.LexicalIndexPath())
	assert.Equal(t, filepath.Join("/var/lib/tasteline", "embeddings.gob"), cfg.EmbeddingsPath())

	// Explicit paths win over derived ones.
	cfg.Paths.CorpusDB = "/tmp/other.db"
	assert.Equal(t, "/tmp/other.db", cfg.CorpusDBPath())
}

func TestLoad_ProjectFileOverridesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	yamlContent := `
search:
  default_limit: 25
embeddings:
  provider: static
server:
  port: 9000
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".tasteline.yaml"), []byte(yamlContent), 0o644))

	cfg, err := Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Search.DefaultLimit)
	assert.Equal(t, "static", cfg.Embeddings.Provider)
	assert.Equal(t, 9000, cfg.Server.Port)
	// Unset fields keep defaults.
	assert.Equal(t, 100, cfg.Search.MaxLimit)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	yamlContent := `
embeddings:
  provider: static
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".tasteline.yaml"), []byte(yamlContent), 0o644))

	t.Setenv("TASTELINE_EMBEDDINGS_PROVIDER", "ollama")
	t.Setenv("TASTELINE_PORT", "9123")

	cfg, err := Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.Embeddings.Provider)
	assert.Equal(t, 9123, cfg.Server.Port)
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Search.DefaultLimit)
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad provider", func(c *Config) { c.Embeddings.Provider = "bedrock" }},
		{"zero default limit", func(c *Config) { c.Search.DefaultLimit = 0 }},
		{"max below default", func(c *Config) { c.Search.MaxLimit = 5 }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "verbose" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := NewConfig()
	cfg.Search.DefaultLimit = 42
	require.NoError(t, cfg.WriteYAML(path))

	loaded := NewConfig()
	require.NoError(t, loaded.loadYAML(path))
	assert.Equal(t, 42, loaded.Search.DefaultLimit)
}
