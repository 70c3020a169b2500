package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete Tasteline configuration.
type Config struct {
	Version    int              `yaml:"version" json:"version"`
	Paths      PathsConfig      `yaml:"paths" json:"paths"`
	Search     SearchConfig     `yaml:"search" json:"search"`
	Embeddings EmbeddingsConfig `yaml:"embeddings" json:"embeddings"`
	Server     ServerConfig     `yaml:"server" json:"server"`
}

// PathsConfig configures where corpus data and search artifacts live.
type PathsConfig struct {
	// DataDir is the root directory for all persistent artifacts.
	// Defaults to ~/.tasteline.
	DataDir string `yaml:"data_dir" json:"data_dir"`
	// CorpusDB is the SQLite recipe database path. Empty derives
	// <data_dir>/recipes.db.
	CorpusDB string `yaml:"corpus_db" json:"corpus_db"`
	// LexicalDir is the BM25 index directory. Empty derives
	// <data_dir>/lexical.bleve.
	LexicalDir string `yaml:"lexical_dir" json:"lexical_dir"`
	// EmbeddingsFile is the dense vector store path. Empty derives
	// <data_dir>/embeddings.gob.
	EmbeddingsFile string `yaml:"embeddings_file" json:"embeddings_file"`
	// SeedFile is an optional JSON recipe dump loaded by `tasteline seed`.
	SeedFile string `yaml:"seed_file" json:"seed_file"`
}

// SearchConfig configures retrieval behaviour shared by all methods.
type SearchConfig struct {
	// DefaultLimit is the result count used when a request omits limit.
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`
	// MaxLimit is the hard upper bound on requested result counts.
	MaxLimit int `yaml:"max_limit" json:"max_limit"`
	// NameBoost is the score multiplier for matches in the recipe name field.
	NameBoost float64 `yaml:"name_boost" json:"name_boost"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider selects the backend: "ollama", "openai", "static",
	// or empty for auto-detection (ollama if reachable, else static).
	Provider   string `yaml:"provider" json:"provider"`
	Model      string `yaml:"model" json:"model"`
	Dimensions int    `yaml:"dimensions" json:"dimensions"`
	BatchSize  int    `yaml:"batch_size" json:"batch_size"`

	// OllamaHost is the Ollama API endpoint (default: http://localhost:11434).
	OllamaHost string `yaml:"ollama_host" json:"ollama_host"`

	// OpenAIBaseURL points at an OpenAI-compatible endpoint. Empty uses
	// the official API. The key is only ever read from TASTELINE_OPENAI_API_KEY
	// or OPENAI_API_KEY, never from config files.
	OpenAIBaseURL string `yaml:"openai_base_url" json:"openai_base_url"`

	// CacheSize is the number of query embeddings kept in the LRU cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`

	// RequestTimeout bounds a single embedding API call.
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			DataDir: defaultDataDir(),
		},
		Search: SearchConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
			NameBoost:    2.0,
		},
		Embeddings: EmbeddingsConfig{
			Provider:       "", // auto-detect: ollama if reachable, else static
			Model:          "nomic-embed-text",
			Dimensions:     0, // auto-detect from embedder
			BatchSize:      32,
			OllamaHost:     "",
			CacheSize:      512,
			RequestTimeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Host:     "127.0.0.1",
			Port:     8765,
			LogLevel: "info",
		},
	}
}

// defaultDataDir returns the default artifact directory (~/.tasteline).
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".tasteline")
	}
	return filepath.Join(home, ".tasteline")
}

// CorpusDBPath returns the effective recipe database path.
func (c *Config) CorpusDBPath() string {
	if c.Paths.CorpusDB != "" {
		return c.Paths.CorpusDB
	}
	return filepath.Join(c.Paths.DataDir, "recipes.db")
}

// LexicalIndexPath returns the effective BM25 index directory.
func (c *Config) LexicalIndexPath() string {
	if c.Paths.LexicalDir != "" {
		return c.Paths.LexicalDir
	}
	return filepath.Join(c.Paths.DataDir, "lexical.bleve")
}

// EmbeddingsPath returns the effective vector store path.
func (c *Config) EmbeddingsPath() string {
	if c.Paths.EmbeddingsFile != "" {
		return c.Paths.EmbeddingsFile
	}
	return filepath.Join(c.Paths.DataDir, "embeddings.gob")
}

// GetUserConfigPath returns the path to the user/global configuration file.
// It follows the XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/tasteline/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/tasteline/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tasteline", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "tasteline", "config.yaml")
	}
	return filepath.Join(home, ".config", "tasteline", "config.yaml")
}

// loadUserConfig loads the user/global configuration file if it exists.
// Returns nil config and nil error if the file doesn't exist.
func loadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()

	if !fileExists(configPath) {
		return nil, nil
	}

	cfg := NewConfig()
	if err := cfg.loadYAML(configPath); err != nil {
		return nil, fmt.Errorf("failed to load user config from %s: %w", configPath, err)
	}

	return cfg, nil
}

// Load loads configuration from the specified directory.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User/global config (~/.config/tasteline/config.yaml)
//  3. Project config (.tasteline.yaml in dir)
//  4. Environment variables (TASTELINE_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userCfg, err := loadUserConfig(); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	} else if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromFile attempts to load configuration from .tasteline.yaml or .tasteline.yml.
func (c *Config) loadFromFile(dir string) error {
	yamlPath := filepath.Join(dir, ".tasteline.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return c.loadYAML(yamlPath)
	}

	ymlPath := filepath.Join(dir, ".tasteline.yml")
	if _, err := os.Stat(ymlPath); err == nil {
		return c.loadYAML(ymlPath)
	}

	// No config file is fine - use defaults
	return nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	// Paths
	if other.Paths.DataDir != "" {
		c.Paths.DataDir = other.Paths.DataDir
	}
	if other.Paths.CorpusDB != "" {
		c.Paths.CorpusDB = other.Paths.CorpusDB
	}
	if other.Paths.LexicalDir != "" {
		c.Paths.LexicalDir = other.Paths.LexicalDir
	}
	if other.Paths.EmbeddingsFile != "" {
		c.Paths.EmbeddingsFile = other.Paths.EmbeddingsFile
	}
	if other.Paths.SeedFile != "" {
		c.Paths.SeedFile = other.Paths.SeedFile
	}

	// Search
	if other.Search.DefaultLimit != 0 {
		c.Search.DefaultLimit = other.Search.DefaultLimit
	}
	if other.Search.MaxLimit != 0 {
		c.Search.MaxLimit = other.Search.MaxLimit
	}
	if other.Search.NameBoost != 0 {
		c.Search.NameBoost = other.Search.NameBoost
	}

	// Embeddings
	if other.Embeddings.Provider != "" {
		c.Embeddings.Provider = other.Embeddings.Provider
	}
	if other.Embeddings.Model != "" {
		c.Embeddings.Model = other.Embeddings.Model
	}
	if other.Embeddings.Dimensions != 0 {
		c.Embeddings.Dimensions = other.Embeddings.Dimensions
	}
	if other.Embeddings.BatchSize != 0 {
		c.Embeddings.BatchSize = other.Embeddings.BatchSize
	}
	if other.Embeddings.OllamaHost != "" {
		c.Embeddings.OllamaHost = other.Embeddings.OllamaHost
	}
	if other.Embeddings.OpenAIBaseURL != "" {
		c.Embeddings.OpenAIBaseURL = other.Embeddings.OpenAIBaseURL
	}
	if other.Embeddings.CacheSize != 0 {
		c.Embeddings.CacheSize = other.Embeddings.CacheSize
	}
	if other.Embeddings.RequestTimeout != 0 {
		c.Embeddings.RequestTimeout = other.Embeddings.RequestTimeout
	}

	// Server
	if other.Server.Host != "" {
		c.Server.Host = other.Server.Host
	}
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}
}

// applyEnvOverrides applies TASTELINE_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TASTELINE_DATA_DIR"); v != "" {
		c.Paths.DataDir = v
	}
	if v := os.Getenv("TASTELINE_CORPUS_DB"); v != "" {
		c.Paths.CorpusDB = v
	}
	if v := os.Getenv("TASTELINE_EMBEDDINGS_PROVIDER"); v != "" {
		c.Embeddings.Provider = v
	}
	// TASTELINE_EMBEDDER is an alias for TASTELINE_EMBEDDINGS_PROVIDER
	if v := os.Getenv("TASTELINE_EMBEDDER"); v != "" {
		c.Embeddings.Provider = v
	}
	if v := os.Getenv("TASTELINE_EMBEDDINGS_MODEL"); v != "" {
		c.Embeddings.Model = v
	}
	if v := os.Getenv("TASTELINE_OLLAMA_HOST"); v != "" {
		c.Embeddings.OllamaHost = v
	}
	if v := os.Getenv("TASTELINE_OPENAI_BASE_URL"); v != "" {
		c.Embeddings.OpenAIBaseURL = v
	}
	if v := os.Getenv("TASTELINE_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("TASTELINE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("TASTELINE_MAX_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Search.MaxLimit = n
		}
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Search.DefaultLimit < 1 {
		return fmt.Errorf("search.default_limit must be positive, got %d", c.Search.DefaultLimit)
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		return fmt.Errorf("search.max_limit must be >= default_limit, got %d < %d",
			c.Search.MaxLimit, c.Search.DefaultLimit)
	}
	if c.Search.NameBoost <= 0 {
		return fmt.Errorf("search.name_boost must be positive, got %f", c.Search.NameBoost)
	}

	// Empty string triggers auto-detection
	if c.Embeddings.Provider != "" {
		validProviders := map[string]bool{"ollama": true, "openai": true, "static": true}
		if !validProviders[strings.ToLower(c.Embeddings.Provider)] {
			return fmt.Errorf("embeddings.provider must be 'ollama', 'openai', 'static', or empty (auto-detect), got %s", c.Embeddings.Provider)
		}
	}
	if c.Embeddings.BatchSize < 1 {
		return fmt.Errorf("embeddings.batch_size must be positive, got %d", c.Embeddings.BatchSize)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
