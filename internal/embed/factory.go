package embed

import (
	"context"
	"strings"
	"time"

	tlerrors "github.com/tasteline/tasteline/internal/errors"
)

// ProviderType represents an embedding provider.
type ProviderType string

const (
	// ProviderOllama uses the Ollama HTTP API (default when reachable).
	ProviderOllama ProviderType = "ollama"

	// ProviderOpenAI uses an OpenAI-compatible embeddings API.
	ProviderOpenAI ProviderType = "openai"

	// ProviderStatic uses hash-based embeddings (offline fallback).
	ProviderStatic ProviderType = "static"
)

// Options selects and configures an embedding provider.
type Options struct {
	// Provider is one of "ollama", "openai", "static". Empty triggers
	// auto-detection: Ollama if reachable, otherwise static.
	Provider      string
	Model         string
	Dimensions    int
	BatchSize     int
	OllamaHost    string
	OpenAIBaseURL string
	CacheSize     int
	Timeout       time.Duration
}

// NewEmbedder creates an embedder for the configured provider and wraps
// it with a query-embedding LRU cache. The returned embedder is meant
// to be constructed once and shared for the process lifetime.
func NewEmbedder(ctx context.Context, opts Options) (Embedder, error) {
	var embedder Embedder
	var err error

	switch ParseProvider(opts.Provider) {
	case ProviderOllama:
		embedder, err = newOllama(ctx, opts)
	case ProviderOpenAI:
		embedder, err = NewOpenAIEmbedder(OpenAIConfig{
			BaseURL:    opts.OpenAIBaseURL,
			Model:      opts.Model,
			Dimensions: opts.Dimensions,
			BatchSize:  opts.BatchSize,
		})
	case ProviderStatic:
		embedder = NewStaticEmbedder()
	default:
		embedder, err = autoDetect(ctx, opts)
	}
	if err != nil {
		return nil, err
	}

	return NewCachedEmbedder(embedder, opts.CacheSize), nil
}

func newOllama(ctx context.Context, opts Options) (Embedder, error) {
	cfg := DefaultOllamaConfig()
	if opts.OllamaHost != "" {
		cfg.Host = opts.OllamaHost
	}
	if opts.Model != "" {
		cfg.Model = opts.Model
	}
	if opts.Dimensions > 0 {
		cfg.Dimensions = opts.Dimensions
	}
	if opts.BatchSize > 0 {
		cfg.BatchSize = opts.BatchSize
	}
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}

	embedder, err := NewOllamaEmbedder(ctx, cfg)
	if err != nil {
		return nil, tlerrors.New(tlerrors.ErrCodeModelUnavailable,
			"ollama unavailable (start it with: ollama serve, or set embeddings.provider: static)", err)
	}
	return embedder, nil
}

// autoDetect prefers Ollama when reachable and silently degrades to the
// static embedder otherwise. Explicit provider selection never falls
// back; only auto-detection does.
func autoDetect(ctx context.Context, opts Options) (Embedder, error) {
	embedder, err := newOllama(ctx, opts)
	if err == nil {
		return embedder, nil
	}
	return NewStaticEmbedder(), nil
}

// ParseProvider converts a string to ProviderType. Unknown or empty
// values map to auto-detection (empty ProviderType).
func ParseProvider(s string) ProviderType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ollama":
		return ProviderOllama
	case "openai":
		return ProviderOpenAI
	case "static":
		return ProviderStatic
	default:
		return ""
	}
}

// String returns the string representation of ProviderType.
func (p ProviderType) String() string {
	return string(p)
}
