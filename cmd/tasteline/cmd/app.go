package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/tasteline/tasteline/internal/config"
	"github.com/tasteline/tasteline/internal/embed"
	"github.com/tasteline/tasteline/internal/index"
	"github.com/tasteline/tasteline/internal/recipe"
	"github.com/tasteline/tasteline/internal/search"
)

// app bundles the long-lived resources a command needs: resolved
// configuration, the corpus store, the shared embedder, and the query
// engine. Construct with openApp and always defer Close.
type app struct {
	cfg      *config.Config
	store    *recipe.Store
	embedder embed.Embedder
	engine   *search.Engine
}

// openApp loads configuration and opens the corpus store. The embedder
// is created when withEmbedder is true; creation failure downgrades
// semantic search instead of failing the command, since the other two
// methods work without a model.
func openApp(ctx context.Context, withEmbedder bool) (*app, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}

	store, err := recipe.Open(cfg.CorpusDBPath())
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, store: store}

	if withEmbedder {
		embedder, err := embed.NewEmbedder(ctx, embed.Options{
			Provider:      cfg.Embeddings.Provider,
			Model:         cfg.Embeddings.Model,
			Dimensions:    cfg.Embeddings.Dimensions,
			BatchSize:     cfg.Embeddings.BatchSize,
			OllamaHost:    cfg.Embeddings.OllamaHost,
			OpenAIBaseURL: cfg.Embeddings.OpenAIBaseURL,
			CacheSize:     cfg.Embeddings.CacheSize,
			Timeout:       cfg.Embeddings.RequestTimeout,
		})
		if err != nil {
			slog.Warn("embedder unavailable, semantic search disabled",
				slog.String("provider", cfg.Embeddings.Provider),
				slog.String("error", err.Error()))
		} else {
			a.embedder = embedder
		}
	}

	a.engine = search.NewEngine(store, search.Config{
		LexicalPath:    cfg.LexicalIndexPath(),
		EmbeddingsPath: cfg.EmbeddingsPath(),
		Embedder:       a.embedder,
		NameBoost:      cfg.Search.NameBoost,
		DefaultLimit:   cfg.Search.DefaultLimit,
		MaxLimit:       cfg.Search.MaxLimit,
	})

	return a, nil
}

// coordinator builds a freshness coordinator over the app's artifacts.
func (a *app) coordinator() *index.Coordinator {
	return index.NewCoordinator(index.CoordinatorConfig{
		LexicalPath:    a.cfg.LexicalIndexPath(),
		EmbeddingsPath: a.cfg.EmbeddingsPath(),
		LockDir:        a.cfg.Paths.DataDir,
		Records:        a.store,
		Embedder:       a.embedder,
	})
}

func (a *app) Close() {
	if a.engine != nil {
		_ = a.engine.Close()
	}
	if a.embedder != nil {
		_ = a.embedder.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}
