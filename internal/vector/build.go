package vector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tasteline/tasteline/internal/embed"
	tlerrors "github.com/tasteline/tasteline/internal/errors"
	"github.com/tasteline/tasteline/internal/recipe"
)

// Build embeds every record's concatenated fields, collects the
// unit-normalized vectors into a Store, and publishes it atomically at
// path. An empty corpus aborts the build rather than producing a
// degenerate artifact.
func Build(ctx context.Context, records []recipe.Recipe, embedder embed.Embedder, path string) (*Store, error) {
	if len(records) == 0 {
		return nil, tlerrors.New(tlerrors.ErrCodeEmptyCorpus, "no recipes to embed", nil)
	}
	if !embedder.Available(ctx) {
		return nil, tlerrors.New(tlerrors.ErrCodeModelUnavailable,
			"embedding model unavailable, semantic search disabled", nil)
	}

	start := time.Now()
	slog.Info("embedding_build_started",
		slog.Int("records", len(records)),
		slog.String("model", embedder.ModelName()),
		slog.String("path", path))

	texts := make([]string, len(records))
	for i := range records {
		texts[i] = records[i].SearchText()
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, tlerrors.New(tlerrors.ErrCodeEmbeddingFailed,
			fmt.Sprintf("failed to embed %d records", len(records)), err)
	}
	if len(vectors) != len(records) {
		return nil, tlerrors.New(tlerrors.ErrCodeEmbeddingFailed,
			fmt.Sprintf("expected %d vectors, got %d", len(records), len(vectors)), nil)
	}

	dims := embedder.Dimensions()
	if dims == 0 && len(vectors) > 0 {
		dims = len(vectors[0])
	}

	store := New(dims, embedder.ModelName())
	for i, vec := range vectors {
		if err := store.Add(records[i].ID, vec); err != nil {
			return nil, err
		}
	}

	if err := store.Save(path); err != nil {
		return nil, tlerrors.New(tlerrors.ErrCodeIndexBuild,
			"failed to publish embedding store", err)
	}

	slog.Info("embedding_build_completed",
		slog.Int("vectors", store.Len()),
		slog.Int("dimensions", store.Dims()),
		slog.Duration("elapsed", time.Since(start)))

	return store, nil
}
