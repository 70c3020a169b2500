package index

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/blevesearch/bleve/v2"

	tlerrors "github.com/tasteline/tasteline/internal/errors"
	"github.com/tasteline/tasteline/internal/recipe"
)

// batchSize bounds memory during bulk indexing.
const batchSize = 500

// Build constructs a lexical index from a corpus snapshot and publishes
// it atomically: the index is written to a temporary directory next to
// the target and swapped into place only on success, so a crash
// mid-build never leaves a half-written index visible to retrievers.
func Build(ctx context.Context, records []recipe.Recipe, path string) error {
	if len(records) == 0 {
		slog.Warn("lexical_build_skipped", slog.String("reason", "empty corpus"))
		return tlerrors.New(tlerrors.ErrCodeEmptyCorpus, "no recipes to index", nil)
	}

	start := time.Now()
	slog.Info("lexical_build_started",
		slog.Int("records", len(records)),
		slog.String("path", path))

	indexMapping, err := createIndexMapping()
	if err != nil {
		return tlerrors.New(tlerrors.ErrCodeIndexBuild, "failed to create index mapping", err)
	}

	tmpPath := path + ".tmp"
	if err := os.RemoveAll(tmpPath); err != nil {
		return tlerrors.New(tlerrors.ErrCodeIndexBuild, "failed to clear temp index", err)
	}

	idx, err := bleve.New(tmpPath, indexMapping)
	if err != nil {
		return tlerrors.New(tlerrors.ErrCodeIndexBuild, "failed to create index", err)
	}

	if err := indexRecords(ctx, idx, records); err != nil {
		_ = idx.Close()
		_ = os.RemoveAll(tmpPath)
		return err
	}

	if err := idx.Close(); err != nil {
		_ = os.RemoveAll(tmpPath)
		return tlerrors.New(tlerrors.ErrCodeIndexBuild, "failed to close index", err)
	}

	// Publish: drop any previous index, then rename the temp directory
	// into place.
	if err := os.RemoveAll(path); err != nil {
		_ = os.RemoveAll(tmpPath)
		return tlerrors.New(tlerrors.ErrCodeIndexBuild, "failed to remove stale index", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.RemoveAll(tmpPath)
		return tlerrors.New(tlerrors.ErrCodeIndexBuild, "failed to publish index", err)
	}

	slog.Info("lexical_build_completed",
		slog.Int("records", len(records)),
		slog.Duration("elapsed", time.Since(start)))

	return nil
}

func indexRecords(ctx context.Context, idx bleve.Index, records []recipe.Recipe) error {
	batch := idx.NewBatch()
	for i := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		doc := Document{
			Name:        records[i].Name,
			Ingredients: records[i].Ingredients,
			Text:        records[i].Text,
		}
		if err := batch.Index(formatDocID(records[i].ID), doc); err != nil {
			return tlerrors.New(tlerrors.ErrCodeIndexBuild, "failed to index recipe", err).
				WithDetail("recipe_id", formatDocID(records[i].ID))
		}

		if batch.Size() >= batchSize {
			if err := idx.Batch(batch); err != nil {
				return tlerrors.New(tlerrors.ErrCodeIndexBuild, "failed to execute batch", err)
			}
			batch = idx.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			return tlerrors.New(tlerrors.ErrCodeIndexBuild, "failed to execute batch", err)
		}
	}

	return nil
}
