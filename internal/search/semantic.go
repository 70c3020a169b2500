package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/tasteline/tasteline/internal/embed"
	tlerrors "github.com/tasteline/tasteline/internal/errors"
	"github.com/tasteline/tasteline/internal/vector"
)

// semanticRetriever embeds the raw query with the same model used at
// build time and ranks recipes by cosine similarity against the stored
// vectors. The embedding store is loaded lazily and kept in memory; the
// embedder is a shared process-wide resource owned by the caller.
type semanticRetriever struct {
	path     string
	embedder embed.Embedder

	mu    sync.Mutex
	store *vector.Store
}

func (r *semanticRetriever) retrieve(ctx context.Context, query string, limit int) ([]Hit, error) {
	if r.embedder == nil {
		return nil, tlerrors.ErrModelUnavailable
	}

	store, err := r.load()
	if err != nil {
		return nil, err
	}
	if store.Len() == 0 {
		return []Hit{}, nil
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(vec) != store.Dims() {
		return nil, tlerrors.New(tlerrors.ErrCodeDimensionMismatch,
			fmt.Sprintf("query embedding has %d dimensions, store expects %d (model changed since build? rebuild the embedding store)",
				len(vec), store.Dims()), nil)
	}

	matches, err := store.Search(vec, limit)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, Hit{ID: m.ID, Score: float64(m.Score), Scored: true})
	}
	return hits, nil
}

func (r *semanticRetriever) load() (*vector.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.store != nil {
		return r.store, nil
	}

	store, err := vector.Load(r.path, r.embedder.Dimensions())
	if err != nil {
		return nil, err
	}
	r.store = store
	return store, nil
}

// invalidate drops the in-memory store so the next query reloads the
// published artifact.
func (r *semanticRetriever) invalidate() {
	r.mu.Lock()
	r.store = nil
	r.mu.Unlock()
}
