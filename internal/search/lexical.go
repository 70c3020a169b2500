package search

import (
	"context"
	"sync"

	"github.com/tasteline/tasteline/internal/index"
)

// lexicalRetriever wraps the on-disk lexical index. The index is opened
// lazily on first use and cached; published artifacts are immutable
// between rebuilds, so the open handle stays valid until the engine is
// invalidated or closed.
type lexicalRetriever struct {
	path      string
	nameBoost float64

	mu  sync.Mutex
	idx *index.Lexical
}

func (r *lexicalRetriever) retrieve(ctx context.Context, query string, limit int) ([]Hit, error) {
	idx, err := r.open()
	if err != nil {
		return nil, err
	}

	indexHits, err := idx.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(indexHits))
	for _, h := range indexHits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score, Scored: true})
	}
	return hits, nil
}

func (r *lexicalRetriever) open() (*index.Lexical, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.idx != nil {
		return r.idx, nil
	}

	idx, err := index.Open(r.path)
	if err != nil {
		return nil, err
	}
	if r.nameBoost > 0 {
		idx.SetNameBoost(r.nameBoost)
	}
	r.idx = idx
	return idx, nil
}

// invalidate drops the cached handle so the next query reopens the
// artifact. Called after a rebuild publishes a new index.
func (r *lexicalRetriever) invalidate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.idx == nil {
		return nil
	}
	err := r.idx.Close()
	r.idx = nil
	return err
}
