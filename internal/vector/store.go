// Package vector implements the dense embedding store: a persisted
// (ids, vectors) pair consulted by semantic retrieval. The store is a
// build artifact, replaced wholesale on rebuild and read-only between
// rebuilds, so concurrent searches need no locking.
package vector

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	tlerrors "github.com/tasteline/tasteline/internal/errors"
)

// Store holds unit-normalized embeddings with a parallel id list.
// Invariant: len(ids) == len(vectors), and vectors[i] has exactly Dims
// elements and unit length, so cosine similarity is a dot product.
type Store struct {
	ids     []int64
	vectors [][]float32
	dims    int
	model   string
}

// Match is a single similarity search hit.
type Match struct {
	ID    int64
	Score float32
}

// storeBlob is the on-disk gob representation.
type storeBlob struct {
	IDs     []int64
	Vectors [][]float32
	Dims    int
	Model   string
}

// New creates an empty store for the given dimension and model name.
func New(dims int, model string) *Store {
	return &Store{dims: dims, model: model}
}

// Add appends an (id, vector) pair. The vector must already be
// unit-normalized and match the store dimension.
func (s *Store) Add(id int64, vec []float32) error {
	if len(vec) != s.dims {
		return tlerrors.New(tlerrors.ErrCodeDimensionMismatch,
			fmt.Sprintf("vector has %d dimensions, store expects %d", len(vec), s.dims), nil)
	}
	s.ids = append(s.ids, id)
	s.vectors = append(s.vectors, vec)
	return nil
}

// Len returns the number of stored vectors.
func (s *Store) Len() int {
	return len(s.ids)
}

// Dims returns the vector dimension.
func (s *Store) Dims() int {
	return s.dims
}

// Model returns the embedding model name recorded at build time.
func (s *Store) Model() string {
	return s.model
}

// Search computes the dot product of the query against every stored
// vector and returns the limit highest-scoring ids, ties broken by
// ascending id. The scan is exhaustive and deterministic; an empty
// store yields an empty result, not an error.
func (s *Store) Search(query []float32, limit int) ([]Match, error) {
	if len(query) != s.dims {
		return nil, tlerrors.New(tlerrors.ErrCodeDimensionMismatch,
			fmt.Sprintf("query has %d dimensions, store expects %d", len(query), s.dims), nil)
	}
	if limit < 1 || s.Len() == 0 {
		return []Match{}, nil
	}

	matches := make([]Match, s.Len())
	for i, vec := range s.vectors {
		var sum float32
		for j, v := range vec {
			sum += v * query[j]
		}
		matches[i] = Match{ID: s.ids[i], Score: sum}
	}

	sort.Slice(matches, func(a, b int) bool {
		if matches[a].Score != matches[b].Score {
			return matches[a].Score > matches[b].Score
		}
		return matches[a].ID < matches[b].ID
	})

	if limit > len(matches) {
		limit = len(matches)
	}
	return matches[:limit], nil
}

// Save persists the store atomically: gob-encode to a temp file next to
// the target, then rename into place so readers never observe a
// half-written blob.
func (s *Store) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create store file: %w", err)
	}

	blob := storeBlob{IDs: s.ids, Vectors: s.vectors, Dims: s.dims, Model: s.model}
	if err := gob.NewEncoder(file).Encode(&blob); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to encode store: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close store file: %w", err)
	}

	// Rename to final path (atomic on most filesystems)
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to publish store file: %w", err)
	}

	return nil
}

// Load reads a store from disk. expectDims guards against a model or
// configuration change between build and query time: a non-zero value
// that disagrees with the stored dimension fails fast with a dimension
// mismatch instead of silently returning garbage similarities.
func Load(path string, expectDims int) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, tlerrors.New(tlerrors.ErrCodeIndexMissing,
				fmt.Sprintf("embedding store not found at %s", path), err)
		}
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var blob storeBlob
	if err := gob.NewDecoder(file).Decode(&blob); err != nil {
		return nil, tlerrors.New(tlerrors.ErrCodeCorruptIndex,
			fmt.Sprintf("failed to decode embedding store at %s", path), err)
	}

	if len(blob.IDs) != len(blob.Vectors) {
		return nil, tlerrors.New(tlerrors.ErrCodeCorruptIndex,
			fmt.Sprintf("embedding store has %d ids but %d vectors", len(blob.IDs), len(blob.Vectors)), nil)
	}

	if expectDims > 0 && blob.Dims != expectDims {
		return nil, tlerrors.New(tlerrors.ErrCodeDimensionMismatch,
			fmt.Sprintf("store built with %d dimensions, current model produces %d", blob.Dims, expectDims), nil)
	}

	return &Store{
		ids:     blob.IDs,
		vectors: blob.Vectors,
		dims:    blob.Dims,
		model:   blob.Model,
	}, nil
}

// Exists reports whether a store blob is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
