package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/tasteline/tasteline/internal/embed"
	tlerrors "github.com/tasteline/tasteline/internal/errors"
	"github.com/tasteline/tasteline/internal/recipe"
	"github.com/tasteline/tasteline/internal/textproc"
)

// Default result-set bounds applied when Config leaves them zero.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// retriever is one retrieval strategy. Implementations return at most
// limit hits in rank order with no duplicate ids.
type retriever interface {
	retrieve(ctx context.Context, query string, limit int) ([]Hit, error)
}

// Config holds the engine's dependencies and tuning.
type Config struct {
	// LexicalPath is the lexical index directory.
	LexicalPath string

	// EmbeddingsPath is the embedding store file.
	EmbeddingsPath string

	// Embedder powers the semantic method. Nil disables it: semantic
	// queries report the model as unavailable instead of crashing.
	Embedder embed.Embedder

	// NameBoost weights the recipe name field in lexical scoring.
	NameBoost float64

	// DefaultLimit is used when a query omits the limit (default 10).
	DefaultLimit int

	// MaxLimit caps requested limits (default 100).
	MaxLimit int
}

// Options configures one search call.
type Options struct {
	Method        Method
	Limit         int
	IncludeScores bool
}

// Engine is the query orchestrator. It is safe for concurrent use:
// retrieval reads immutable published artifacts, and the corpus store
// serializes its own access.
type Engine struct {
	store        *recipe.Store
	literal      *literalRetriever
	lexical      *lexicalRetriever
	semantic     *semanticRetriever
	defaultLimit int
	maxLimit     int
}

// NewEngine creates an engine over the given corpus store and index
// artifacts. The engine does not own the store or the embedder; the
// caller closes those.
func NewEngine(store *recipe.Store, cfg Config) *Engine {
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = MaxLimit
	}

	return &Engine{
		store:        store,
		literal:      &literalRetriever{store: store},
		lexical:      &lexicalRetriever{path: cfg.LexicalPath, nameBoost: cfg.NameBoost},
		semantic:     &semanticRetriever{path: cfg.EmbeddingsPath, embedder: cfg.Embedder},
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Search runs one query. Retriever failures do not propagate: the
// response comes back with zero results and the error cause attached, so
// one failing method never takes down a request path that could fall
// back to another method. The only error return is an unknown method.
func (e *Engine) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	start := time.Now()

	method := opts.Method
	if method == "" {
		method = MethodLexical
	}

	var ret retriever
	switch method {
	case MethodLiteral:
		ret = e.literal
	case MethodLexical:
		ret = e.lexical
	case MethodSemantic:
		ret = e.semantic
	default:
		return nil, tlerrors.New(tlerrors.ErrCodeInvalidMethod,
			"unknown search method "+string(method), nil)
	}

	resp := &Response{
		Query:   query,
		Method:  method,
		Results: []Result{},
	}

	query = strings.TrimSpace(query)
	if query == "" {
		resp.ExecutionTimeMS = elapsedMS(start)
		return resp, nil
	}

	limit := e.clampLimit(opts.Limit)

	hits, err := ret.retrieve(ctx, query, limit)
	if err != nil {
		slog.Warn("retriever failed",
			slog.String("method", string(method)),
			slog.String("query", query),
			slog.String("error", err.Error()))
		resp.Error = err.Error()
		resp.ErrorCode = tlerrors.GetCode(err)
		resp.ExecutionTimeMS = elapsedMS(start)
		return resp, nil
	}

	results, err := e.hydrate(ctx, hits, opts.IncludeScores)
	if err != nil {
		slog.Warn("result hydration failed",
			slog.String("method", string(method)),
			slog.String("error", err.Error()))
		resp.Error = err.Error()
		resp.ErrorCode = tlerrors.GetCode(err)
		resp.ExecutionTimeMS = elapsedMS(start)
		return resp, nil
	}

	resp.Results = results
	resp.TotalResults = len(results)
	resp.ExecutionTimeMS = elapsedMS(start)
	return resp, nil
}

// hydrate resolves ranked ids into full records. The bulk fetch does not
// guarantee order, so results are re-projected into the retriever's rank
// sequence. Ids that no longer resolve to a live record (deleted after
// the index was built) are dropped silently.
func (e *Engine) hydrate(ctx context.Context, hits []Hit, includeScores bool) ([]Result, error) {
	if len(hits) == 0 {
		return []Result{}, nil
	}

	ids := make([]int64, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}

	records, err := e.store.FetchByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]recipe.Recipe, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		rec, ok := byID[h.ID]
		if !ok {
			continue
		}
		res := Result{Record: rec}
		if includeScores && h.Scored {
			score := h.Score
			res.Score = &score
		}
		results = append(results, res)
	}
	return results, nil
}

// CorpusInfo computes corpus-wide token statistics on demand by running
// the normalizer over every record's searchable text. O(corpus size) per
// call, never cached.
func (e *Engine) CorpusInfo(ctx context.Context) (*CorpusInfo, error) {
	records, err := e.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	info := &CorpusInfo{TotalRecords: len(records)}
	for i := range records {
		info.TotalTokens += len(textproc.Normalize(records[i].SearchText()))
	}
	if info.TotalRecords > 0 {
		info.AverageRecordLength = float64(info.TotalTokens) / float64(info.TotalRecords)
	}
	return info, nil
}

// Invalidate drops cached index handles so the next query reopens the
// published artifacts. Call after a rebuild.
func (e *Engine) Invalidate() error {
	e.semantic.invalidate()
	return e.lexical.invalidate()
}

// Close releases the engine's index handles. The corpus store and the
// embedder are owned by the caller and stay open.
func (e *Engine) Close() error {
	return e.Invalidate()
}

func (e *Engine) clampLimit(limit int) int {
	if limit < 1 {
		return e.defaultLimit
	}
	if limit > e.maxLimit {
		return e.maxLimit
	}
	return limit
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
