// Package search dispatches recipe retrieval across three interchangeable
// methods: literal substring matching, lexical ranked retrieval, and
// dense-vector semantic similarity. The Engine is the single query-time
// entry point; it selects a retriever, hydrates ranked ids back into full
// records, and wraps the result with timing metadata.
package search

import (
	"fmt"

	tlerrors "github.com/tasteline/tasteline/internal/errors"
	"github.com/tasteline/tasteline/internal/recipe"
)

// Method selects a retrieval strategy. The wire names match the values
// accepted by the query API.
type Method string

const (
	// MethodLiteral matches the raw query as a case-insensitive substring
	// of recipe fields. No index, no scores.
	MethodLiteral Method = "simple"

	// MethodLexical ranks recipes with field-weighted BM25 over the
	// lexical index.
	MethodLexical Method = "bm25"

	// MethodSemantic ranks recipes by cosine similarity between the query
	// embedding and stored recipe embeddings.
	MethodSemantic Method = "embedding"
)

// Methods returns all supported methods in display order.
func Methods() []Method {
	return []Method{MethodLiteral, MethodLexical, MethodSemantic}
}

// ParseMethod validates a wire-format method name. An empty string
// selects the lexical default.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "":
		return MethodLexical, nil
	case MethodLiteral, MethodLexical, MethodSemantic:
		return Method(s), nil
	default:
		return "", tlerrors.New(tlerrors.ErrCodeInvalidMethod,
			fmt.Sprintf("unknown search method %q (want one of: simple, bm25, embedding)", s), nil)
	}
}

// Hit is a single ranked id produced by a retriever. Scored is false for
// the literal method, whose matches carry no relevance score.
type Hit struct {
	ID     int64
	Score  float64
	Scored bool
}

// Result pairs a hydrated record with its optional relevance score.
// Score semantics differ by method and are not comparable across methods.
type Result struct {
	Record recipe.Recipe `json:"record"`
	Score  *float64      `json:"score,omitempty"`
}

// Response is the orchestrator's answer to one query. When a retriever
// fails, Results is empty and Error/ErrorCode carry the cause instead of
// the failure propagating to the caller.
type Response struct {
	Query           string   `json:"query"`
	Method          Method   `json:"method"`
	ExecutionTimeMS float64  `json:"execution_time_ms"`
	TotalResults    int      `json:"total_results"`
	Results         []Result `json:"results"`
	Error           string   `json:"error,omitempty"`
	ErrorCode       string   `json:"error_code,omitempty"`
}

// CorpusInfo is a read-only aggregate over the full corpus, computed on
// demand by normalizing every record's searchable text.
type CorpusInfo struct {
	TotalRecords        int     `json:"total_records"`
	TotalTokens         int     `json:"total_tokens"`
	AverageRecordLength float64 `json:"average_record_length"`
}
