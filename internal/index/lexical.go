// Package index implements the field-weighted BM25 lexical index over
// the recipe corpus, plus the freshness coordinator that decides at
// startup which artifacts need building.
package index

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"
	"github.com/blevesearch/bleve/v2/search/query"
	bleveindex "github.com/blevesearch/bleve_index_api"

	tlerrors "github.com/tasteline/tasteline/internal/errors"
	"github.com/tasteline/tasteline/internal/textproc"
)

const (
	// RecipeTokenizerName is the name of the custom recipe tokenizer.
	RecipeTokenizerName = "recipe_tokenizer"

	// RecipeAnalyzerName is the name of the custom recipe analyzer.
	RecipeAnalyzerName = "recipe_analyzer"

	// DefaultNameBoost is the score multiplier applied to name-field
	// matches relative to ingredients/text.
	DefaultNameBoost = 2.0
)

// idDigits pads document ids so lexicographic id order matches numeric
// order, keeping score ties deterministic.
const idDigits = 12

func init() {
	_ = registry.RegisterTokenizer(RecipeTokenizerName, recipeTokenizerConstructor)
}

// Document is the indexed representation of a recipe. All three fields
// run through the shared normalization pipeline; the original values
// are stored for introspection.
type Document struct {
	Name        string `json:"name"`
	Ingredients string `json:"ingredients"`
	Text        string `json:"text"`
}

// Hit is a single lexical search result.
type Hit struct {
	ID    int64
	Score float64
}

// Lexical wraps a bleve index with recipe-specific mapping and search.
type Lexical struct {
	mu        sync.RWMutex
	index     bleve.Index
	path      string
	nameBoost float64
	closed    bool
}

// createIndexMapping builds the bleve mapping: every field is analyzed
// with the shared normalizer so build-time and query-time tokenization
// stay symmetric.
func createIndexMapping() (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()
	// BM25 is opt-in; the default scorer is classic tf-idf. BM25's
	// defaults are k1=1.2, b=0.75.
	indexMapping.ScoringModel = bleveindex.BM25Scoring

	err := indexMapping.AddCustomAnalyzer(RecipeAnalyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": RecipeTokenizerName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add custom analyzer: %w", err)
	}

	fieldMapping := bleve.NewTextFieldMapping()
	fieldMapping.Analyzer = RecipeAnalyzerName
	fieldMapping.Store = true

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("name", fieldMapping)
	docMapping.AddFieldMappingsAt("ingredients", fieldMapping)
	docMapping.AddFieldMappingsAt("text", fieldMapping)

	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = RecipeAnalyzerName

	return indexMapping, nil
}

// Open opens an existing lexical index. A missing index surfaces as
// "method unavailable" to retrievers, never as a silent rebuild.
func Open(path string) (*Lexical, error) {
	idx, err := bleve.Open(path)
	if err != nil {
		if err == bleve.ErrorIndexPathDoesNotExist {
			return nil, tlerrors.New(tlerrors.ErrCodeIndexMissing,
				fmt.Sprintf("lexical index not found at %s", path), err)
		}
		return nil, tlerrors.New(tlerrors.ErrCodeCorruptIndex,
			fmt.Sprintf("failed to open lexical index at %s", path), err)
	}

	return &Lexical{index: idx, path: path, nameBoost: DefaultNameBoost}, nil
}

// SetNameBoost overrides the name-field score multiplier.
func (l *Lexical) SetNameBoost(boost float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if boost > 0 {
		l.nameBoost = boost
	}
}

// Search parses the query against all three fields as an OR-combination
// and returns BM25-scored hits, highest first, ties broken by ascending
// id, truncated to limit. An empty or fully stop-worded query returns
// an empty result without error.
func (l *Lexical) Search(ctx context.Context, queryStr string, limit int) ([]Hit, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return nil, fmt.Errorf("index is closed")
	}
	if limit < 1 || strings.TrimSpace(queryStr) == "" {
		return []Hit{}, nil
	}
	// Queries that normalize to nothing match nothing.
	if len(textproc.Normalize(queryStr)) == 0 {
		return []Hit{}, nil
	}

	fieldQueries := make([]query.Query, 0, 3)
	for _, field := range []string{"name", "ingredients", "text"} {
		mq := bleve.NewMatchQuery(queryStr)
		mq.SetField(field)
		if field == "name" {
			mq.SetBoost(l.nameBoost)
		}
		fieldQueries = append(fieldQueries, mq)
	}

	searchRequest := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(fieldQueries...))
	searchRequest.Size = limit
	// Padded ids make the lexicographic tie-break numeric.
	searchRequest.SortBy([]string{"-_score", "_id"})

	result, err := l.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, tlerrors.New(tlerrors.ErrCodeSearchFailed, "lexical search failed", err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := parseDocID(hit.ID)
		if err != nil {
			continue
		}
		hits = append(hits, Hit{ID: id, Score: hit.Score})
	}

	return hits, nil
}

// DocCount returns the number of indexed documents.
func (l *Lexical) DocCount() (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return 0, fmt.Errorf("index is closed")
	}
	return l.index.DocCount()
}

// Close closes the index.
func (l *Lexical) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	if l.index != nil {
		return l.index.Close()
	}
	return nil
}

// Exists reports whether a lexical index directory is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// formatDocID renders a recipe id as a fixed-width document id.
func formatDocID(id int64) string {
	return fmt.Sprintf("%0*d", idDigits, id)
}

// parseDocID recovers the recipe id from a document id. ParseInt
// accepts the zero padding directly, so an all-zero id round-trips.
func parseDocID(docID string) (int64, error) {
	return strconv.ParseInt(docID, 10, 64)
}

// recipeTokenizerConstructor creates the recipe tokenizer for bleve.
func recipeTokenizerConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.Tokenizer, error) {
	return &recipeTokenizer{}, nil
}

// recipeTokenizer adapts the shared normalization pipeline to bleve's
// tokenizer interface so indexing and query parsing use identical
// tokens.
type recipeTokenizer struct{}

// Tokenize implements analysis.Tokenizer.
func (t *recipeTokenizer) Tokenize(input []byte) analysis.TokenStream {
	text := string(input)
	tokens := textproc.Normalize(text)

	result := make(analysis.TokenStream, 0, len(tokens))
	pos := 1
	offset := 0

	for _, token := range tokens {
		// Best-effort offsets; lemmas may not appear verbatim in the text.
		start := strings.Index(strings.ToLower(text[offset:]), token)
		if start == -1 {
			start = offset
		} else {
			start += offset
		}
		end := start + len(token)

		result = append(result, &analysis.Token{
			Term:     []byte(token),
			Start:    start,
			End:      end,
			Position: pos,
			Type:     analysis.AlphaNumeric,
		})
		pos++
		if end <= len(text) {
			offset = end
		}
	}

	return result
}
