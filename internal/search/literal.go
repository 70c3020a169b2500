package search

import (
	"context"
	"strings"

	"github.com/tasteline/tasteline/internal/recipe"
)

// literalRetriever matches the raw query as a case-insensitive substring
// of recipe fields. It scans the corpus directly rather than consulting
// an index, so it sees deletions and inserts immediately. Matches carry
// no score; rank order is corpus iteration order.
//
// This method exists for exactness (an exact ingredient name, a recipe
// title fragment) where stemming and stop-word removal would get in the
// way.
type literalRetriever struct {
	store *recipe.Store
}

func (r *literalRetriever) retrieve(ctx context.Context, query string, limit int) ([]Hit, error) {
	records, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	hits := make([]Hit, 0, limit)
	for i := range records {
		if !matchesLiteral(&records[i], needle) {
			continue
		}
		hits = append(hits, Hit{ID: records[i].ID})
		if len(hits) >= limit {
			break
		}
	}
	return hits, nil
}

// matchesLiteral reports whether needle (already lower-cased) occurs in
// any of the tested fields.
func matchesLiteral(rec *recipe.Recipe, needle string) bool {
	return strings.Contains(strings.ToLower(rec.Name), needle) ||
		strings.Contains(strings.ToLower(rec.Type), needle) ||
		strings.Contains(strings.ToLower(rec.Kitchen), needle) ||
		strings.Contains(strings.ToLower(rec.Text), needle)
}
