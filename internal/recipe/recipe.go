// Package recipe owns the recipe corpus: the canonical record type and
// the SQLite-backed store the search subsystem reads snapshots from.
package recipe

import "strings"

// Recipe is a single corpus record. Likes, Dislikes and Bookmarks are
// interaction counters maintained by callers; they are stored but never
// factored into search ranking.
type Recipe struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Kitchen     string `json:"kitchen"`
	Ingredients string `json:"ingredients"`
	Text        string `json:"text"`
	Likes       int    `json:"likes"`
	Dislikes    int    `json:"dislikes"`
	Bookmarks   int    `json:"bookmarks"`
}

// SearchText concatenates the indexed fields into the single string
// embedded at build time. The same concatenation must be used for every
// record so stored vectors stay comparable.
func (r *Recipe) SearchText() string {
	return strings.TrimSpace(r.Name + " " + r.Ingredients + " " + r.Text)
}
