package recipe

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	tlerrors "github.com/tasteline/tasteline/internal/errors"
)

// Store persists recipes in SQLite. Retrievers treat it as a read-only
// sequence of records; mutation happens through the CRUD methods only.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) a recipe store at path.
// An empty path creates an in-memory store for testing.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, tlerrors.New(tlerrors.ErrCodeCorpusQuery, "failed to open recipe database", err)
	}

	// Single writer prevents lock contention with modernc.org/sqlite.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL mode must be set via PRAGMA for modernc.org/sqlite.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS recipes (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		type        TEXT NOT NULL DEFAULT '',
		kitchen     TEXT NOT NULL DEFAULT '',
		ingredients TEXT NOT NULL DEFAULT '',
		text        TEXT NOT NULL DEFAULT '',
		likes       INTEGER NOT NULL DEFAULT 0,
		dislikes    INTEGER NOT NULL DEFAULT 0,
		bookmarks   INTEGER NOT NULL DEFAULT 0
	)`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores a recipe and returns its assigned id. A zero ID lets
// SQLite assign one; a non-zero ID is preserved (used by seeding).
func (s *Store) Insert(ctx context.Context, r *Recipe) (int64, error) {
	if r.ID != 0 {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO recipes (id, name, type, kitchen, ingredients, text, likes, dislikes, bookmarks)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Type, r.Kitchen, r.Ingredients, r.Text, r.Likes, r.Dislikes, r.Bookmarks)
		if err != nil {
			return 0, tlerrors.New(tlerrors.ErrCodeCorpusQuery, "failed to insert recipe", err)
		}
		return r.ID, nil
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO recipes (name, type, kitchen, ingredients, text, likes, dislikes, bookmarks)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.Type, r.Kitchen, r.Ingredients, r.Text, r.Likes, r.Dislikes, r.Bookmarks)
	if err != nil {
		return 0, tlerrors.New(tlerrors.ErrCodeCorpusQuery, "failed to insert recipe", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

// Delete removes a recipe by id. Deleting an absent id is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return tlerrors.New(tlerrors.ErrCodeCorpusQuery, "failed to delete recipe", err)
	}
	return nil
}

// ListAll returns every recipe ordered by ascending id. This is the
// corpus snapshot consumed by index builds and the literal retriever.
func (s *Store) ListAll(ctx context.Context) ([]Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, kitchen, ingredients, text, likes, dislikes, bookmarks
		 FROM recipes ORDER BY id ASC`)
	if err != nil {
		return nil, tlerrors.New(tlerrors.ErrCodeCorpusQuery, "failed to list recipes", err)
	}
	defer rows.Close()

	return scanRecipes(rows)
}

// FetchByIDs returns the recipes with the given ids. Ids that do not
// resolve to a live record are omitted; order is not guaranteed, so
// callers that care about rank must re-project the result themselves.
func (s *Store) FetchByIDs(ctx context.Context, ids []int64) ([]Recipe, error) {
	if len(ids) == 0 {
		return []Recipe{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT id, name, type, kitchen, ingredients, text, likes, dislikes, bookmarks
		 FROM recipes WHERE id IN (%s)`, strings.Join(placeholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, tlerrors.New(tlerrors.ErrCodeCorpusQuery, "failed to fetch recipes", err)
	}
	defer rows.Close()

	return scanRecipes(rows)
}

// Count returns the number of recipes in the corpus.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&n); err != nil {
		return 0, tlerrors.New(tlerrors.ErrCodeCorpusQuery, "failed to count recipes", err)
	}
	return n, nil
}

func scanRecipes(rows *sql.Rows) ([]Recipe, error) {
	recipes := []Recipe{}
	for rows.Next() {
		var r Recipe
		if err := rows.Scan(&r.ID, &r.Name, &r.Type, &r.Kitchen, &r.Ingredients,
			&r.Text, &r.Likes, &r.Dislikes, &r.Bookmarks); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}
