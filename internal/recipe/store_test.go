package recipe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestInsertAndListAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.Insert(ctx, &Recipe{Name: "Tomato Soup", Ingredients: "tomato, basil"})
	require.NoError(t, err)
	id2, err := s.Insert(ctx, &Recipe{Name: "Basil Pesto", Ingredients: "basil, pine nuts"})
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	recipes, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	// ListAll is ordered by ascending id.
	assert.Equal(t, "Tomato Soup", recipes[0].Name)
	assert.Equal(t, "Basil Pesto", recipes[1].Name)
}

func TestInsert_PreservesExplicitID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, &Recipe{ID: 42, Name: "Shakshuka"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	recipes, err := s.FetchByIDs(ctx, []int64{42})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Shakshuka", recipes[0].Name)
}

func TestFetchByIDs_OmitsDeadIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, &Recipe{Name: "Ramen"})
	require.NoError(t, err)

	recipes, err := s.FetchByIDs(ctx, []int64{id, 9999})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, id, recipes[0].ID)
}

func TestFetchByIDs_EmptyInput(t *testing.T) {
	s := newTestStore(t)

	recipes, err := s.FetchByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestDeleteAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, &Recipe{Name: "Gazpacho"})
	require.NoError(t, err)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Delete(ctx, id))
	// Deleting an absent id is not an error.
	require.NoError(t, s.Delete(ctx, id))

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSearchText_Concatenation(t *testing.T) {
	r := Recipe{Name: "Tomato Soup", Ingredients: "tomato, basil", Text: "Simmer gently."}
	assert.Equal(t, "Tomato Soup tomato, basil Simmer gently.", r.SearchText())
}
