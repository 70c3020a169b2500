package index

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"

	bleveindex "github.com/blevesearch/bleve_index_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tlerrors "github.com/tasteline/tasteline/internal/errors"
	"github.com/tasteline/tasteline/internal/recipe"
)

func testCorpus() []recipe.Recipe {
	return []recipe.Recipe{
		{ID: 1, Name: "Tomato Soup", Ingredients: "tomato, basil", Text: "Simmer the tomatoes until soft."},
		{ID: 2, Name: "Basil Pesto", Ingredients: "basil, pine nuts", Text: "Blend with olive oil."},
		{ID: 3, Name: "Chocolate Cake", Ingredients: "flour, cocoa, sugar", Text: "Bake at 180 degrees. A soup of chocolate, some say."},
	}
}

func buildTestIndex(t *testing.T, records []recipe.Recipe) *Lexical {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexical.bleve")
	require.NoError(t, Build(context.Background(), records, path))

	idx, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestBuild_EmptyCorpus(t *testing.T) {
	err := Build(context.Background(), nil, filepath.Join(t.TempDir(), "lexical.bleve"))
	assert.True(t, stderrors.Is(err, tlerrors.ErrEmptyCorpus))
}

func TestOpen_MissingIndex(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.bleve"))
	assert.True(t, stderrors.Is(err, tlerrors.ErrIndexMissing))
}

func TestSearch_FindsMatchesAcrossFields(t *testing.T) {
	idx := buildTestIndex(t, testCorpus())

	hits, err := idx.Search(context.Background(), "basil", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	ids := []int64{hits[0].ID, hits[1].ID}
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}

func TestSearch_NameFieldOutweighsBody(t *testing.T) {
	idx := buildTestIndex(t, testCorpus())

	// "soup" appears in recipe 1's name and recipe 3's body; the name
	// match must rank first.
	hits, err := idx.Search(context.Background(), "soup", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, int64(1), hits[0].ID)
}

func TestSearch_EmptyQueryReturnsEmpty(t *testing.T) {
	idx := buildTestIndex(t, testCorpus())

	for _, q := range []string{"", "   ", "\t\n"} {
		hits, err := idx.Search(context.Background(), q, 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	}
}

func TestSearch_StopWordOnlyQueryReturnsEmpty(t *testing.T) {
	idx := buildTestIndex(t, testCorpus())

	hits, err := idx.Search(context.Background(), "the and of", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_UnknownTokenReturnsEmpty(t *testing.T) {
	idx := buildTestIndex(t, testCorpus())

	hits, err := idx.Search(context.Background(), "zzz_nonexistent", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_RespectsLimit(t *testing.T) {
	idx := buildTestIndex(t, testCorpus())

	hits, err := idx.Search(context.Background(), "basil tomato soup", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearch_NormalizationSymmetry(t *testing.T) {
	idx := buildTestIndex(t, testCorpus())

	// Query-side inflection matches build-side text through the shared
	// normalizer.
	hits, err := idx.Search(context.Background(), "Tomatoes", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, int64(1), hits[0].ID)
}

func TestBuild_RebuildIsDeterministic(t *testing.T) {
	records := testCorpus()
	ctx := context.Background()

	dirA := filepath.Join(t.TempDir(), "a.bleve")
	dirB := filepath.Join(t.TempDir(), "b.bleve")
	require.NoError(t, Build(ctx, records, dirA))
	require.NoError(t, Build(ctx, records, dirB))

	idxA, err := Open(dirA)
	require.NoError(t, err)
	defer idxA.Close()
	idxB, err := Open(dirB)
	require.NoError(t, err)
	defer idxB.Close()

	hitsA, err := idxA.Search(ctx, "basil", 10)
	require.NoError(t, err)
	hitsB, err := idxB.Search(ctx, "basil", 10)
	require.NoError(t, err)
	assert.Equal(t, hitsA, hitsB)
}

func TestBuild_ReplacesExistingIndex(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lexical.bleve")

	require.NoError(t, Build(ctx, testCorpus(), path))
	require.NoError(t, Build(ctx, testCorpus()[:1], path))

	idx, err := Open(path)
	require.NoError(t, err)
	defer idx.Close()

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestDocIDRoundTrip(t *testing.T) {
	for _, id := range []int64{0, 1, 42, 999999} {
		parsed, err := parseDocID(formatDocID(id))
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	}
}

func TestIndexMapping_BM25Scoring(t *testing.T) {
	m, err := createIndexMapping()
	require.NoError(t, err)
	assert.Equal(t, bleveindex.BM25Scoring, m.ScoringModel)
}
