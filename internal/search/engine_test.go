package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasteline/tasteline/internal/embed"
	tlerrors "github.com/tasteline/tasteline/internal/errors"
	"github.com/tasteline/tasteline/internal/index"
	"github.com/tasteline/tasteline/internal/recipe"
	"github.com/tasteline/tasteline/internal/vector"
)

func testRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		{ID: 1, Name: "Tomato Soup", Type: "soup", Kitchen: "italian", Ingredients: "tomato, basil", Text: "Simmer tomatoes with basil until soft."},
		{ID: 2, Name: "Basil Pesto", Type: "sauce", Kitchen: "italian", Ingredients: "basil, pine nuts", Text: "Blend basil with pine nuts and olive oil."},
		{ID: 3, Name: "Chocolate Cake", Type: "dessert", Kitchen: "french", Ingredients: "chocolate, flour, eggs", Text: "Bake until a skewer comes out clean."},
	}
}

// newTestEngine seeds an in-memory corpus, builds both artifacts under a
// temp dir, and returns an engine over them.
func newTestEngine(t *testing.T) (*Engine, *recipe.Store) {
	t.Helper()
	ctx := context.Background()

	store, err := recipe.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	records := testRecipes()
	for i := range records {
		_, err := store.Insert(ctx, &records[i])
		require.NoError(t, err)
	}

	dir := t.TempDir()
	lexicalPath := filepath.Join(dir, "lexical.bleve")
	embeddingsPath := filepath.Join(dir, "embeddings.bin")

	require.NoError(t, index.Build(ctx, records, lexicalPath))

	embedder := embed.NewStaticEmbedder()
	_, err = vector.Build(ctx, records, embedder, embeddingsPath)
	require.NoError(t, err)

	engine := NewEngine(store, Config{
		LexicalPath:    lexicalPath,
		EmbeddingsPath: embeddingsPath,
		Embedder:       embedder,
		NameBoost:      2.0,
	})
	t.Cleanup(func() { _ = engine.Close() })
	return engine, store
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    Method
		wantErr bool
	}{
		{"simple", MethodLiteral, false},
		{"bm25", MethodLexical, false},
		{"embedding", MethodSemantic, false},
		{"", MethodLexical, false},
		{"hybrid", "", true},
		{"BM25", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMethod(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			assert.ErrorIs(t, err, tlerrors.New(tlerrors.ErrCodeInvalidMethod, "", nil))
		} else {
			require.NoError(t, err, "input %q", tt.input)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestSearch_LexicalCrossField(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp, err := engine.Search(context.Background(), "basil", Options{Method: MethodLexical})
	require.NoError(t, err)
	require.Equal(t, 2, resp.TotalResults)

	ids := map[int64]bool{}
	for _, r := range resp.Results {
		ids[r.Record.ID] = true
	}
	assert.True(t, ids[1])
	assert.True(t, ids[2])
	assert.Empty(t, resp.Error)
}

func TestSearch_LexicalUnknownTokenReturnsEmpty(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp, err := engine.Search(context.Background(), "zzz_nonexistent", Options{Method: MethodLexical})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TotalResults)
	assert.Empty(t, resp.Results)
	assert.Empty(t, resp.Error)
}

func TestSearch_LiteralExactSubstring(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp, err := engine.Search(context.Background(), "Tomato", Options{Method: MethodLiteral})
	require.NoError(t, err)
	require.Equal(t, 1, resp.TotalResults)
	assert.Equal(t, int64(1), resp.Results[0].Record.ID)
}

func TestSearch_LiteralMatchesMetadataFields(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp, err := engine.Search(context.Background(), "italian", Options{Method: MethodLiteral})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalResults)

	// Corpus scan order, not score order.
	assert.Equal(t, int64(1), resp.Results[0].Record.ID)
	assert.Equal(t, int64(2), resp.Results[1].Record.ID)
}

func TestSearch_LiteralNoMatchesReturnsEmpty(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp, err := engine.Search(context.Background(), "zzz_nonexistent", Options{Method: MethodLiteral})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TotalResults)
	assert.Empty(t, resp.Error)
}

func TestSearch_LiteralNoScores(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp, err := engine.Search(context.Background(), "basil",
		Options{Method: MethodLiteral, IncludeScores: true})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	for _, r := range resp.Results {
		assert.Nil(t, r.Score)
	}
}

func TestSearch_SemanticRanksCorpus(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp, err := engine.Search(context.Background(), "tomato basil soup",
		Options{Method: MethodSemantic, IncludeScores: true})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	assert.Empty(t, resp.Error)

	// The static embedder shares the corpus tokenizer, so the overlapping
	// recipe should outrank the chocolate cake.
	assert.Equal(t, int64(1), resp.Results[0].Record.ID)
	require.NotNil(t, resp.Results[0].Score)

	// Scores must be non-increasing down the ranking.
	for i := 1; i < len(resp.Results); i++ {
		assert.GreaterOrEqual(t, *resp.Results[i-1].Score, *resp.Results[i].Score)
	}
}

func TestSearch_IncludeScoresTogglesScoreField(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	with, err := engine.Search(ctx, "basil", Options{Method: MethodLexical, IncludeScores: true})
	require.NoError(t, err)
	require.NotEmpty(t, with.Results)
	require.NotNil(t, with.Results[0].Score)
	assert.Greater(t, *with.Results[0].Score, 0.0)

	without, err := engine.Search(ctx, "basil", Options{Method: MethodLexical})
	require.NoError(t, err)
	require.NotEmpty(t, without.Results)
	assert.Nil(t, without.Results[0].Score)
}

func TestSearch_EmptyQueryReturnsEmptyResponse(t *testing.T) {
	engine, _ := newTestEngine(t)

	for _, q := range []string{"", "   ", "\t\n"} {
		resp, err := engine.Search(context.Background(), q, Options{Method: MethodLexical})
		require.NoError(t, err)
		assert.Equal(t, 0, resp.TotalResults)
		assert.Empty(t, resp.Error)
	}
}

func TestSearch_UnknownMethodIsAnError(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Search(context.Background(), "basil", Options{Method: "hybrid"})
	require.Error(t, err)
	assert.Equal(t, tlerrors.ErrCodeInvalidMethod, tlerrors.GetCode(err))
}

func TestSearch_LimitClamped(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	// Zero limit falls back to the default.
	resp, err := engine.Search(ctx, "a", Options{Method: MethodLiteral})
	require.NoError(t, err)
	assert.LessOrEqual(t, resp.TotalResults, DefaultLimit)

	// Explicit limit truncates.
	resp, err = engine.Search(ctx, "basil", Options{Method: MethodLexical, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalResults)

	// Oversized limit is capped, not rejected.
	resp, err = engine.Search(ctx, "basil", Options{Method: MethodLexical, Limit: 100000})
	require.NoError(t, err)
	assert.Empty(t, resp.Error)
}

func TestSearch_MissingIndexTagsResponse(t *testing.T) {
	store, err := recipe.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	dir := t.TempDir()
	engine := NewEngine(store, Config{
		LexicalPath:    filepath.Join(dir, "missing.bleve"),
		EmbeddingsPath: filepath.Join(dir, "missing.bin"),
		Embedder:       embed.NewStaticEmbedder(),
	})
	t.Cleanup(func() { _ = engine.Close() })

	resp, err := engine.Search(context.Background(), "basil", Options{Method: MethodLexical})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TotalResults)
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, tlerrors.ErrCodeIndexMissing, resp.ErrorCode)
}

func TestSearch_NilEmbedderTagsSemanticResponse(t *testing.T) {
	store, err := recipe.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	engine := NewEngine(store, Config{
		LexicalPath:    filepath.Join(t.TempDir(), "lexical.bleve"),
		EmbeddingsPath: filepath.Join(t.TempDir(), "embeddings.bin"),
	})
	t.Cleanup(func() { _ = engine.Close() })

	resp, err := engine.Search(context.Background(), "basil", Options{Method: MethodSemantic})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TotalResults)
	assert.Equal(t, tlerrors.ErrCodeModelUnavailable, resp.ErrorCode)
}

func TestSearch_DeletedRecordDroppedAtHydration(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	// "pine" appears only in recipe 2. Delete it without rebuilding: the
	// stale index still ranks id 2, but hydration drops it silently.
	require.NoError(t, store.Delete(ctx, 2))

	resp, err := engine.Search(ctx, "pine", Options{Method: MethodLexical})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TotalResults)
	assert.Empty(t, resp.Error)
}

func TestSearch_HydrationPreservesRankOrder(t *testing.T) {
	engine, _ := newTestEngine(t)

	// "soup" appears in recipe 1's name and type; the name boost must put
	// it ahead of any body-only occurrence.
	resp, err := engine.Search(context.Background(), "soup",
		Options{Method: MethodLexical, IncludeScores: true})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, int64(1), resp.Results[0].Record.ID)

	for i := 1; i < len(resp.Results); i++ {
		assert.GreaterOrEqual(t, *resp.Results[i-1].Score, *resp.Results[i].Score)
	}
}

func TestSearch_ReportsExecutionTime(t *testing.T) {
	engine, _ := newTestEngine(t)

	resp, err := engine.Search(context.Background(), "basil", Options{Method: MethodLexical})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.ExecutionTimeMS, 0.0)
	assert.Equal(t, "basil", resp.Query)
	assert.Equal(t, MethodLexical, resp.Method)
}

func TestCorpusInfo(t *testing.T) {
	engine, _ := newTestEngine(t)

	info, err := engine.CorpusInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, info.TotalRecords)
	assert.Greater(t, info.TotalTokens, 0)
	assert.InDelta(t, float64(info.TotalTokens)/3.0, info.AverageRecordLength, 1e-9)
}

func TestCorpusInfo_EmptyCorpus(t *testing.T) {
	store, err := recipe.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	engine := NewEngine(store, Config{})
	info, err := engine.CorpusInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, info.TotalRecords)
	assert.Equal(t, 0.0, info.AverageRecordLength)
}

func TestInvalidate_ReopensArtifacts(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	resp, err := engine.Search(ctx, "basil", Options{Method: MethodLexical})
	require.NoError(t, err)
	require.Equal(t, 2, resp.TotalResults)

	require.NoError(t, engine.Invalidate())

	resp, err = engine.Search(ctx, "basil", Options{Method: MethodLexical})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalResults)
}
