package embed

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticEmbed_UnitNorm(t *testing.T) {
	e := NewStaticEmbedder()
	defer e.Close()

	vec, err := e.Embed(context.Background(), "tomato soup with fresh basil")
	require.NoError(t, err)
	require.Len(t, vec, StaticDimensions)

	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-5)
}

func TestStaticEmbed_Deterministic(t *testing.T) {
	e := NewStaticEmbedder()
	defer e.Close()

	a, err := e.Embed(context.Background(), "basil pesto")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "basil pesto")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStaticEmbed_EmptyInputIsZeroVector(t *testing.T) {
	e := NewStaticEmbedder()
	defer e.Close()

	vec, err := e.Embed(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, StaticDimensions), vec)
}

func TestStaticEmbed_SimilarTextsCloserThanUnrelated(t *testing.T) {
	e := NewStaticEmbedder()
	defer e.Close()
	ctx := context.Background()

	soup, err := e.Embed(ctx, "tomato soup with basil")
	require.NoError(t, err)
	salad, err := e.Embed(ctx, "tomato salad with basil")
	require.NoError(t, err)
	cake, err := e.Embed(ctx, "chocolate fudge layer cake")
	require.NoError(t, err)

	assert.Greater(t, dot(soup, salad), dot(soup, cake))
}

func TestStaticEmbedBatch(t *testing.T) {
	e := NewStaticEmbedder()
	defer e.Close()

	vecs, err := e.EmbedBatch(context.Background(), []string{"ramen", "", "gazpacho"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, make([]float32, StaticDimensions), vecs[1])
}

func TestStaticEmbed_ClosedReturnsError(t *testing.T) {
	e := NewStaticEmbedder()
	require.NoError(t, e.Close())

	_, err := e.Embed(context.Background(), "anything")
	assert.Error(t, err)
	assert.False(t, e.Available(context.Background()))
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
