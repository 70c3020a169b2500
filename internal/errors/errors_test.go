package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryAndSeverity(t *testing.T) {
	err := New(ErrCodeIndexMissing, "lexical index not built", nil)

	assert.Equal(t, CategoryIndex, err.Category)
	assert.Equal(t, SeverityWarning, err.Severity)
	assert.Equal(t, "[ERR_201_INDEX_MISSING] lexical index not built", err.Error())
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeModelUnavailable, cause)

	require.NotNil(t, err)
	assert.Equal(t, cause, err.Unwrap())
	assert.Equal(t, CategoryModel, err.Category)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestIs_MatchesByCode(t *testing.T) {
	// Two distinct instances with the same code match.
	err := New(ErrCodeEmptyCorpus, "no recipes to index", nil)
	assert.True(t, stderrors.Is(err, ErrEmptyCorpus))

	// Matching survives fmt.Errorf wrapping.
	wrapped := fmt.Errorf("lexical build: %w", err)
	assert.True(t, stderrors.Is(wrapped, ErrEmptyCorpus))

	// Different codes do not match.
	assert.False(t, stderrors.Is(err, ErrIndexMissing))
}

func TestSentinels_CarryExpectedCodes(t *testing.T) {
	assert.Equal(t, ErrCodeEmptyCorpus, ErrEmptyCorpus.Code)
	assert.Equal(t, ErrCodeModelUnavailable, ErrModelUnavailable.Code)
	assert.Equal(t, ErrCodeIndexMissing, ErrIndexMissing.Code)
	assert.Equal(t, ErrCodeDimensionMismatch, ErrDimensionMismatch.Code)
}

func TestWithDetail_Chains(t *testing.T) {
	err := New(ErrCodeIndexBuild, "build failed", nil).
		WithDetail("records", "1806").
		WithDetail("step", "embedding")

	assert.Equal(t, "1806", err.Details["records"])
	assert.Equal(t, "embedding", err.Details["step"])
}

func TestGetCode_NonTastelineError(t *testing.T) {
	assert.Equal(t, "", GetCode(fmt.Errorf("plain")))
	assert.Equal(t, ErrCodeCorruptIndex, GetCode(New(ErrCodeCorruptIndex, "bad", nil)))
}

func TestGetCode_WrappedError(t *testing.T) {
	inner := New(ErrCodeModelUnavailable, "embedder down", nil)
	wrapped := fmt.Errorf("search failed: %w", inner)

	assert.Equal(t, ErrCodeModelUnavailable, GetCode(wrapped))
	assert.Equal(t, CategoryModel, GetCategory(wrapped))
	assert.False(t, IsFatal(wrapped))

	fatal := fmt.Errorf("open index: %w", New(ErrCodeCorruptIndex, "corrupt", nil))
	assert.True(t, IsFatal(fatal))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(New(ErrCodeCorruptIndex, "corrupt", nil)))
	assert.False(t, IsFatal(New(ErrCodeInvalidQuery, "empty", nil)))
	assert.False(t, IsFatal(nil))
}
