package cmd

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly ten", truncate("exactly ten", 11))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijkl", 10))
}

func TestTruncate_MultiByteRunes(t *testing.T) {
	s := strings.Repeat("crème brûlée ", 10)
	got := truncate(s, 20)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 20, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}
