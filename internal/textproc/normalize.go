// Package textproc implements the deterministic text-to-token transform
// shared by index builds and query parsing. Build-time and query-time
// callers must use the same pipeline; any asymmetry degrades recall.
package textproc

import (
	"regexp"
	"strings"
)

// wordRegex matches alphanumeric word sequences.
var wordRegex = regexp.MustCompile(`[a-zA-Z0-9]+`)

// defaultStopWords is a fixed English stop-word set. Changing it
// invalidates existing lexical indexes, so additions require a rebuild.
var defaultStopWords = BuildStopWordMap([]string{
	"a", "an", "and", "are", "as", "at", "be", "by", "can",
	"for", "from", "have", "if", "in", "is", "it", "may",
	"not", "of", "on", "or", "tbd", "that", "the", "this",
	"to", "us", "we", "when", "will", "with", "yet", "you", "your",
})

// minTokenLength filters single-character fragments left by splitting.
const minTokenLength = 2

// Normalize converts free text into the canonical token sequence used
// for indexing and lexical query parsing. The pipeline is: lowercase,
// split on word boundaries, drop stop words and short fragments, then
// reduce each token to its lemma. Empty input yields an empty slice,
// never nil and never an error.
func Normalize(text string) []string {
	tokens := []string{}
	if text == "" {
		return tokens
	}

	words := wordRegex.FindAllString(strings.ToLower(text), -1)
	for _, word := range words {
		if len(word) < minTokenLength {
			continue
		}
		if _, isStop := defaultStopWords[word]; isStop {
			continue
		}
		lemma := Lemmatize(word)
		if len(lemma) >= minTokenLength {
			tokens = append(tokens, lemma)
		}
	}

	return tokens
}

// Lemmatize reduces a lowercase token to a canonical form using a fixed
// suffix rule set. The rules are intentionally crude: they only need to
// map common inflections ("tomatoes", "chopped", "baking") onto the
// same key as their base form, identically at build and query time.
func Lemmatize(token string) string {
	n := len(token)

	switch {
	case n > 4 && strings.HasSuffix(token, "ies"):
		// berries -> berry
		return token[:n-3] + "y"
	case n > 4 && strings.HasSuffix(token, "sses"):
		// presses -> press
		return token[:n-2]
	case n > 4 && strings.HasSuffix(token, "oes"):
		// tomatoes -> tomato
		return token[:n-2]
	case n > 3 && strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss") && !strings.HasSuffix(token, "us"):
		// onions -> onion
		return token[:n-1]
	case n > 5 && strings.HasSuffix(token, "ing"):
		return stripDoubledConsonant(token[:n-3])
	case n > 4 && strings.HasSuffix(token, "ed"):
		return stripDoubledConsonant(token[:n-2])
	default:
		return token
	}
}

// stripDoubledConsonant undoes consonant doubling from suffix stripping
// (chopped -> chopp -> chop) while leaving legitimate doubles like
// "grill" or "press" intact only when they end the original stem.
func stripDoubledConsonant(stem string) string {
	n := len(stem)
	if n < 3 {
		return stem
	}
	last := stem[n-1]
	if stem[n-2] == last && !isVowel(last) && last != 'l' && last != 's' {
		return stem[:n-1]
	}
	return stem
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// BuildStopWordMap converts a slice of stop words to a set for lookup.
func BuildStopWordMap(stopWords []string) map[string]struct{} {
	m := make(map[string]struct{}, len(stopWords))
	for _, word := range stopWords {
		m[strings.ToLower(word)] = struct{}{}
	}
	return m
}
