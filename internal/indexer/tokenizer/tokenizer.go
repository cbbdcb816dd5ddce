// Package tokenizer splits document and query text into words and checks
// that every word is free of control characters. Words are kept verbatim:
// case is preserved and only the ASCII space separates them.
package tokenizer

import (
	"strings"

	"github.com/kljensen/snowball"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// SplitWords breaks text on ASCII spaces, dropping empty words and keeping
// their original order.
func SplitWords(text string) []string {
	words := make([]string, 0, strings.Count(text, " ")+1)
	start := -1
	for i := 0; i < len(text); i++ {
		if text[i] == ' ' {
			if start >= 0 {
				words = append(words, text[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, text[start:])
	}
	return words
}

// IsValidWord reports whether word contains no byte in [0x00, 0x20).
func IsValidWord(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] < ' ' {
			return false
		}
	}
	return true
}

// ValidateWords returns an InvalidArgument error naming the first word that
// fails IsValidWord.
func ValidateWords(words []string) error {
	for _, word := range words {
		if !IsValidWord(word) {
			return apperrors.Newf(apperrors.ErrInvalidArgument, "word %q contains control characters", word)
		}
	}
	return nil
}

// Normalizer maps a raw word to the form stored in the index. It runs after
// stop-word filtering on both indexed and query words.
type Normalizer func(word string) string

// Identity keeps words exactly as written.
func Identity(word string) string {
	return word
}

// EnglishStemmer reduces a word to its Snowball English stem. Words the
// stemmer rejects are returned unchanged.
func EnglishStemmer(word string) string {
	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}

// NormalizerByName resolves the configured stemmer name. An empty name
// selects Identity.
func NormalizerByName(name string) (Normalizer, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return Identity, nil
	case "english":
		return EnglishStemmer, nil
	default:
		return nil, apperrors.Newf(apperrors.ErrInvalidArgument, "unknown stemmer %q", name)
	}
}
