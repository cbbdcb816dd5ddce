// Package stopwords holds the immutable set of words that are ignored both
// when documents are indexed and when queries are parsed.
package stopwords

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Set is safe for concurrent reads; it is never mutated after construction.
type Set struct {
	words map[string]struct{}
}

// New builds a Set from already split words. Empty strings are dropped and
// duplicates collapse. Any word with control characters fails construction.
func New(words []string) (*Set, error) {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}
	for word := range set {
		if !tokenizer.IsValidWord(word) {
			return nil, apperrors.Newf(apperrors.ErrInvalidArgument, "stop word %q contains control characters", word)
		}
	}
	return &Set{words: set}, nil
}

// FromText splits a space-delimited string and builds a Set from it.
func FromText(text string) (*Set, error) {
	return New(tokenizer.SplitWords(text))
}

// Contains reports whether word is a stop word. A nil Set contains nothing.
func (s *Set) Contains(word string) bool {
	if s == nil {
		return false
	}
	_, ok := s.words[word]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

// Words returns the stop words in lexical order.
func (s *Set) Words() []string {
	if s == nil {
		return nil
	}
	result := make([]string, 0, len(s.words))
	for word := range s.words {
		result = append(result, word)
	}
	sort.Strings(result)
	return result
}
