// Package parser turns raw query text into plus-words that a document must
// contain and minus-words that disqualify it.
package parser

import (
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/stopwords"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Query holds distinct, validated, non-stop words in lexical order.
type Query struct {
	PlusWords  []string
	MinusWords []string
	RawQuery   string
}

// Empty reports whether nothing survived stop-word filtering.
func (q *Query) Empty() bool {
	return len(q.PlusWords) == 0 && len(q.MinusWords) == 0
}

type Parser struct {
	stopWords *stopwords.Set
	normalize tokenizer.Normalizer
}

// New returns a Parser that drops stop words and applies normalize to the
// rest. A nil normalize keeps words verbatim.
func New(stopWords *stopwords.Set, normalize tokenizer.Normalizer) *Parser {
	if normalize == nil {
		normalize = tokenizer.Identity
	}
	return &Parser{stopWords: stopWords, normalize: normalize}
}

// Parse splits text on spaces. A leading '-' marks a minus-word; a bare '-'
// or a word starting with "--" is rejected. Stop words are dropped whatever
// their sign. A query that ends up empty is not an error here.
func (p *Parser) Parse(text string) (*Query, error) {
	plus := make(map[string]struct{})
	minus := make(map[string]struct{})

	for _, word := range tokenizer.SplitWords(text) {
		if !tokenizer.IsValidWord(word) {
			return nil, apperrors.Newf(apperrors.ErrInvalidArgument, "query word %q contains control characters", word)
		}
		isMinus := false
		if strings.HasPrefix(word, "-") {
			isMinus = true
			word = word[1:]
		}
		if p.stopWords.Contains(word) {
			continue
		}
		if isMinus {
			if word == "" {
				return nil, apperrors.New(apperrors.ErrInvalidArgument, "minus sign without a word")
			}
			if strings.HasPrefix(word, "-") {
				return nil, apperrors.Newf(apperrors.ErrInvalidArgument, "minus-word %q starts with a second minus", "-"+word)
			}
			minus[p.normalize(word)] = struct{}{}
			continue
		}
		plus[p.normalize(word)] = struct{}{}
	}

	return &Query{
		PlusWords:  sortedKeys(plus),
		MinusWords: sortedKeys(minus),
		RawQuery:   text,
	}, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
