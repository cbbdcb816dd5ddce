// Package dedup removes documents whose distinct vocabulary repeats that of
// an earlier document. Word order, repetition counts and stop words play no
// part in the comparison.
package dedup

import (
	"iter"
	"log/slog"
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
)

// Store is the part of the indexer engine the detector needs.
type Store interface {
	All() iter.Seq[int]
	WordFrequencies(id int) map[string]float64
	RemoveDocument(id int) bool
}

type Detector struct {
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New returns a Detector. m may be nil.
func New(m *metrics.Metrics) *Detector {
	return &Detector{
		metrics: m,
		logger:  slog.Default().With("component", "dedup"),
	}
}

// RemoveDuplicates scans documents in insertion order, keeps the first
// document of every vocabulary and removes the rest. The removed ids are
// returned in ascending order.
func (d *Detector) RemoveDuplicates(store Store) []int {
	seen := make(map[string]struct{})
	var duplicates []int
	for id := range store.All() {
		key := vocabularyKey(store.WordFrequencies(id))
		if _, exists := seen[key]; exists {
			duplicates = append(duplicates, id)
			continue
		}
		seen[key] = struct{}{}
	}

	sort.Ints(duplicates)
	removed := make([]int, 0, len(duplicates))
	for _, id := range duplicates {
		if !store.RemoveDocument(id) {
			continue
		}
		removed = append(removed, id)
		if d.metrics != nil {
			d.metrics.DuplicatesRemovedTotal.Inc()
		}
		d.logger.Info("found duplicate document", "doc_id", id)
	}
	return removed
}

// RemoveDuplicates runs a Detector without metrics.
func RemoveDuplicates(store Store) []int {
	return New(nil).RemoveDuplicates(store)
}

// vocabularyKey joins the sorted distinct words with a space, which never
// occurs inside a word.
func vocabularyKey(freqs map[string]float64) string {
	words := make([]string, 0, len(freqs))
	for word := range freqs {
		words = append(words, word)
	}
	sort.Strings(words)
	return strings.Join(words, " ")
}
