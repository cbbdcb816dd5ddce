// Package benchmark contains Go benchmarks for the indexer engine, memory
// index and search pipeline, measuring throughput and allocation behaviour.
package benchmark

import (
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/dedup"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
)

var benchTerms = []string{"funny", "pet", "nasty", "rat", "curly", "hair", "cat", "dog", "collar", "sparrow"}

func benchText(i int) string {
	n := len(benchTerms)
	return fmt.Sprintf("%s %s and %s %s with %s",
		benchTerms[i%n], benchTerms[(i+1)%n], benchTerms[(i+3)%n], benchTerms[(i*7)%n], benchTerms[(i/n)%n])
}

func loadedEngine(b *testing.B, docs int) *indexer.Engine {
	b.Helper()
	engine, err := indexer.NewEngine("and with")
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < docs; i++ {
		if err := engine.AddDocument(i, benchText(i), index.StatusActual, []int{i % 10, 3}); err != nil {
			b.Fatal(err)
		}
	}
	return engine
}

// BenchmarkMemoryIndexAdd measures per-document insert throughput into the
// in-memory inverted index.
func BenchmarkMemoryIndexAdd(b *testing.B) {
	mi := index.NewMemoryIndex()
	words := tokenizer.SplitWords("this is a benchmark document with several terms for testing the indexing performance of our memory index")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := mi.AddDocument(i, words, index.StatusActual, 1); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkMemoryIndexAddRemove measures the cost of removing a document,
// including pruning of words left without documents.
func BenchmarkMemoryIndexAddRemove(b *testing.B) {
	mi := index.NewMemoryIndex()
	for i := 0; i < 10000; i++ {
		_ = mi.AddDocument(i, tokenizer.SplitWords(benchText(i)), index.StatusActual, 0)
	}
	words := tokenizer.SplitWords("unique words that only this document holds")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := 10000 + i
		if err := mi.AddDocument(id, words, index.StatusActual, 0); err != nil {
			b.Fatal(err)
		}
		mi.RemoveDocument(id)
	}
}

// BenchmarkEngineIndex measures full engine indexing throughput at various
// pre-loaded corpus sizes.
func BenchmarkEngineIndex(b *testing.B) {
	sizes := []int{100, 1000, 5000}
	for _, preload := range sizes {
		b.Run(fmt.Sprintf("preload_%d", preload), func(b *testing.B) {
			engine := loadedEngine(b, preload)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				err := engine.AddDocument(preload+i, benchText(i), index.StatusActual, []int{1, 2, 3})
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkEngineWordFrequencies measures the per-document frequency copy
// used by duplicate detection.
func BenchmarkEngineWordFrequencies(b *testing.B) {
	engine := loadedEngine(b, 10000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = engine.WordFrequencies(i % 10000)
	}
}

// BenchmarkRemoveDuplicates measures a full duplicate scan over corpora
// where most documents share a vocabulary.
func BenchmarkRemoveDuplicates(b *testing.B) {
	for _, docs := range []int{1000, 10000} {
		b.Run(fmt.Sprintf("docs_%d", docs), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				engine := loadedEngine(b, docs)
				b.StartTimer()
				_ = dedup.RemoveDuplicates(engine)
			}
		})
	}
}
