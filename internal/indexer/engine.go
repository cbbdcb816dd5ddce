package indexer

import (
	"iter"
	"log/slog"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/stopwords"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
)

// Engine owns the inverted index, the document metadata and the insertion
// order. A single lock covers all three so readers never observe a document
// that is half added or half removed.
type Engine struct {
	mu         sync.RWMutex
	memIndex   *index.MemoryIndex
	stopWords  *stopwords.Set
	normalize  tokenizer.Normalizer
	generation uint64
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

type Option func(*Engine)

// WithMetrics records document lifecycle counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithNormalizer applies n to every non-stop word before it is indexed.
func WithNormalizer(n tokenizer.Normalizer) Option {
	return func(e *Engine) {
		if n != nil {
			e.normalize = n
		}
	}
}

// NewEngine builds an engine whose stop words come from a space-delimited
// string.
func NewEngine(stopWordsText string, opts ...Option) (*Engine, error) {
	set, err := stopwords.FromText(stopWordsText)
	if err != nil {
		return nil, err
	}
	return newEngine(set, opts), nil
}

// NewEngineWithStopWords builds an engine from an already split stop-word
// collection.
func NewEngineWithStopWords(words []string, opts ...Option) (*Engine, error) {
	set, err := stopwords.New(words)
	if err != nil {
		return nil, err
	}
	return newEngine(set, opts), nil
}

func newEngine(set *stopwords.Set, opts []Option) *Engine {
	e := &Engine{
		memIndex:  index.NewMemoryIndex(),
		stopWords: set,
		normalize: tokenizer.Identity,
		logger:    slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) StopWords() *stopwords.Set {
	return e.stopWords
}

func (e *Engine) Normalizer() tokenizer.Normalizer {
	return e.normalize
}

// AddDocument tokenizes text, drops stop words and indexes the rest under id.
// The rating is the truncated mean of ratings, or 0 when there are none.
// On any error the index is left untouched.
func (e *Engine) AddDocument(id int, text string, status index.Status, ratings []int) error {
	if !status.Valid() {
		err := apperrors.Newf(apperrors.ErrInvalidArgument, "document %d has unknown status %d", id, int(status))
		e.rejected(id, err)
		return err
	}
	words, err := e.splitWordsNoStop(text)
	if err != nil {
		e.rejected(id, err)
		return err
	}

	e.mu.Lock()
	err = e.memIndex.AddDocument(id, words, status, averageRating(ratings))
	if err == nil {
		e.generation++
		e.updateGauges()
	}
	e.mu.Unlock()

	if err != nil {
		e.rejected(id, err)
		return err
	}
	if e.metrics != nil {
		e.metrics.DocsAddedTotal.Inc()
	}
	e.logger.Debug("document indexed in memory",
		"doc_id", id,
		"status", status.String(),
		"word_count", len(words),
	)
	return nil
}

// RemoveDocument deletes id from the index and reports whether it existed.
// Removing an unknown id is a no-op.
func (e *Engine) RemoveDocument(id int) bool {
	e.mu.Lock()
	removed := e.memIndex.RemoveDocument(id)
	if removed {
		e.generation++
		e.updateGauges()
	}
	e.mu.Unlock()

	if !removed {
		e.logger.Debug("remove skipped, document not indexed", "doc_id", id)
		return false
	}
	if e.metrics != nil {
		e.metrics.DocsRemovedTotal.Inc()
	}
	e.logger.Debug("document removed", "doc_id", id)
	return true
}

func (e *Engine) DocumentCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.memIndex.DocumentCount()
}

// DocumentID returns the id added at position i, counting only live
// documents. Positions outside [0, DocumentCount()) fail with OutOfRange.
func (e *Engine) DocumentID(i int) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.memIndex.DocumentID(i)
}

// WordFrequencies returns a copy of the term frequencies stored for id. An
// unknown id yields an empty map.
func (e *Engine) WordFrequencies(id int) map[string]float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.memIndex.WordFrequencies(id)
}

// DocumentIDs returns the live ids in insertion order.
func (e *Engine) DocumentIDs() []int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.memIndex.DocumentIDs()
}

// All iterates over a snapshot of the live ids in insertion order, so the
// caller may remove documents while ranging.
func (e *Engine) All() iter.Seq[int] {
	ids := e.DocumentIDs()
	return func(yield func(int) bool) {
		for _, id := range ids {
			if !yield(id) {
				return
			}
		}
	}
}

// Read runs fn with shared access to the index. fn must not retain r or call
// back into mutating Engine methods.
func (e *Engine) Read(fn func(r index.Reader, generation uint64)) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn(e.memIndex, e.generation)
}

// Generation changes every time a document is added or removed.
func (e *Engine) Generation() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generation
}

func (e *Engine) splitWordsNoStop(text string) ([]string, error) {
	raw := tokenizer.SplitWords(text)
	if err := tokenizer.ValidateWords(raw); err != nil {
		return nil, err
	}
	words := make([]string, 0, len(raw))
	for _, word := range raw {
		if e.stopWords.Contains(word) {
			continue
		}
		words = append(words, e.normalize(word))
	}
	return words, nil
}

// updateGauges must be called with e.mu held.
func (e *Engine) updateGauges() {
	if e.metrics == nil {
		return
	}
	e.metrics.LiveDocuments.Set(float64(e.memIndex.DocumentCount()))
	e.metrics.IndexedTerms.Set(float64(e.memIndex.Terms()))
}

func (e *Engine) rejected(id int, err error) {
	if e.metrics != nil {
		e.metrics.DocsRejectedTotal.Inc()
	}
	e.logger.Warn("document rejected", "doc_id", id, "error", err)
}

func averageRating(ratings []int) int {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return sum / len(ratings)
}
