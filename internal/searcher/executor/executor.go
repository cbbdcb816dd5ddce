package executor

import (
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
)

// MatchResult lists the plus-words of a query found in one document. Words
// is empty when the document holds any minus-word.
type MatchResult struct {
	Words  []string     `json:"words"`
	Status index.Status `json:"status"`
}

type Executor struct {
	engine     *indexer.Engine
	parser     *parser.Parser
	cache      *cache.QueryCache
	metrics    *metrics.Metrics
	maxResults int
	epsilon    float64
	logger     *slog.Logger
}

type Option func(*Executor)

// WithCache serves status-based searches through c.
func WithCache(c *cache.QueryCache) Option {
	return func(e *Executor) {
		e.cache = c
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) {
		e.metrics = m
	}
}

// WithMaxResults overrides ranker.MaxResultDocumentCount.
func WithMaxResults(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// WithEpsilon overrides ranker.RelevanceEpsilon.
func WithEpsilon(eps float64) Option {
	return func(e *Executor) {
		if eps > 0 {
			e.epsilon = eps
		}
	}
}

// New builds an Executor that parses queries with the engine's stop words
// and normalizer.
func New(engine *indexer.Engine, opts ...Option) *Executor {
	e := &Executor{
		engine:     engine,
		parser:     parser.New(engine.StopWords(), engine.Normalizer()),
		maxResults: ranker.MaxResultDocumentCount,
		epsilon:    ranker.RelevanceEpsilon,
		logger:     slog.Default().With("component", "query-executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FindTopDocuments returns up to the configured number of documents accepted
// by pred, best first.
func (e *Executor) FindTopDocuments(rawQuery string, pred ranker.Predicate) ([]ranker.ScoredDoc, error) {
	start := time.Now()
	query, err := e.parser.Parse(rawQuery)
	if err != nil {
		e.recordSearch(rawQuery, nil, start, err)
		return nil, err
	}
	docs, _ := e.execute(query, pred)
	e.recordSearch(rawQuery, docs, start, nil)
	return docs, nil
}

// FindTopDocumentsByStatus restricts the search to documents with status.
func (e *Executor) FindTopDocumentsByStatus(rawQuery string, status index.Status) ([]ranker.ScoredDoc, error) {
	start := time.Now()
	query, err := e.parser.Parse(rawQuery)
	if err != nil {
		e.recordSearch(rawQuery, nil, start, err)
		return nil, err
	}
	pred := ranker.StatusIs(status)
	if e.cache == nil {
		docs, _ := e.execute(query, pred)
		e.recordSearch(rawQuery, docs, start, nil)
		return docs, nil
	}

	docs, hit, err := e.cache.GetOrCompute(cache.BuildKey(query, status, e.maxResults, e.epsilon), e.engine.Generation(),
		func() ([]ranker.ScoredDoc, uint64, error) {
			docs, generation := e.execute(query, pred)
			return docs, generation, nil
		})
	if err != nil {
		e.recordSearch(rawQuery, nil, start, err)
		return nil, err
	}
	e.logger.Debug("status search served", "query", rawQuery, "status", status.String(), "cache_hit", hit)
	e.recordSearch(rawQuery, docs, start, nil)
	return docs, nil
}

// FindTopActualDocuments searches documents with StatusActual.
func (e *Executor) FindTopActualDocuments(rawQuery string) ([]ranker.ScoredDoc, error) {
	return e.FindTopDocumentsByStatus(rawQuery, index.StatusActual)
}

// MatchDocument reports which plus-words of rawQuery occur in document id.
// A query with no plus- or minus-words left after parsing is rejected, and
// so is an id that is not indexed.
func (e *Executor) MatchDocument(rawQuery string, id int) (MatchResult, error) {
	query, err := e.parser.Parse(rawQuery)
	if err != nil {
		e.recordMatch("error")
		return MatchResult{}, err
	}
	if query.Empty() {
		e.recordMatch("error")
		return MatchResult{}, apperrors.Newf(apperrors.ErrInvalidArgument, "query %q has no words to match", rawQuery)
	}

	var (
		result MatchResult
		found  bool
	)
	e.engine.Read(func(r index.Reader, _ uint64) {
		doc, ok := r.Document(id)
		if !ok {
			return
		}
		found = true
		result.Status = doc.Status
		result.Words = make([]string, 0, len(query.PlusWords))
		for _, word := range query.MinusWords {
			if _, ok := r.Postings(word)[id]; ok {
				return
			}
		}
		for _, word := range query.PlusWords {
			if _, ok := r.Postings(word)[id]; ok {
				result.Words = append(result.Words, word)
			}
		}
	})
	if !found {
		e.recordMatch("error")
		return MatchResult{}, apperrors.Newf(apperrors.ErrDocumentNotFound, "document %d is not indexed", id)
	}
	if len(result.Words) == 0 {
		e.recordMatch("empty")
	} else {
		e.recordMatch("matched")
	}
	return result, nil
}

func (e *Executor) execute(query *parser.Query, pred ranker.Predicate) ([]ranker.ScoredDoc, uint64) {
	var (
		docs       []ranker.ScoredDoc
		generation uint64
	)
	e.engine.Read(func(r index.Reader, gen uint64) {
		docs = ranker.FindAll(r, query, pred)
		generation = gen
	})
	candidates := len(docs)
	docs = ranker.Top(docs, e.maxResults, e.epsilon)
	e.logger.Debug("query executed",
		"query", query.RawQuery,
		"plus_words", query.PlusWords,
		"minus_words", query.MinusWords,
		"candidates", candidates,
		"results", len(docs),
	)
	return docs, generation
}

func (e *Executor) recordSearch(rawQuery string, docs []ranker.ScoredDoc, start time.Time, err error) {
	if err != nil {
		e.logger.Warn("search rejected", "query", rawQuery, "error", err)
	}
	if e.metrics == nil {
		return
	}
	switch {
	case err != nil:
		e.metrics.SearchQueriesTotal.WithLabelValues("error").Inc()
		return
	case len(docs) == 0:
		e.metrics.SearchQueriesTotal.WithLabelValues("zero_result").Inc()
	default:
		e.metrics.SearchQueriesTotal.WithLabelValues("hit").Inc()
	}
	e.metrics.SearchLatency.Observe(time.Since(start).Seconds())
	e.metrics.SearchResultsCount.Observe(float64(len(docs)))
}

func (e *Executor) recordMatch(resultType string) {
	if e.metrics != nil {
		e.metrics.MatchRequestsTotal.WithLabelValues(resultType).Inc()
	}
}
