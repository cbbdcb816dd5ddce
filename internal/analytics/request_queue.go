// Package analytics tracks recent search requests. RequestQueue keeps a
// sliding window of the most recent find requests and counts how many of
// them returned nothing.
package analytics

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
)

// DefaultWindow is one request per minute over a day.
const DefaultWindow = 1440

// Searcher is satisfied by *executor.Executor.
type Searcher interface {
	FindTopDocuments(rawQuery string, pred ranker.Predicate) ([]ranker.ScoredDoc, error)
	FindTopDocumentsByStatus(rawQuery string, status index.Status) ([]ranker.ScoredDoc, error)
	FindTopActualDocuments(rawQuery string) ([]ranker.ScoredDoc, error)
}

type RequestQueue struct {
	mu        sync.Mutex
	searcher  Searcher
	window    int
	events    []SearchEvent
	noResults int
	now       func() time.Time
	logger    *slog.Logger
}

// NewRequestQueue remembers at most window requests. A non-positive window
// selects DefaultWindow.
func NewRequestQueue(searcher Searcher, window int) *RequestQueue {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RequestQueue{
		searcher: searcher,
		window:   window,
		events:   make([]SearchEvent, 0, window),
		now:      time.Now,
		logger:   slog.Default().With("component", "request-queue"),
	}
}

// AddFindRequest searches with pred and records the outcome. Requests that
// fail to parse are not recorded.
func (q *RequestQueue) AddFindRequest(rawQuery string, pred ranker.Predicate) ([]ranker.ScoredDoc, error) {
	docs, err := q.searcher.FindTopDocuments(rawQuery, pred)
	return q.record(rawQuery, docs, err)
}

func (q *RequestQueue) AddFindRequestByStatus(rawQuery string, status index.Status) ([]ranker.ScoredDoc, error) {
	docs, err := q.searcher.FindTopDocumentsByStatus(rawQuery, status)
	return q.record(rawQuery, docs, err)
}

func (q *RequestQueue) AddFindActualRequest(rawQuery string) ([]ranker.ScoredDoc, error) {
	docs, err := q.searcher.FindTopActualDocuments(rawQuery)
	return q.record(rawQuery, docs, err)
}

// NoResultRequests counts the requests in the window that found nothing.
func (q *RequestQueue) NoResultRequests() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.noResults
}

// Len returns the number of requests currently in the window.
func (q *RequestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Events returns a copy of the window, oldest first.
func (q *RequestQueue) Events() []SearchEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]SearchEvent, len(q.events))
	copy(out, q.events)
	return out
}

func (q *RequestQueue) record(rawQuery string, docs []ranker.ScoredDoc, err error) ([]ranker.ScoredDoc, error) {
	if err != nil {
		return nil, err
	}
	event := SearchEvent{
		Type:      EventSearch,
		Query:     rawQuery,
		Returned:  len(docs),
		Timestamp: q.now().UTC(),
	}
	if len(docs) == 0 {
		event.Type = EventZeroResult
	}

	q.mu.Lock()
	if len(q.events) == q.window {
		if q.events[0].Type == EventZeroResult {
			q.noResults--
		}
		q.events = append(q.events[:0], q.events[1:]...)
	}
	q.events = append(q.events, event)
	if event.Type == EventZeroResult {
		q.noResults++
	}
	noResults := q.noResults
	q.mu.Unlock()

	q.logger.Debug("request recorded",
		"query", rawQuery,
		"returned", event.Returned,
		"no_result_requests", noResults,
	)
	return docs, nil
}
