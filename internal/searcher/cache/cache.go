// Package cache memoises top-document results for status-based searches.
// Entries are tagged with the engine generation they were computed at, so any
// add or remove makes older entries miss without an explicit flush.
package cache

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
)

const keyPrefix = "search:"

type entry struct {
	generation uint64
	docs       []ranker.ScoredDoc
}

type QueryCache struct {
	mu         sync.Mutex
	entries    map[string]entry
	maxEntries int
	group      singleflight.Group
	metrics    *metrics.Metrics
	logger     *slog.Logger
	hits       atomic.Int64
	misses     atomic.Int64
}

// New returns a cache holding at most maxEntries results. m may be nil.
func New(maxEntries int, m *metrics.Metrics) *QueryCache {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &QueryCache{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		metrics:    m,
		logger:     slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached result for key if it was computed at generation.
func (c *QueryCache) Get(key string, generation uint64) ([]ranker.ScoredDoc, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()
	if !ok || e.generation != generation {
		c.misses.Add(1)
		if c.metrics != nil {
			c.metrics.CacheMissesTotal.Inc()
		}
		return nil, false
	}
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
	c.logger.Debug("cache hit", "key", key, "generation", generation)
	return cloneDocs(e.docs), true
}

func (c *QueryCache) Set(key string, generation uint64, docs []ranker.ScoredDoc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok && existing.generation > generation {
		return
	}
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.evictLocked(generation)
	}
	c.entries[key] = entry{generation: generation, docs: cloneDocs(docs)}
}

// GetOrCompute serves key from the cache or runs computeFn once for all
// concurrent callers asking for the same key at the same generation.
// computeFn reports the generation its result was computed at.
func (c *QueryCache) GetOrCompute(
	key string,
	generation uint64,
	computeFn func() ([]ranker.ScoredDoc, uint64, error),
) ([]ranker.ScoredDoc, bool, error) {
	if docs, ok := c.Get(key, generation); ok {
		return docs, true, nil
	}
	flightKey := fmt.Sprintf("%s@%d", key, generation)
	val, err, _ := c.group.Do(flightKey, func() (interface{}, error) {
		docs, computedAt, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(key, computedAt, docs)
		return docs, nil
	})
	if err != nil {
		return nil, false, err
	}
	return cloneDocs(val.([]ranker.ScoredDoc)), false, nil
}

// Invalidate drops every entry.
func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	c.logger.Info("cache invalidate", "keys_deleted", n)
}

func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// BuildKey derives the cache key from the parsed query, so word order,
// repeated words and stop words do not fragment the cache. limit and epsilon
// are part of the key because they shape the cached result.
func BuildKey(q *parser.Query, status index.Status, limit int, epsilon float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\x1f%d\x1f%g", status.String(), limit, epsilon)
	b.WriteByte('\x1f')
	b.WriteString(strings.Join(q.PlusWords, "\x1e"))
	b.WriteByte('\x1f')
	b.WriteString(strings.Join(q.MinusWords, "\x1e"))
	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}

// evictLocked drops entries older than generation and, if the cache is still
// full, everything else.
func (c *QueryCache) evictLocked(generation uint64) {
	for k, e := range c.entries {
		if e.generation < generation {
			delete(c.entries, k)
		}
	}
	if len(c.entries) >= c.maxEntries {
		c.entries = make(map[string]entry)
	}
}

func cloneDocs(docs []ranker.ScoredDoc) []ranker.ScoredDoc {
	out := make([]ranker.ScoredDoc, len(docs))
	copy(out, docs)
	return out
}
