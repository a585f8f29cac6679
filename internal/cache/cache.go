package cache

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/docpipe/docpipe/internal/llm"
)

// DefaultCapacity bounds the cache when the caller passes no capacity.
const DefaultCapacity = 512

// Stats is a snapshot of cache contents and traffic.
type Stats struct {
	Entries int      `json:"entries"`
	Keys    []string `json:"keys"`
	Hits    uint64   `json:"hits"`
	Misses  uint64   `json:"misses"`
}

// HitRate is hits over total lookups, 0 when the cache was never read.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// ResultCache memoizes task outcomes behind a fixed-capacity LRU, so
// repeated identical requests are served without a remote call while memory
// stays bounded (least-recently-used entries are evicted on overflow).
// Scope is the lifetime of the owning processor; entries leave only by
// eviction or an explicit Clear.
type ResultCache struct {
	lru    *lru.Cache[string, llm.ProcessingResult]
	hits   uint64
	misses uint64
	logger *slog.Logger
}

func New(capacity int, logger *slog.Logger) (*ResultCache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	l, err := lru.New[string, llm.ProcessingResult](capacity)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &ResultCache{lru: l, logger: logger}, nil
}

// GetOrCompute returns the stored result for key, tagged as served from
// cache, or invokes compute and stores its outcome. Only successful results
// are inserted; a failed call is returned as-is so the next identical
// request gets a fresh attempt.
func (c *ResultCache) GetOrCompute(key string, compute func() llm.ProcessingResult) llm.ProcessingResult {
	if res, ok := c.lru.Get(key); ok {
		c.hits++
		c.logger.Info("cache.hit", "key", shortKey(key))
		res.FromCache = true
		return res
	}
	c.misses++

	res := compute()
	res.FromCache = false
	if res.Succeeded {
		c.lru.Add(key, res)
	}
	return res
}

// Clear drops all entries. Traffic counters survive; they describe the
// processor's lifetime, not the current contents.
func (c *ResultCache) Clear() {
	c.lru.Purge()
	c.logger.Info("cache.cleared")
}

// shortKey keeps log lines readable; fingerprints are 64 hex chars.
func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}

// Stats returns entry count, key list, and hit/miss counters.
func (c *ResultCache) Stats() Stats {
	return Stats{
		Entries: c.lru.Len(),
		Keys:    c.lru.Keys(),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
