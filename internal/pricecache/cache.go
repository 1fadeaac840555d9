// Package pricecache holds the process-wide quote and history caches.
// Entries carry their own expiry and self-evict; the cache lives for the
// process lifetime with no explicit teardown. Concurrent overwrites are
// last-writer-wins, which is acceptable for best-effort prices.
package pricecache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mverbeek/portfolio-valuation-engine/internal/model"
)

// Cache is a time-bucketed store of last-known prices per symbol and
// historical close series per (symbol, range).
type Cache struct {
	store *gocache.Cache
}

// New creates an empty price cache. Per-entry TTLs are supplied on every
// Set call, so the default expiration is irrelevant; expired entries are
// purged every ten minutes.
func New() *Cache {
	return &Cache{
		store: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

// GetQuote returns the cached quote for a symbol if still fresh.
func (c *Cache) GetQuote(symbol string) (model.Quote, bool) {
	v, ok := c.store.Get(quoteKey(symbol))
	if !ok {
		return model.Quote{}, false
	}
	return v.(model.Quote), true
}

// SetQuote stores a quote with the given freshness window.
func (c *Cache) SetQuote(q model.Quote, ttl time.Duration) {
	c.store.Set(quoteKey(q.Symbol), q, ttl)
}

// GetHistory returns the cached close series for a symbol and range if still fresh.
func (c *Cache) GetHistory(symbol string, rng model.HistoryRange) ([]model.HistoryPoint, bool) {
	v, ok := c.store.Get(historyKey(symbol, rng))
	if !ok {
		return nil, false
	}
	return v.([]model.HistoryPoint), true
}

// SetHistory stores a close series with the given freshness window.
func (c *Cache) SetHistory(symbol string, rng model.HistoryRange, points []model.HistoryPoint, ttl time.Duration) {
	c.store.Set(historyKey(symbol, rng), points, ttl)
}

func quoteKey(symbol string) string {
	return "quote:" + symbol
}

func historyKey(symbol string, rng model.HistoryRange) string {
	return "history:" + symbol + ":" + string(rng)
}
