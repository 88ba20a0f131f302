// Package searchcache caches search result pages in a key-value store, keyed
// by the canonical query fingerprint. The dataset is fixed, so cached pages
// only go stale when the deployment is reloaded; TTL covers that.
package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rioscope/rioscope/internal/db"
	"github.com/rioscope/rioscope/internal/domain"
	"github.com/rioscope/rioscope/internal/domain/search"
)

const cacheKeyPrefix = "rioscope:search:"

// Searcher is the inner catalog slice being decorated.
type Searcher interface {
	Search(ctx context.Context, q search.Query) ([]domain.Listing, error)
}

// store is the consumer interface for the cache backend (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSearcher decorates a Searcher with fingerprint-keyed caching.
type CachedSearcher struct {
	inner      Searcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Searcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSearcher {
	return &CachedSearcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Search returns a cached page or calls the inner searcher. Cache failures
// degrade to pass-through; they never fail the search.
func (c *CachedSearcher) Search(ctx context.Context, q search.Query) ([]domain.Listing, error) {
	key := c.cacheKey(q)

	if listings, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return listings, nil
	}

	c.incCache("miss")

	listings, err := c.inner.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}

	c.putToCache(ctx, key, listings)
	return listings, nil
}

func (c *CachedSearcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedSearcher) cacheKey(q search.Query) string {
	h := sha256.Sum256([]byte(q.Fingerprint()))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string) ([]domain.Listing, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached search page", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var listings []domain.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		c.logger.Warn("Failed to parse cached search page", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return listings, true
}

func (c *CachedSearcher) putToCache(ctx context.Context, key string, listings []domain.Listing) {
	data, err := json.Marshal(listings)
	if err != nil {
		c.logger.Warn("Failed to encode search page for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to store search page in cache", zap.String("key", key), zap.Error(err))
	}
}
