// Package stats serves the dashboard aggregates: neighborhood summaries, host
// rankings, trending properties, and the overview totals. Values come from the
// catalog precomputed and ordered; nothing here recomputes or re-sorts them.
// A small in-process cache absorbs the repeated reads the dashboard issues
// when switching tabs.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/rioscope/rioscope/internal/domain"
)

// Reader is the catalog contract for aggregate queries.
type Reader interface {
	NeighborhoodStats(ctx context.Context) ([]domain.NeighborhoodStats, error)
	HostRanking(ctx context.Context, neighborhood string) ([]domain.HostRanking, error)
	TrendingProperties(ctx context.Context) ([]domain.TrendingProperty, error)
	OverviewStats(ctx context.Context) (domain.OverviewStats, error)
}

const (
	cacheEntries = 1 << 10
	defaultTTL   = 5 * time.Minute
)

// Service caches aggregate reads for the session.
type Service struct {
	reader Reader
	cache  *ristretto.Cache[string, any]
	ttl    time.Duration
}

// New creates a stats service.
func New(reader Reader) (*Service, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters: cacheEntries * 10,
		MaxCost:     cacheEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create stats cache: %w", err)
	}
	return &Service{reader: reader, cache: cache, ttl: defaultTTL}, nil
}

// Close releases the cache.
func (s *Service) Close() {
	s.cache.Close()
}

// Neighborhoods returns per-neighborhood aggregates, busiest first.
func (s *Service) Neighborhoods(ctx context.Context) ([]domain.NeighborhoodStats, error) {
	return cached(s, "neighborhoods", func() ([]domain.NeighborhoodStats, error) {
		return s.reader.NeighborhoodStats(ctx)
	})
}

// HostRanking returns the host leaderboard, optionally scoped to one
// neighborhood. Ranks are assigned by the catalog.
func (s *Service) HostRanking(ctx context.Context, neighborhood string) ([]domain.HostRanking, error) {
	return cached(s, "hosts:"+neighborhood, func() ([]domain.HostRanking, error) {
		return s.reader.HostRanking(ctx, neighborhood)
	})
}

// Trending returns the properties with the most recent review activity.
func (s *Service) Trending(ctx context.Context) ([]domain.TrendingProperty, error) {
	return cached(s, "trending", func() ([]domain.TrendingProperty, error) {
		return s.reader.TrendingProperties(ctx)
	})
}

// Overview returns the dataset-wide totals.
func (s *Service) Overview(ctx context.Context) (domain.OverviewStats, error) {
	return cached(s, "overview", func() (domain.OverviewStats, error) {
		return s.reader.OverviewStats(ctx)
	})
}

// cached serves key from the cache or computes and stores it. Errors are
// never cached.
func cached[T any](s *Service, key string, fetch func() (T, error)) (T, error) {
	if v, ok := s.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	s.cache.SetWithTTL(key, v, 1, s.ttl)
	// Ristretto applies sets asynchronously; settle so the next read hits.
	s.cache.Wait()
	return v, nil
}
