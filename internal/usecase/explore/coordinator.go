// Package explore coordinates listing search: filter changes, incremental
// pagination, viewport-scoped refetches, and discarding of responses whose
// filters were superseded while the request was in flight.
package explore

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rioscope/rioscope/internal/domain"
	"github.com/rioscope/rioscope/internal/domain/search"
	"github.com/rioscope/rioscope/internal/metrics"
)

// State is an immutable snapshot of the coordinator, safe to hand to
// observers. Listings is a fresh slice on every snapshot.
type State struct {
	Token    string
	Filters  search.Filters
	Bounds   *search.Bounds
	Listings []domain.Listing
	Loading  bool
	HasMore  bool
	Err      error
}

// Options tune a Coordinator. Zero value gives defaults.
type Options struct {
	// PageSize is the search page size. Defaults to search.DefaultPageSize,
	// clamped to search.MaxPageSize.
	PageSize int

	// BoundsQueries makes viewport changes refetch the result set. Off by
	// default: panning the map then only re-renders markers.
	BoundsQueries bool

	// OnChange, when set, receives a snapshot after every state transition.
	// Called without internal locks held; may be invoked from fetch goroutines.
	OnChange func(State)
}

// Coordinator owns the search result set for one session. All methods are
// safe for concurrent use. Fetches run in goroutines; a response is applied
// only if its filter fingerprint still matches the newest accepted one, so
// out-of-order arrivals can never clobber fresher results.
type Coordinator struct {
	searcher      Searcher
	logger        *zap.Logger
	pageSize      int
	boundsQueries bool
	onChange      func(State)

	mu       sync.Mutex
	wg       sync.WaitGroup
	token    string
	filters  search.Filters
	viewport *search.Bounds
	gen      uint64 // increments per launched fetch; only the latest may apply
	current  string // filter fingerprint of the newest issued query, guards no-op refetches
	listings []domain.Listing
	next     search.Page
	hasMore  bool
	loading  bool
	lastErr  error
}

// New creates a coordinator. The first fetch happens on Start, not here.
func New(searcher Searcher, logger *zap.Logger, opts Options) *Coordinator {
	size := opts.PageSize
	if size <= 0 {
		size = search.DefaultPageSize
	}
	if size > search.MaxPageSize {
		size = search.MaxPageSize
	}
	return &Coordinator{
		searcher:      searcher,
		logger:        logger,
		pageSize:      size,
		boundsQueries: opts.BoundsQueries,
		onChange:      opts.OnChange,
	}
}

// Start runs the initial page fetch and returns the session token. Idempotent:
// repeated calls return the same token without refetching, so double
// initialization is harmless.
func (c *Coordinator) Start(ctx context.Context) string {
	c.mu.Lock()
	if c.token != "" {
		token := c.token
		c.mu.Unlock()
		return token
	}
	c.token = uuid.NewString()
	token := c.token

	q := search.BuildQuery(c.filters, search.Page{Limit: c.pageSize}, c.activeBounds())
	c.startFetchLocked(ctx, q, "filters", fetchReplace)
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(state)
	return token
}

// SetFilters replaces the filter set and refetches page zero. Setting filters
// that canonicalize to the current ones is a no-op and issues no request.
// Before Start the filters are only recorded. Returns whether a fetch started.
func (c *Coordinator) SetFilters(ctx context.Context, f search.Filters) bool {
	c.mu.Lock()
	if c.token == "" {
		c.filters = f.Clone()
		c.mu.Unlock()
		return false
	}

	q := search.BuildQuery(f, search.Page{Limit: c.pageSize}, c.activeBounds())
	if q.FilterFingerprint() == c.current {
		c.mu.Unlock()
		return false
	}

	c.filters = f.Clone()
	c.startFetchLocked(ctx, q, "filters", fetchReplace)
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(state)
	return true
}

// LoadMore fetches the next page and appends it. No-op while a fetch is in
// flight or when the last page came back short. Returns whether a fetch
// started.
func (c *Coordinator) LoadMore(ctx context.Context) bool {
	c.mu.Lock()
	if c.token == "" || c.loading || !c.hasMore {
		c.mu.Unlock()
		return false
	}

	q := search.BuildQuery(c.filters, c.next, c.activeBounds())
	c.startFetchLocked(ctx, q, "load_more", fetchAppend)
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(state)
	return true
}

// SetBounds records the viewport rectangle. With bounds queries enabled it
// also refetches page zero scoped to the rectangle; nil clears the scope.
// Returns whether a fetch started.
func (c *Coordinator) SetBounds(ctx context.Context, b *search.Bounds) bool {
	c.mu.Lock()
	if b == nil {
		c.viewport = nil
	} else {
		bc := *b
		c.viewport = &bc
	}

	if !c.boundsQueries || c.token == "" {
		c.mu.Unlock()
		return false
	}

	q := search.BuildQuery(c.filters, search.Page{Limit: c.pageSize}, c.activeBounds())
	if q.FilterFingerprint() == c.current {
		c.mu.Unlock()
		return false
	}

	c.startFetchLocked(ctx, q, "bounds", fetchViewport)
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(state)
	return true
}

// Snapshot returns the current state.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Wait blocks until every launched fetch has completed. For shutdown and
// deterministic tests.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// activeBounds returns the rectangle to scope queries with, or nil when
// bounds queries are disabled.
func (c *Coordinator) activeBounds() *search.Bounds {
	if !c.boundsQueries || c.viewport == nil {
		return nil
	}
	bc := *c.viewport
	return &bc
}

// fetchMode decides how a response folds into the accumulation and how its
// failure surfaces.
type fetchMode int

const (
	// fetchReplace clears the accumulation up front; a failure therefore
	// leaves the explicit empty state, not the previous results.
	fetchReplace fetchMode = iota
	// fetchAppend keeps earlier pages and appends; a failure keeps them too.
	fetchAppend
	// fetchViewport swaps the result set only on success. On failure the
	// previously rendered set stays in place and no error surfaces, so
	// routine viewport churn over a flaky network never blanks the map.
	fetchViewport
)

// startFetchLocked launches a fetch goroutine. Caller holds c.mu.
// Each launch bumps the generation, superseding anything still in flight,
// even a fetch for the same fingerprint: toggling back to an in-flight
// filter set must not let both fetches land the same page.
func (c *Coordinator) startFetchLocked(ctx context.Context, q search.Query, kind string, mode fetchMode) {
	c.loading = true
	c.gen++
	prev := c.current
	c.current = q.FilterFingerprint()
	if mode == fetchReplace {
		c.listings = nil
		c.hasMore = false
	}
	metrics.SearchesTotal.WithLabelValues(kind).Inc()

	c.wg.Add(1)
	go c.fetch(ctx, q, c.gen, prev, mode)
}

func (c *Coordinator) fetch(ctx context.Context, q search.Query, gen uint64, prev string, mode fetchMode) {
	defer c.wg.Done()

	listings, err := c.searcher.Search(ctx, q)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		metrics.StaleResponsesDiscardedTotal.Inc()
		c.logger.Debug("Discarded superseded search response",
			zap.String("fingerprint", q.FilterFingerprint()),
			zap.Int("listings", len(listings)))
		return
	}

	c.loading = false
	switch {
	case err != nil && mode == fetchViewport:
		// Keep the rendered set; it still belongs to the previous query, so
		// the guard fingerprint rolls back too and repeating the gesture
		// retries instead of no-opping.
		c.current = prev
		c.logger.Warn("Viewport search failed, keeping rendered results", zap.Error(err))
	case err != nil:
		c.lastErr = err
		c.logger.Warn("Search failed", zap.String("fingerprint", q.FilterFingerprint()), zap.Error(err))
	default:
		c.lastErr = nil
		if mode == fetchViewport {
			c.listings = listings
		} else {
			c.listings = append(c.listings, listings...)
		}
		c.next = q.Page().Next()
		c.hasMore = len(listings) == q.Page().Limit
	}
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(state)
}

func (c *Coordinator) snapshotLocked() State {
	listings := make([]domain.Listing, len(c.listings))
	copy(listings, c.listings)

	var bounds *search.Bounds
	if c.viewport != nil {
		bc := *c.viewport
		bounds = &bc
	}

	return State{
		Token:    c.token,
		Filters:  c.filters.Clone(),
		Bounds:   bounds,
		Listings: listings,
		Loading:  c.loading,
		HasMore:  c.hasMore,
		Err:      c.lastErr,
	}
}

func (c *Coordinator) notify(state State) {
	if c.onChange != nil {
		c.onChange(state)
	}
}
