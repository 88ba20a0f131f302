package explore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rioscope/rioscope/internal/domain"
	"github.com/rioscope/rioscope/internal/domain/search"
)

type mockSearcher struct {
	mu    sync.Mutex
	calls []search.Query
	fn    func(q search.Query) ([]domain.Listing, error)
}

func (m *mockSearcher) Search(_ context.Context, q search.Query) ([]domain.Listing, error) {
	m.mu.Lock()
	m.calls = append(m.calls, q)
	fn := m.fn
	m.mu.Unlock()
	return fn(q)
}

func (m *mockSearcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockSearcher) lastQuery(t *testing.T) search.Query {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		t.Fatal("no searches issued")
	}
	return m.calls[len(m.calls)-1]
}

func (m *mockSearcher) setFn(fn func(q search.Query) ([]domain.Listing, error)) {
	m.mu.Lock()
	m.fn = fn
	m.mu.Unlock()
}

// page builds n listings with IDs prefix1..prefixN.
func page(prefix string, n int) []domain.Listing {
	listings := make([]domain.Listing, n)
	for i := range listings {
		listings[i] = domain.Listing{ID: fmt.Sprintf("%s%d", prefix, i+1)}
	}
	return listings
}

func fullPages(prefix string, size int) func(q search.Query) ([]domain.Listing, error) {
	return func(q search.Query) ([]domain.Listing, error) {
		return page(prefix, size), nil
	}
}

func listingIDs(listings []domain.Listing) []string {
	ids := make([]string, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	return ids
}

func TestCoordinator_StartIsIdempotent(t *testing.T) {
	searcher := &mockSearcher{fn: fullPages("a", 2)}
	coord := New(searcher, zap.NewNop(), Options{PageSize: 2})

	token := coord.Start(context.Background())
	if token == "" {
		t.Fatal("expected a session token")
	}
	coord.Wait()

	again := coord.Start(context.Background())
	coord.Wait()

	if again != token {
		t.Fatalf("second start returned a different token: %s vs %s", again, token)
	}
	if searcher.callCount() != 1 {
		t.Fatalf("second start must not refetch, got %d calls", searcher.callCount())
	}

	state := coord.Snapshot()
	if len(state.Listings) != 2 || !state.HasMore {
		t.Fatalf("unexpected state after start: %d listings, hasMore=%v", len(state.Listings), state.HasMore)
	}
}

func TestCoordinator_SetFiltersBeforeStartOnlyRecords(t *testing.T) {
	searcher := &mockSearcher{fn: fullPages("a", 2)}
	coord := New(searcher, zap.NewNop(), Options{PageSize: 2})

	filters := search.Filters{Neighborhoods: []string{"Ipanema"}}
	if coord.SetFilters(context.Background(), filters) {
		t.Fatal("filters before start must not fetch")
	}
	if searcher.callCount() != 0 {
		t.Fatalf("expected no searches before start, got %d", searcher.callCount())
	}

	coord.Start(context.Background())
	coord.Wait()

	got := searcher.lastQuery(t).FilterFingerprint()
	if got != "neighborhoods=Ipanema" {
		t.Fatalf("initial fetch did not carry recorded filters: %q", got)
	}
}

func TestCoordinator_SetFiltersNoOpForCanonicallyEqualFilters(t *testing.T) {
	searcher := &mockSearcher{fn: fullPages("a", 2)}
	coord := New(searcher, zap.NewNop(), Options{PageSize: 2})

	coord.SetFilters(context.Background(), search.Filters{
		Neighborhoods: []string{"Leblon", "Ipanema"},
		MinPrice:      search.Float(100),
	})
	coord.Start(context.Background())
	coord.Wait()

	// Same filters, different neighborhood order and a duplicate.
	started := coord.SetFilters(context.Background(), search.Filters{
		Neighborhoods: []string{"Ipanema", "Leblon", "Ipanema"},
		MinPrice:      search.Float(100),
	})
	if started {
		t.Fatal("canonically equal filters must not refetch")
	}
	if searcher.callCount() != 1 {
		t.Fatalf("expected 1 search, got %d", searcher.callCount())
	}
}

func TestCoordinator_SetFiltersReplacesResults(t *testing.T) {
	searcher := &mockSearcher{fn: fullPages("a", 2)}
	coord := New(searcher, zap.NewNop(), Options{PageSize: 2})
	coord.Start(context.Background())
	coord.Wait()

	searcher.setFn(func(q search.Query) ([]domain.Listing, error) {
		return page("b", 1), nil
	})
	if !coord.SetFilters(context.Background(), search.Filters{SuperhostOnly: true}) {
		t.Fatal("expected a fetch for new filters")
	}
	coord.Wait()

	state := coord.Snapshot()
	if len(state.Listings) != 1 || state.Listings[0].ID != "b1" {
		t.Fatalf("expected replaced results, got %v", listingIDs(state.Listings))
	}
	if state.HasMore {
		t.Fatal("short page must clear hasMore")
	}
}

func TestCoordinator_LoadMoreAppendsAndOffsetsAdvance(t *testing.T) {
	searcher := &mockSearcher{}
	searcher.fn = func(q search.Query) ([]domain.Listing, error) {
		switch q.Page().Offset {
		case 0:
			return page("a", 2), nil
		case 2:
			return page("b", 2), nil
		case 4:
			return page("c", 1), nil // short: end of results
		default:
			return nil, fmt.Errorf("unexpected offset %d", q.Page().Offset)
		}
	}
	coord := New(searcher, zap.NewNop(), Options{PageSize: 2})
	coord.Start(context.Background())
	coord.Wait()

	if !coord.LoadMore(context.Background()) {
		t.Fatal("expected second page fetch")
	}
	coord.Wait()
	if !coord.LoadMore(context.Background()) {
		t.Fatal("expected third page fetch")
	}
	coord.Wait()

	state := coord.Snapshot()
	want := []string{"a1", "a2", "b1", "b2", "c1"}
	got := listingIDs(state.Listings)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if state.HasMore {
		t.Fatal("short third page must clear hasMore")
	}
	if coord.LoadMore(context.Background()) {
		t.Fatal("load more past the end must be a no-op")
	}
	if searcher.callCount() != 3 {
		t.Fatalf("expected 3 searches, got %d", searcher.callCount())
	}
}

func TestCoordinator_LoadMoreWhileLoadingIsNoOp(t *testing.T) {
	gate := make(chan struct{})
	searcher := &mockSearcher{fn: fullPages("a", 2)}
	coord := New(searcher, zap.NewNop(), Options{PageSize: 2})
	coord.Start(context.Background())
	coord.Wait()

	searcher.setFn(func(q search.Query) ([]domain.Listing, error) {
		<-gate
		return page("b", 2), nil
	})

	if !coord.LoadMore(context.Background()) {
		t.Fatal("expected second page fetch")
	}
	if coord.LoadMore(context.Background()) {
		t.Fatal("load more while a fetch is in flight must be a no-op")
	}

	close(gate)
	coord.Wait()

	if searcher.callCount() != 2 {
		t.Fatalf("expected 2 searches, got %d", searcher.callCount())
	}
	if got := len(coord.Snapshot().Listings); got != 4 {
		t.Fatalf("expected 4 listings, got %d", got)
	}
}

func TestCoordinator_StaleResponseDiscarded(t *testing.T) {
	slowGate := make(chan struct{})
	states := make(chan State, 32)

	searcher := &mockSearcher{fn: fullPages("init", 2)}
	coord := New(searcher, zap.NewNop(), Options{
		PageSize: 2,
		OnChange: func(s State) { states <- s },
	})
	coord.Start(context.Background())
	coord.Wait()

	searcher.setFn(func(q search.Query) ([]domain.Listing, error) {
		if strings.Contains(q.FilterFingerprint(), "Ipanema") {
			<-slowGate
			return page("slow", 2), nil
		}
		return page("fast", 2), nil
	})

	// Slow request launches first, fast one supersedes it.
	coord.SetFilters(context.Background(), search.Filters{Neighborhoods: []string{"Ipanema"}})
	coord.SetFilters(context.Background(), search.Filters{Neighborhoods: []string{"Leblon"}})

	waitForListing(t, states, "fast1")

	// Now the superseded response arrives. It must be dropped.
	close(slowGate)
	coord.Wait()

	state := coord.Snapshot()
	if len(state.Listings) != 2 || state.Listings[0].ID != "fast1" {
		t.Fatalf("stale response clobbered fresh results: %v", listingIDs(state.Listings))
	}
	if state.Err != nil {
		t.Fatalf("unexpected error: %v", state.Err)
	}
}

func TestCoordinator_ToggleBackToInFlightFiltersFetchesOnce(t *testing.T) {
	gate := make(chan struct{})
	parked := make(chan struct{})
	states := make(chan State, 32)

	searcher := &mockSearcher{fn: fullPages("init", 2)}
	coord := New(searcher, zap.NewNop(), Options{
		PageSize: 2,
		OnChange: func(s State) { states <- s },
	})
	coord.Start(context.Background())
	coord.Wait()

	var mu sync.Mutex
	ipanemaCalls := 0
	searcher.setFn(func(q search.Query) ([]domain.Listing, error) {
		if strings.Contains(q.FilterFingerprint(), "Ipanema") {
			mu.Lock()
			ipanemaCalls++
			first := ipanemaCalls == 1
			mu.Unlock()
			if first {
				close(parked)
				<-gate
			}
			return page("a", 2), nil
		}
		return page("b", 2), nil
	})

	// The first request for these filters parks in flight, another filter
	// set supersedes it, then the original filters come right back.
	coord.SetFilters(context.Background(), search.Filters{Neighborhoods: []string{"Ipanema"}})
	<-parked
	coord.SetFilters(context.Background(), search.Filters{Neighborhoods: []string{"Leblon"}})
	coord.SetFilters(context.Background(), search.Filters{Neighborhoods: []string{"Ipanema"}})

	waitForListing(t, states, "a1")

	// The parked request resolves carrying the same filters as the live one.
	// Matching filters are not enough: only the newest request may land.
	close(gate)
	coord.Wait()

	state := coord.Snapshot()
	got := listingIDs(state.Listings)
	if len(got) != 2 || got[0] != "a1" || got[1] != "a2" {
		t.Fatalf("superseded request appended a duplicate page: %v", got)
	}
	if state.Err != nil {
		t.Fatalf("unexpected error: %v", state.Err)
	}
}

func TestCoordinator_FirstPageFailureClearsResults(t *testing.T) {
	searcher := &mockSearcher{fn: fullPages("a", 2)}
	coord := New(searcher, zap.NewNop(), Options{PageSize: 2})
	coord.Start(context.Background())
	coord.Wait()

	searcher.setFn(func(q search.Query) ([]domain.Listing, error) {
		return nil, errors.New("catalog down")
	})
	coord.SetFilters(context.Background(), search.Filters{MinRating: search.Float(4.5)})
	coord.Wait()

	state := coord.Snapshot()
	if len(state.Listings) != 0 {
		t.Fatalf("failed refetch must not keep stale results, got %v", listingIDs(state.Listings))
	}
	if state.Err == nil {
		t.Fatal("expected error to surface")
	}
	if state.HasMore {
		t.Fatal("failed refetch must clear hasMore")
	}
}

func TestCoordinator_LoadMoreFailureKeepsAccumulatedPages(t *testing.T) {
	searcher := &mockSearcher{fn: fullPages("a", 2)}
	coord := New(searcher, zap.NewNop(), Options{PageSize: 2})
	coord.Start(context.Background())
	coord.Wait()

	searcher.setFn(func(q search.Query) ([]domain.Listing, error) {
		return nil, errors.New("timeout")
	})
	coord.LoadMore(context.Background())
	coord.Wait()

	state := coord.Snapshot()
	if len(state.Listings) != 2 {
		t.Fatalf("failed page fetch must keep earlier pages, got %v", listingIDs(state.Listings))
	}
	if state.Err == nil {
		t.Fatal("expected error to surface")
	}
	if !state.HasMore {
		t.Fatal("a failed page fetch should stay retryable")
	}
}

func TestCoordinator_BoundsQueriesDisabledByDefault(t *testing.T) {
	searcher := &mockSearcher{fn: fullPages("a", 2)}
	coord := New(searcher, zap.NewNop(), Options{PageSize: 2})
	coord.Start(context.Background())
	coord.Wait()

	b := &search.Bounds{North: -22.9, South: -23.0, East: -43.1, West: -43.3, Zoom: 14}
	if coord.SetBounds(context.Background(), b) {
		t.Fatal("bounds must not refetch when bounds queries are disabled")
	}
	if searcher.callCount() != 1 {
		t.Fatalf("expected 1 search, got %d", searcher.callCount())
	}

	state := coord.Snapshot()
	if state.Bounds == nil || state.Bounds.Zoom != 14 {
		t.Fatal("viewport must still be recorded")
	}
	if got := searcher.lastQuery(t).Bounds(); got != nil {
		t.Fatal("query must not carry bounds when bounds queries are disabled")
	}
}

func TestCoordinator_BoundsQueriesScopeTheSearch(t *testing.T) {
	searcher := &mockSearcher{fn: fullPages("a", 2)}
	coord := New(searcher, zap.NewNop(), Options{PageSize: 2, BoundsQueries: true})
	coord.Start(context.Background())
	coord.Wait()

	b := &search.Bounds{North: -22.9, South: -23.0, East: -43.1, West: -43.3, Zoom: 14}
	if !coord.SetBounds(context.Background(), b) {
		t.Fatal("expected a bounds-scoped refetch")
	}
	coord.Wait()

	q := searcher.lastQuery(t)
	if q.Bounds() == nil || q.Bounds().North != -22.9 {
		t.Fatalf("expected bounds on the query, got %+v", q.Bounds())
	}

	// Pagination resets with the new scope.
	if q.Page().Offset != 0 {
		t.Fatalf("bounds change must reset to page zero, got offset %d", q.Page().Offset)
	}

	// Same rectangle again is a no-op.
	if coord.SetBounds(context.Background(), b) {
		t.Fatal("unchanged bounds must not refetch")
	}
}

func TestCoordinator_BoundsFetchFailureKeepsRenderedResults(t *testing.T) {
	searcher := &mockSearcher{fn: fullPages("a", 2)}
	coord := New(searcher, zap.NewNop(), Options{PageSize: 2, BoundsQueries: true})
	coord.Start(context.Background())
	coord.Wait()

	searcher.setFn(func(q search.Query) ([]domain.Listing, error) {
		return nil, errors.New("catalog down")
	})
	coord.SetBounds(context.Background(), &search.Bounds{North: 1, South: 0, East: 1, West: 0, Zoom: 12})
	coord.Wait()

	// Fail-stale: viewport churn over a flaky network must not blank the map.
	state := coord.Snapshot()
	if len(state.Listings) != 2 {
		t.Fatalf("failed viewport query must keep rendered results, got %v", listingIDs(state.Listings))
	}
	if state.Err != nil {
		t.Fatalf("viewport failure must not surface an error, got %v", state.Err)
	}

	// The rendered set still belongs to the previous query, so repeating the
	// same gesture retries rather than no-opping against the failed one.
	searcher.setFn(fullPages("v", 2))
	if !coord.SetBounds(context.Background(), &search.Bounds{North: 1, South: 0, East: 1, West: 0, Zoom: 12}) {
		t.Fatal("expected a retry for the same rectangle after a failed viewport query")
	}
	coord.Wait()
	if got := listingIDs(coord.Snapshot().Listings); len(got) != 2 || got[0] != "v1" {
		t.Fatalf("retry did not replace the rendered set, got %v", got)
	}
}

// waitForListing drains state snapshots until one whose first listing has the
// given ID arrives.
func waitForListing(t *testing.T, states <-chan State, id string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-states:
			if len(s.Listings) > 0 && s.Listings[0].ID == id {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for listing %s", id)
		}
	}
}
