package detail

import (
	"context"
	"sync"

	"github.com/rioscope/rioscope/internal/domain"
)

// feed is the shared core of the paginated loaders: state is keyed by one
// entity, at most one fetch per key is in flight, and switching the key
// discards the previous entity's pages entirely.
type feed[K comparable, T any] struct {
	fetch    func(ctx context.Context, key K, offset int) ([]T, error)
	pageSize int

	mu      sync.Mutex
	gen     uint64 // bumps on every key reset; only fetches from the live generation apply
	primed  bool
	key     K
	items   []T
	offset  int
	hasMore bool
	loading bool
}

// load returns the accumulated items for key, fetching page zero when the key
// is new. A call for the current key while its fetch is in flight returns
// domain.ErrLoadInProgress; the caller is expected to disable the trigger
// while loading rather than queue.
func (f *feed[K, T]) load(ctx context.Context, key K) ([]T, bool, error) {
	f.mu.Lock()
	if f.primed && key == f.key {
		if f.loading {
			f.mu.Unlock()
			return nil, false, domain.ErrLoadInProgress
		}
		items, hasMore := f.pageLocked()
		f.mu.Unlock()
		return items, hasMore, nil
	}

	// New key: previous entity's state is gone before the fetch even starts,
	// so a failure can never show another entity's data. The generation bump
	// also strands any fetch still in flight, including one for this same key
	// from before an intervening switch.
	f.gen++
	gen := f.gen
	f.primed = true
	f.key = key
	f.items = nil
	f.offset = 0
	f.hasMore = false
	f.loading = true
	f.mu.Unlock()

	page, err := f.fetch(ctx, key, 0)
	return f.apply(gen, page, err)
}

// loadMore appends the next page. No-op while loading, before the first load,
// or past the last page.
func (f *feed[K, T]) loadMore(ctx context.Context) ([]T, bool, error) {
	f.mu.Lock()
	if !f.primed || f.loading || !f.hasMore {
		items, hasMore := f.pageLocked()
		f.mu.Unlock()
		return items, hasMore, nil
	}
	key := f.key
	offset := f.offset
	gen := f.gen
	f.loading = true
	f.mu.Unlock()

	page, err := f.fetch(ctx, key, offset)
	return f.apply(gen, page, err)
}

// apply folds a fetch result into the state, unless a key reset superseded
// the fetch while it was in flight.
func (f *feed[K, T]) apply(gen uint64, page []T, err error) ([]T, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen {
		// Superseded mid-flight. Hand the page to the caller that asked for
		// it, but keep nothing.
		return page, len(page) == f.pageSize, err
	}

	f.loading = false
	if err != nil {
		if f.offset == 0 {
			// Failed first page: unprime so a retry refetches instead of
			// serving the cached empty state.
			f.primed = false
		}
		items, hasMore := f.pageLocked()
		return items, hasMore, err
	}

	f.items = append(f.items, page...)
	f.offset += len(page)
	f.hasMore = len(page) == f.pageSize

	items, hasMore := f.pageLocked()
	return items, hasMore, nil
}

func (f *feed[K, T]) pageLocked() ([]T, bool) {
	items := make([]T, len(f.items))
	copy(items, f.items)
	return items, f.hasMore
}

// once is the single-shot sibling of feed: one cached value per key.
type once[K comparable, T any] struct {
	fetch func(ctx context.Context, key K) (T, error)

	mu      sync.Mutex
	gen     uint64
	primed  bool
	key     K
	value   T
	loading bool
}

func (o *once[K, T]) load(ctx context.Context, key K) (T, error) {
	o.mu.Lock()
	if o.primed && key == o.key {
		if o.loading {
			o.mu.Unlock()
			var zero T
			return zero, domain.ErrLoadInProgress
		}
		v := o.value
		o.mu.Unlock()
		return v, nil
	}

	o.gen++
	gen := o.gen
	o.primed = true
	o.key = key
	var zero T
	o.value = zero
	o.loading = true
	o.mu.Unlock()

	v, err := o.fetch(ctx, key)

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		return v, err
	}
	o.loading = false
	if err != nil {
		// Leave unprimed so a retry refetches instead of caching the failure.
		o.primed = false
		return zero, err
	}
	o.value = v
	return v, nil
}
