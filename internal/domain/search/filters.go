// Package search holds the filter model and the canonical query form used for
// catalog requests, cache keys, and staleness checks.
package search

import "sort"

// Filters is the user's active search refinement. It is a value: every edit
// produces a new Filters, never an in-place mutation. Nil pointer fields and
// empty slices mean "not set".
//
// MinPrice <= MaxPrice is the caller's responsibility; the UI is allowed to
// hold a transiently inconsistent pair while the user types.
type Filters struct {
	MinPrice         *float64
	MaxPrice         *float64
	Neighborhoods    []string
	MinRating        *float64
	MinCapacity      *int
	MinReviews       *int
	SuperhostOnly    bool
	CheckIn          string // YYYY-MM-DD, empty = not set
	CheckOut         string // YYYY-MM-DD, empty = not set
	MinAvailableDays *int
}

// Clone returns a deep copy so the caller can hand Filters across goroutines.
func (f Filters) Clone() Filters {
	c := f
	c.MinPrice = clonePtr(f.MinPrice)
	c.MaxPrice = clonePtr(f.MaxPrice)
	c.MinRating = clonePtr(f.MinRating)
	c.MinCapacity = clonePtr(f.MinCapacity)
	c.MinReviews = clonePtr(f.MinReviews)
	c.MinAvailableDays = clonePtr(f.MinAvailableDays)
	if f.Neighborhoods != nil {
		c.Neighborhoods = append([]string(nil), f.Neighborhoods...)
	}
	return c
}

// IsZero reports whether no filter is set. A zero Filters canonicalizes to the
// same query as one with every field explicitly at its default.
func (f Filters) IsZero() bool {
	return f.MinPrice == nil && f.MaxPrice == nil && len(f.Neighborhoods) == 0 &&
		f.MinRating == nil && f.MinCapacity == nil && f.MinReviews == nil &&
		!f.SuperhostOnly && f.CheckIn == "" && f.CheckOut == "" &&
		f.MinAvailableDays == nil
}

// HasAvailabilityWindow reports whether the availability filters are in play.
func (f Filters) HasAvailabilityWindow() bool {
	return f.CheckIn != "" && f.CheckOut != ""
}

// canonicalNeighborhoods returns the neighborhood set sorted and deduplicated,
// so that selection order never changes the canonical form.
func (f Filters) canonicalNeighborhoods() []string {
	if len(f.Neighborhoods) == 0 {
		return nil
	}
	out := append([]string(nil), f.Neighborhoods...)
	sort.Strings(out)
	dst := out[:0]
	var prev string
	for i, n := range out {
		if n == "" || (i > 0 && n == prev) {
			continue
		}
		dst = append(dst, n)
		prev = n
	}
	return dst
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Float returns a pointer to v, for building Filters literals.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for building Filters literals.
func Int(v int) *int { return &v }
