package rioscope

import (
	"context"

	"github.com/rioscope/rioscope/internal/domain/search"
)

// FilterBuilder is a fluent builder for search refinements.
type FilterBuilder struct {
	s *Session
	f search.Filters
}

// Filter starts a new refinement over the session's result set. The built
// filters replace the active ones wholesale on Apply.
func (s *Session) Filter() *FilterBuilder {
	return &FilterBuilder{s: s}
}

// MinPrice sets the nightly price floor.
func (b *FilterBuilder) MinPrice(p float64) *FilterBuilder {
	b.f.MinPrice = &p
	return b
}

// MaxPrice sets the nightly price ceiling.
func (b *FilterBuilder) MaxPrice(p float64) *FilterBuilder {
	b.f.MaxPrice = &p
	return b
}

// PriceBetween sets both price bounds.
func (b *FilterBuilder) PriceBetween(min, max float64) *FilterBuilder {
	return b.MinPrice(min).MaxPrice(max)
}

// In restricts results to the given neighborhoods. Order and duplicates do
// not matter; the set canonicalizes before comparison.
func (b *FilterBuilder) In(neighborhoods ...string) *FilterBuilder {
	b.f.Neighborhoods = append(b.f.Neighborhoods, neighborhoods...)
	return b
}

// MinRating sets the minimum average review rating.
func (b *FilterBuilder) MinRating(r float64) *FilterBuilder {
	b.f.MinRating = &r
	return b
}

// Sleeps sets the minimum guest capacity.
func (b *FilterBuilder) Sleeps(n int) *FilterBuilder {
	b.f.MinCapacity = &n
	return b
}

// MinReviews sets the minimum review count.
func (b *FilterBuilder) MinReviews(n int) *FilterBuilder {
	b.f.MinReviews = &n
	return b
}

// SuperhostOnly restricts results to superhost listings.
func (b *FilterBuilder) SuperhostOnly() *FilterBuilder {
	b.f.SuperhostOnly = true
	return b
}

// Stay sets the availability window. Dates are YYYY-MM-DD.
func (b *FilterBuilder) Stay(checkIn, checkOut string) *FilterBuilder {
	b.f.CheckIn = checkIn
	b.f.CheckOut = checkOut
	return b
}

// AvailableAtLeast sets the minimum available days within the stay window.
func (b *FilterBuilder) AvailableAtLeast(days int) *FilterBuilder {
	b.f.MinAvailableDays = &days
	return b
}

// Build returns the filters without applying them.
func (b *FilterBuilder) Build() search.Filters {
	return b.f.Clone()
}

// Apply replaces the session's active filters and refetches page zero.
// Returns whether a fetch started: false means the filters canonicalize to
// the active ones and nothing was issued.
func (b *FilterBuilder) Apply(ctx context.Context) bool {
	return b.s.coord.SetFilters(ctx, b.f)
}
