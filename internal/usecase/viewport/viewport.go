// Package viewport mediates between the map and the search coordinator: it
// projects the current result set into markers, routes marker and background
// clicks into navigation, forwards pan/zoom as bounds updates, and tracks the
// redraw the map owes after any layout change.
package viewport

import (
	"context"
	"sync"

	"github.com/rioscope/rioscope/internal/domain"
	"github.com/rioscope/rioscope/internal/domain/search"
	"github.com/rioscope/rioscope/internal/usecase/explore"
	"github.com/rioscope/rioscope/internal/usecase/nav"
)

// Coordinator is the slice of the search coordinator the bridge needs.
type Coordinator interface {
	Snapshot() explore.State
	SetBounds(ctx context.Context, b *search.Bounds) bool
}

// Navigator is the slice of the view stack the bridge needs.
type Navigator interface {
	Current() nav.View
	SelectListing(l domain.Listing) nav.View
	ClickMapBackground() nav.View
}

// Marker is one map pin, keyed by listing ID.
type Marker struct {
	ListingID string
	Lat       float64
	Lng       float64
	Price     float64
	Selected  bool
}

// Bridge keeps the rendered map consistent with coordinator results and
// navigation state. Safe for concurrent use.
type Bridge struct {
	coord Coordinator
	nav   Navigator

	mu            sync.Mutex
	fullWidth     bool
	redrawPending bool
}

// New creates a bridge.
func New(coord Coordinator, navigator Navigator) *Bridge {
	return &Bridge{coord: coord, nav: navigator}
}

// Markers projects the current result set into pins. Exactly one marker per
// listing; the selected flag follows the active property view.
func (b *Bridge) Markers() []Marker {
	state := b.coord.Snapshot()
	view := b.nav.Current()

	selectedID := ""
	if view.Kind == nav.ViewProperty && view.Listing != nil {
		selectedID = view.Listing.ID
	}

	markers := make([]Marker, 0, len(state.Listings))
	for _, l := range state.Listings {
		markers = append(markers, Marker{
			ListingID: l.ID,
			Lat:       l.Property.Latitude,
			Lng:       l.Property.Longitude,
			Price:     l.Price,
			Selected:  l.ID == selectedID,
		})
	}
	return markers
}

// ClickMarker opens the clicked listing. Unknown IDs (marker outlived a
// result refresh) are ignored.
func (b *Bridge) ClickMarker(listingID string) (nav.View, bool) {
	for _, l := range b.coord.Snapshot().Listings {
		if l.ID == listingID {
			return b.nav.SelectListing(l), true
		}
	}
	return b.nav.Current(), false
}

// ClickBackground routes a click on empty map space into navigation, where
// policy decides whether it deselects.
func (b *Bridge) ClickBackground() nav.View {
	return b.nav.ClickMapBackground()
}

// PanZoom forwards a viewport change. Returns whether a bounds-scoped
// refetch started; when bounds queries are off the move is purely cosmetic.
func (b *Bridge) PanZoom(ctx context.Context, bounds search.Bounds) bool {
	return b.coord.SetBounds(ctx, &bounds)
}

// NotifyResize records that the containing panel resized. The map owes a
// redraw after layout settles; repeated events before it happens collapse
// into one.
func (b *Bridge) NotifyResize() {
	b.mu.Lock()
	b.redrawPending = true
	b.mu.Unlock()
}

// SetFullWidth toggles the side panel away. Changing it owes the same redraw
// a resize does.
func (b *Bridge) SetFullWidth(full bool) {
	b.mu.Lock()
	if b.fullWidth != full {
		b.fullWidth = full
		b.redrawPending = true
	}
	b.mu.Unlock()
}

// FullWidth reports whether the side panel is hidden.
func (b *Bridge) FullWidth() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fullWidth
}

// ConsumeRedraw reports whether a redraw is owed and clears the debt. The
// renderer calls this once per frame after layout settles.
func (b *Bridge) ConsumeRedraw() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	pending := b.redrawPending
	b.redrawPending = false
	return pending
}
