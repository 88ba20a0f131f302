// Package nav tracks which detail view is active: the search results, one
// property, or one host profile. A host profile remembers the listing it was
// opened from so backing out restores it; that memory is depth one and is
// consumed on use.
package nav

import (
	"sync"

	"github.com/rioscope/rioscope/internal/domain"
)

// ViewKind identifies the active view.
type ViewKind string

const (
	ViewSearch      ViewKind = "search"
	ViewProperty    ViewKind = "property"
	ViewHostProfile ViewKind = "host_profile"
)

// View is a snapshot of the active view. Listing is set for ViewProperty,
// HostID and optionally ReturnListing for ViewHostProfile.
type View struct {
	Kind          ViewKind
	Listing       *domain.Listing
	HostID        string
	ReturnListing *domain.Listing
}

// Options tune a Stack.
type Options struct {
	// DeselectOnBackgroundClick controls whether clicking the map background
	// while a property is open returns to the search view. Product behavior
	// has flip-flopped on this, so it stays a flag. Default on.
	DeselectOnBackgroundClick *bool

	// OnChange, when set, receives the new view after every transition that
	// actually changed it.
	OnChange func(View)
}

// Stack is the session view state machine. Safe for concurrent use.
type Stack struct {
	deselectOnBackground bool
	onChange             func(View)

	mu   sync.Mutex
	view View
}

// New creates a stack in the search view.
func New(opts Options) *Stack {
	deselect := true
	if opts.DeselectOnBackgroundClick != nil {
		deselect = *opts.DeselectOnBackgroundClick
	}
	return &Stack{
		deselectOnBackground: deselect,
		onChange:             opts.OnChange,
		view:                 View{Kind: ViewSearch},
	}
}

// Current returns the active view.
func (s *Stack) Current() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SelectListing opens a property from the search results or a map marker.
func (s *Stack) SelectListing(l domain.Listing) View {
	return s.transition(View{Kind: ViewProperty, Listing: &l})
}

// Deselect closes the property view and returns to search.
func (s *Stack) Deselect() View {
	return s.transition(View{Kind: ViewSearch})
}

// OpenHostProfile opens a host profile. When opened from a property view the
// current listing is remembered as the place to return to.
func (s *Stack) OpenHostProfile(hostID string) View {
	s.mu.Lock()
	next := View{Kind: ViewHostProfile, HostID: hostID}
	if s.view.Kind == ViewProperty {
		next.ReturnListing = s.view.Listing
	}
	return s.apply(next)
}

// SelectHostProperty opens another of the host's properties from the profile
// view. The return listing is dropped on purpose: backing out of the newly
// opened property goes to search, not back to the host profile chain.
func (s *Stack) SelectHostProperty(l domain.Listing) View {
	return s.transition(View{Kind: ViewProperty, Listing: &l})
}

// Back leaves the host profile, restoring the listing it was opened from when
// there is one. From a property view it behaves like Deselect. No-op in search.
func (s *Stack) Back() View {
	s.mu.Lock()
	switch s.view.Kind {
	case ViewHostProfile:
		if r := s.view.ReturnListing; r != nil {
			return s.apply(View{Kind: ViewProperty, Listing: r})
		}
		return s.apply(View{Kind: ViewSearch})
	case ViewProperty:
		return s.apply(View{Kind: ViewSearch})
	default:
		v := s.view
		s.mu.Unlock()
		return v
	}
}

// ClickMapBackground handles a click on empty map space. Whether it deselects
// an open property is policy; in the search view it is always a no-op.
func (s *Stack) ClickMapBackground() View {
	s.mu.Lock()
	if s.view.Kind == ViewProperty && s.deselectOnBackground {
		return s.apply(View{Kind: ViewSearch})
	}
	v := s.view
	s.mu.Unlock()
	return v
}

func (s *Stack) transition(next View) View {
	s.mu.Lock()
	return s.apply(next)
}

// apply installs the view and notifies. Caller holds s.mu; apply releases it.
func (s *Stack) apply(next View) View {
	s.view = next
	notify := s.onChange
	s.mu.Unlock()
	if notify != nil {
		notify(next)
	}
	return next
}
