package nav

import (
	"testing"

	"github.com/rioscope/rioscope/internal/domain"
)

func listing(id string) domain.Listing {
	return domain.Listing{ID: id, HostID: "h1"}
}

func requireKind(t *testing.T, v View, want ViewKind) {
	t.Helper()
	if v.Kind != want {
		t.Fatalf("expected view %s, got %s", want, v.Kind)
	}
}

func TestStack_StartsInSearch(t *testing.T) {
	s := New(Options{})
	requireKind(t, s.Current(), ViewSearch)
}

func TestStack_SelectAndDeselect(t *testing.T) {
	s := New(Options{})

	v := s.SelectListing(listing("A"))
	requireKind(t, v, ViewProperty)
	if v.Listing.ID != "A" {
		t.Fatalf("expected listing A, got %s", v.Listing.ID)
	}

	requireKind(t, s.Deselect(), ViewSearch)
}

func TestStack_HostProfileReturnChain(t *testing.T) {
	s := New(Options{})

	s.SelectListing(listing("A"))
	v := s.OpenHostProfile("h1")
	requireKind(t, v, ViewHostProfile)
	if v.HostID != "h1" {
		t.Fatalf("expected host h1, got %s", v.HostID)
	}
	if v.ReturnListing == nil || v.ReturnListing.ID != "A" {
		t.Fatal("host profile opened from a property must remember it")
	}

	back := s.Back()
	requireKind(t, back, ViewProperty)
	if back.Listing.ID != "A" {
		t.Fatalf("back must restore listing A, got %s", back.Listing.ID)
	}
}

func TestStack_SelectHostPropertyBreaksReturnChain(t *testing.T) {
	s := New(Options{})

	s.SelectListing(listing("A"))
	s.OpenHostProfile("h1")

	v := s.SelectHostProperty(listing("B"))
	requireKind(t, v, ViewProperty)
	if v.Listing.ID != "B" {
		t.Fatalf("expected listing B, got %s", v.Listing.ID)
	}

	// Backing out of B goes to search, never back to the host profile or A.
	requireKind(t, s.Back(), ViewSearch)
}

func TestStack_HostProfileWithoutOriginBacksToSearch(t *testing.T) {
	s := New(Options{})

	v := s.OpenHostProfile("h2")
	if v.ReturnListing != nil {
		t.Fatal("host profile opened from search must not have a return listing")
	}
	requireKind(t, s.Back(), ViewSearch)
}

func TestStack_ReturnListingConsumedOnce(t *testing.T) {
	s := New(Options{})

	s.SelectListing(listing("A"))
	s.OpenHostProfile("h1")
	s.Back() // back to A

	// Reopening the profile re-captures A; a fresh back still restores it.
	v := s.OpenHostProfile("h1")
	if v.ReturnListing == nil || v.ReturnListing.ID != "A" {
		t.Fatal("reopened profile must capture the current listing again")
	}
	s.Back()

	// But after closing the property, nothing remembers A.
	s.Deselect()
	requireKind(t, s.OpenHostProfile("h1"), ViewHostProfile)
	if s.Current().ReturnListing != nil {
		t.Fatal("return listing must not leak across visits")
	}
}

func TestStack_BackgroundClickPolicy(t *testing.T) {
	t.Run("default deselects", func(t *testing.T) {
		s := New(Options{})
		s.SelectListing(listing("A"))
		requireKind(t, s.ClickMapBackground(), ViewSearch)
	})

	t.Run("disabled keeps selection", func(t *testing.T) {
		off := false
		s := New(Options{DeselectOnBackgroundClick: &off})
		s.SelectListing(listing("A"))
		v := s.ClickMapBackground()
		requireKind(t, v, ViewProperty)
		if v.Listing.ID != "A" {
			t.Fatal("selection must survive background clicks when the policy is off")
		}
	})

	t.Run("no-op in search", func(t *testing.T) {
		s := New(Options{})
		requireKind(t, s.ClickMapBackground(), ViewSearch)
	})
}

func TestStack_OnChangeFiresPerTransition(t *testing.T) {
	var kinds []ViewKind
	s := New(Options{OnChange: func(v View) { kinds = append(kinds, v.Kind) }})

	s.SelectListing(listing("A"))
	s.OpenHostProfile("h1")
	s.Back()
	s.Deselect()

	want := []ViewKind{ViewProperty, ViewHostProfile, ViewProperty, ViewSearch}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, kinds)
		}
	}
}
