// Package memory implements the listing catalog over an in-memory dataset.
// It backs tests and the "memory" catalog driver, and is the reference
// implementation of the search predicate semantics.
package memory

import (
	"context"
	"sort"

	"github.com/rioscope/rioscope/internal/domain"
	"github.com/rioscope/rioscope/internal/domain/search"
)

// Dataset is the raw material of a memory catalog.
type Dataset struct {
	Listings []domain.Listing
	// AvailableDates maps property id to its available ISO dates. A date
	// missing from the slice is unavailable.
	AvailableDates map[string][]string
	Reviews        map[string][]domain.Review
	HostProfiles   map[string]domain.HostProfile
}

// Catalog serves catalog queries from an immutable in-memory dataset.
type Catalog struct {
	ds Dataset
	// byID, byProperty and byHost are derived indexes, built once.
	byID       map[string]domain.Listing
	byProperty map[string]domain.Listing
	byHost     map[string][]domain.Listing
}

// New builds a catalog from the dataset. The dataset must not be mutated
// afterwards.
func New(ds Dataset) *Catalog {
	c := &Catalog{
		ds:         ds,
		byID:       make(map[string]domain.Listing, len(ds.Listings)),
		byProperty: make(map[string]domain.Listing, len(ds.Listings)),
		byHost:     make(map[string][]domain.Listing),
	}
	for _, l := range ds.Listings {
		c.byID[l.ID] = l
		c.byProperty[l.PropertyID] = l
		c.byHost[l.HostID] = append(c.byHost[l.HostID], l)
	}
	for host := range c.byHost {
		props := c.byHost[host]
		sort.Slice(props, func(i, j int) bool {
			if props[i].Rating != props[j].Rating {
				return props[i].Rating > props[j].Rating
			}
			return props[i].ID < props[j].ID
		})
		for i := range props {
			props[i].RankingAmongHostProperties = i + 1
		}
	}
	return c
}

// Ping implements the health contract. The dataset lives in process, so the
// catalog is always reachable.
func (c *Catalog) Ping(_ context.Context) error { return nil }

// Search applies every active predicate, orders by relevance (rating desc,
// review count desc, id asc for stability), and slices the requested page.
func (c *Catalog) Search(_ context.Context, q search.Query) ([]domain.Listing, error) {
	f := q.Filters()
	bounds := q.Bounds()
	hoods := toSet(f.Neighborhoods)

	var matched []domain.Listing
	for _, l := range c.ds.Listings {
		if f.MinPrice != nil && l.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && l.Price > *f.MaxPrice {
			continue
		}
		if len(hoods) > 0 && !hoods[l.Property.Neighborhood] {
			continue
		}
		if f.MinRating != nil && l.Rating < *f.MinRating {
			continue
		}
		if f.MinCapacity != nil && l.Property.Capacity < *f.MinCapacity {
			continue
		}
		if f.MinReviews != nil && l.NumberOfReviews < *f.MinReviews {
			continue
		}
		if f.SuperhostOnly && !l.Host.IsSuperhost {
			continue
		}
		if bounds != nil && !bounds.Contains(l.Property.Latitude, l.Property.Longitude) {
			continue
		}
		if f.HasAvailabilityWindow() {
			days := c.availableDaysIn(l.PropertyID, f.CheckIn, f.CheckOut)
			want := 1
			if f.MinAvailableDays != nil {
				want = *f.MinAvailableDays
			}
			if days < want {
				continue
			}
			l.Property.AvailableDaysInPeriod = days
			l.Property.TotalAmenities = len(l.Property.Amenities)
			l.Property.HasAvailabilityDetails = true
		}
		matched = append(matched, l)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Rating != matched[j].Rating {
			return matched[i].Rating > matched[j].Rating
		}
		if matched[i].NumberOfReviews != matched[j].NumberOfReviews {
			return matched[i].NumberOfReviews > matched[j].NumberOfReviews
		}
		return matched[i].ID < matched[j].ID
	})

	return slicePage(matched, q.Page().Offset, q.Page().Limit), nil
}

// ListingByID returns one listing or domain.ErrListingNotFound.
func (c *Catalog) ListingByID(_ context.Context, id string) (domain.Listing, error) {
	l, ok := c.byID[id]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return l, nil
}

// Amenities returns the amenity names of a property.
func (c *Catalog) Amenities(_ context.Context, propertyID string) ([]string, error) {
	l, ok := c.byProperty[propertyID]
	if !ok {
		return nil, domain.ErrPropertyNotFound
	}
	return append([]string(nil), l.Property.Amenities...), nil
}

// Availability returns the sorted set of available ISO dates for a property.
func (c *Catalog) Availability(_ context.Context, propertyID string) ([]string, error) {
	if _, ok := c.byProperty[propertyID]; !ok {
		return nil, domain.ErrPropertyNotFound
	}
	dates := append([]string(nil), c.ds.AvailableDates[propertyID]...)
	sort.Strings(dates)
	return dates, nil
}

// Reviews returns one page of reviews, newest first. minYear 0 means no
// year refinement.
func (c *Catalog) Reviews(_ context.Context, propertyID string, offset, minYear int) ([]domain.Review, error) {
	if _, ok := c.byProperty[propertyID]; !ok {
		return nil, domain.ErrPropertyNotFound
	}
	all := c.ds.Reviews[propertyID]

	var filtered []domain.Review
	for _, r := range all {
		if minYear > 0 && reviewYear(r.Date) < minYear {
			continue
		}
		filtered = append(filtered, r)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Date > filtered[j].Date })

	return slicePage(filtered, offset, search.ReviewsPageSize), nil
}

// HostProfile returns the aggregated host view or domain.ErrHostNotFound.
func (c *Catalog) HostProfile(_ context.Context, hostID string) (domain.HostProfile, error) {
	if p, ok := c.ds.HostProfiles[hostID]; ok {
		return p, nil
	}

	props, ok := c.byHost[hostID]
	if !ok {
		return domain.HostProfile{}, domain.ErrHostNotFound
	}

	p := domain.HostProfile{Host: props[0].Host, TotalProperties: len(props)}
	var ratingSum float64
	for _, l := range props {
		ratingSum += l.Rating
		p.TotalReviews += l.NumberOfReviews
	}
	p.AverageRating = ratingSum / float64(len(props))
	return p, nil
}

// HostProperties returns one page of a host's listings ranked best-first.
func (c *Catalog) HostProperties(_ context.Context, hostID string, offset int) ([]domain.Listing, error) {
	props, ok := c.byHost[hostID]
	if !ok {
		if _, profiled := c.ds.HostProfiles[hostID]; !profiled {
			return nil, domain.ErrHostNotFound
		}
	}
	return slicePage(props, offset, search.HostPropertiesPageSize), nil
}

// Neighborhoods returns the sorted distinct neighborhood names.
func (c *Catalog) Neighborhoods(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, l := range c.ds.Listings {
		if n := l.Property.Neighborhood; n != "" && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (c *Catalog) availableDaysIn(propertyID, checkIn, checkOut string) int {
	days := 0
	for _, d := range c.ds.AvailableDates[propertyID] {
		// ISO dates compare lexicographically; window is [checkIn, checkOut).
		if d >= checkIn && d < checkOut {
			days++
		}
	}
	return days
}

func toSet(ss []string) map[string]bool {
	if len(ss) == 0 {
		return nil
	}
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}

func slicePage[T any](all []T, offset, limit int) []T {
	if offset >= len(all) || offset < 0 {
		return nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return append([]T(nil), all[offset:end]...)
}

func reviewYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year := 0
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}
