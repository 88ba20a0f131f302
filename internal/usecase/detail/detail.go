// Package detail holds the per-entity incremental loaders behind the property
// and host panels: amenities, the availability calendar, paginated reviews,
// and the host profile with its paginated property list. Each loader caches
// one entity at a time and runs at most one fetch for it at once.
package detail

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rioscope/rioscope/internal/domain"
	"github.com/rioscope/rioscope/internal/domain/search"
)

// Amenities loads the full amenity list of a property. When the dedicated
// fetch fails, the amenity summary embedded in the listing is served instead
// so the panel degrades instead of going blank.
type Amenities struct {
	reader AmenityReader
	logger *zap.Logger
	cache  once[string, []string]
}

// NewAmenities creates the amenity loader.
func NewAmenities(reader AmenityReader, logger *zap.Logger) *Amenities {
	a := &Amenities{reader: reader, logger: logger}
	a.cache.fetch = reader.Amenities
	return a
}

// Load returns the amenities of the listing's property.
func (a *Amenities) Load(ctx context.Context, l domain.Listing) ([]string, error) {
	amenities, err := a.cache.load(ctx, l.PropertyID)
	if err == nil {
		return amenities, nil
	}
	if len(l.Property.Amenities) > 0 {
		a.logger.Warn("Amenity fetch failed, serving embedded summary",
			zap.String("property_id", l.PropertyID), zap.Error(err))
		fallback := make([]string, len(l.Property.Amenities))
		copy(fallback, l.Property.Amenities)
		return fallback, nil
	}
	return nil, err
}

// Availability is the available-date set of one property. A date is bookable
// only when it is present; anything outside the dataset year is unavailable
// by policy, never "unknown".
type Availability struct {
	dates map[string]struct{}
	year  int
}

// AvailableOn reports whether the ISO date is bookable.
func (a Availability) AvailableOn(date string) bool {
	if !strings.HasPrefix(date, strconv.Itoa(a.year)+"-") {
		return false
	}
	_, ok := a.dates[date]
	return ok
}

// Dates returns the available dates in ascending order.
func (a Availability) Dates() []string {
	dates := make([]string, 0, len(a.dates))
	for d := range a.dates {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Year returns the dataset year the calendar is locked to.
func (a Availability) Year() int { return a.year }

// Calendar loads property availability.
type Calendar struct {
	cache once[string, Availability]
}

// NewCalendar creates the availability loader. year is the dataset year the
// calendar is locked to.
func NewCalendar(reader AvailabilityReader, year int) *Calendar {
	c := &Calendar{}
	c.cache.fetch = func(ctx context.Context, propertyID string) (Availability, error) {
		raw, err := reader.Availability(ctx, propertyID)
		if err != nil {
			return Availability{}, err
		}
		dates := make(map[string]struct{}, len(raw))
		for _, d := range raw {
			dates[d] = struct{}{}
		}
		return Availability{dates: dates, year: year}, nil
	}
	return c
}

// Load returns the availability calendar of the property.
func (c *Calendar) Load(ctx context.Context, propertyID string) (Availability, error) {
	return c.cache.load(ctx, propertyID)
}

// reviewKey scopes the review feed: changing the year refinement resets the
// feed exactly like switching properties does.
type reviewKey struct {
	propertyID string
	minYear    int
}

// Reviews is the paginated review feed of one property.
type Reviews struct {
	feed feed[reviewKey, domain.Review]
}

// NewReviews creates the review loader.
func NewReviews(reader ReviewReader) *Reviews {
	r := &Reviews{}
	r.feed.pageSize = search.ReviewsPageSize
	r.feed.fetch = func(ctx context.Context, key reviewKey, offset int) ([]domain.Review, error) {
		return reader.Reviews(ctx, key.propertyID, offset, key.minYear)
	}
	return r
}

// Load returns the accumulated reviews for the property, restricted to
// minYear and later when minYear > 0.
func (r *Reviews) Load(ctx context.Context, propertyID string, minYear int) ([]domain.Review, bool, error) {
	return r.feed.load(ctx, reviewKey{propertyID: propertyID, minYear: minYear})
}

// LoadMore appends the next review page.
func (r *Reviews) LoadMore(ctx context.Context) ([]domain.Review, bool, error) {
	return r.feed.loadMore(ctx)
}

// Host loads a host profile together with the paginated list of the host's
// properties.
type Host struct {
	profile    once[string, domain.HostProfile]
	properties feed[string, domain.Listing]
}

// NewHost creates the host loader.
func NewHost(reader HostReader) *Host {
	h := &Host{}
	h.profile.fetch = reader.HostProfile
	h.properties.pageSize = search.HostPropertiesPageSize
	h.properties.fetch = func(ctx context.Context, hostID string, offset int) ([]domain.Listing, error) {
		return reader.HostProperties(ctx, hostID, offset)
	}
	return h
}

// Profile returns the host profile. Unknown hosts surface
// domain.ErrHostNotFound, distinct from a load still in flight.
func (h *Host) Profile(ctx context.Context, hostID string) (domain.HostProfile, error) {
	return h.profile.load(ctx, hostID)
}

// Properties returns the accumulated property pages of the host.
func (h *Host) Properties(ctx context.Context, hostID string) ([]domain.Listing, bool, error) {
	return h.properties.load(ctx, hostID)
}

// MoreProperties appends the next property page.
func (h *Host) MoreProperties(ctx context.Context) ([]domain.Listing, bool, error) {
	return h.properties.loadMore(ctx)
}

// Loaders bundles every detail loader of one session.
type Loaders struct {
	Amenities *Amenities
	Calendar  *Calendar
	Reviews   *Reviews
	Host      *Host
}

// NewLoaders wires the loaders against one catalog-shaped reader.
func NewLoaders(reader interface {
	AmenityReader
	AvailabilityReader
	ReviewReader
	HostReader
}, year int, logger *zap.Logger) *Loaders {
	return &Loaders{
		Amenities: NewAmenities(reader, logger),
		Calendar:  NewCalendar(reader, year),
		Reviews:   NewReviews(reader),
		Host:      NewHost(reader),
	}
}
