package detail

import (
	"context"

	"github.com/rioscope/rioscope/internal/domain"
)

// AmenityReader fetches the full amenity list of a property.
type AmenityReader interface {
	Amenities(ctx context.Context, propertyID string) ([]string, error)
}

// AvailabilityReader fetches the available ISO dates of a property.
type AvailabilityReader interface {
	Availability(ctx context.Context, propertyID string) ([]string, error)
}

// ReviewReader fetches one review page, newest first.
type ReviewReader interface {
	Reviews(ctx context.Context, propertyID string, offset, minYear int) ([]domain.Review, error)
}

// HostReader fetches host profile and property pages.
type HostReader interface {
	HostProfile(ctx context.Context, hostID string) (domain.HostProfile, error)
	HostProperties(ctx context.Context, hostID string, offset int) ([]domain.Listing, error)
}
