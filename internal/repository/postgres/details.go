package postgres

import (
	"context"
	"fmt"

	"github.com/rioscope/rioscope/internal/domain"
	"github.com/rioscope/rioscope/internal/domain/search"
)

// Amenities returns the amenity names of a property.
func (c *Catalog) Amenities(ctx context.Context, propertyID string) ([]string, error) {
	if err := c.propertyExists(ctx, propertyID); err != nil {
		return nil, err
	}

	rows, err := c.pool.Query(ctx, `
		SELECT a.name
		FROM property_amenities pa
		JOIN amenities a ON a.id = pa.amenity_id
		WHERE pa.property_id = $1
		ORDER BY a.name`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("get amenities: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan amenity: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate amenities: %w", err)
	}
	return out, nil
}

// Availability returns the available ISO dates of a property, sorted.
func (c *Catalog) Availability(ctx context.Context, propertyID string) ([]string, error) {
	if err := c.propertyExists(ctx, propertyID); err != nil {
		return nil, err
	}

	rows, err := c.pool.Query(ctx, `
		SELECT date::text
		FROM calendar
		WHERE property_id = $1 AND available
		ORDER BY date`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("get availability: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dates: %w", err)
	}
	return out, nil
}

// Reviews returns one page of reviews, newest first. minYear 0 disables the
// year refinement.
func (c *Catalog) Reviews(ctx context.Context, propertyID string, offset, minYear int) ([]domain.Review, error) {
	if err := c.propertyExists(ctx, propertyID); err != nil {
		return nil, err
	}

	rows, err := c.pool.Query(ctx, `
		SELECT r.id, r.user_id, u.name, COALESCE(r.comment, ''), r.date::text,
		       (SELECT COUNT(*) FROM reviews ur WHERE ur.user_id = r.user_id)
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.property_id = $1
		  AND ($2 = 0 OR EXTRACT(YEAR FROM r.date) >= $2)
		ORDER BY r.date DESC
		LIMIT $3 OFFSET $4`,
		propertyID, minYear, search.ReviewsPageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("get reviews: %w", err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		r := domain.Review{PropertyID: propertyID}
		if err := rows.Scan(&r.ID, &r.UserID, &r.UserName, &r.Comment, &r.Date, &r.UserTotalReviews); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return out, nil
}

// HostProfile returns the aggregated host view.
func (c *Catalog) HostProfile(ctx context.Context, hostID string) (domain.HostProfile, error) {
	var p domain.HostProfile
	err := c.pool.QueryRow(ctx, `
		SELECT h.id, h.name, COALESCE(h.url, ''), COALESCE(h.join_date::text, ''),
		       COALESCE(h.description, ''), h.is_superhost, h.verified,
		       COALESCE(h.location, ''),
		       COUNT(l.property_id),
		       COALESCE(AVG(l.rating), 0),
		       COALESCE(SUM(l.number_of_reviews), 0)
		FROM hosts h
		LEFT JOIN listings l ON l.host_id = h.id
		WHERE h.id = $1
		GROUP BY h.id`, hostID).Scan(
		&p.ID, &p.Name, &p.URL, &p.JoinDate, &p.Description,
		&p.IsSuperhost, &p.Verified, &p.Location,
		&p.TotalProperties, &p.AverageRating, &p.TotalReviews,
	)
	if err != nil {
		return domain.HostProfile{}, notFound(fmt.Errorf("get host profile: %w", err), domain.ErrHostNotFound)
	}
	return p, nil
}

// HostProperties returns one page of a host's listings ranked best-first.
func (c *Catalog) HostProperties(ctx context.Context, hostID string, offset int) ([]domain.Listing, error) {
	if err := c.hostExists(ctx, hostID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM listings l
		JOIN properties p ON p.id = l.property_id
		JOIN hosts h ON h.id = l.host_id
		WHERE h.id = $1
		ORDER BY l.rating DESC, p.id
		LIMIT $2 OFFSET $3`, listingColumns)

	rows, err := c.pool.Query(ctx, query, hostID, search.HostPropertiesPageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("get host properties: %w", err)
	}
	return collectListings(rows)
}

// Neighborhoods returns the distinct neighborhood names, sorted.
func (c *Catalog) Neighborhoods(ctx context.Context) ([]string, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT DISTINCT neighborhood FROM properties ORDER BY neighborhood`)
	if err != nil {
		return nil, fmt.Errorf("get neighborhoods: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan neighborhood: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate neighborhoods: %w", err)
	}
	return out, nil
}

func (c *Catalog) propertyExists(ctx context.Context, id string) error {
	var exists bool
	if err := c.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM properties WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check property: %w", err)
	}
	if !exists {
		return domain.ErrPropertyNotFound
	}
	return nil
}

func (c *Catalog) hostExists(ctx context.Context, id string) error {
	var exists bool
	if err := c.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM hosts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check host: %w", err)
	}
	if !exists {
		return domain.ErrHostNotFound
	}
	return nil
}
