package postgres

import (
	"context"
	"fmt"

	"github.com/rioscope/rioscope/internal/domain"
	"github.com/rioscope/rioscope/internal/domain/heatmap"
)

// NeighborhoodStats aggregates listings per neighborhood.
func (c *Catalog) NeighborhoodStats(ctx context.Context) ([]domain.NeighborhoodStats, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT p.neighborhood,
		       COUNT(*),
		       AVG(l.price), AVG(l.rating), AVG(p.capacity),
		       AVG(p.bedrooms), AVG(p.bathrooms), AVG(l.number_of_reviews),
		       COUNT(*) FILTER (WHERE h.is_superhost),
		       COUNT(*) FILTER (WHERE h.verified)
		FROM listings l
		JOIN properties p ON p.id = l.property_id
		JOIN hosts h ON h.id = l.host_id
		GROUP BY p.neighborhood
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("get neighborhood stats: %w", err)
	}
	defer rows.Close()

	var out []domain.NeighborhoodStats
	for rows.Next() {
		var s domain.NeighborhoodStats
		err := rows.Scan(&s.Neighborhood, &s.TotalListings,
			&s.AveragePrice, &s.AverageRating, &s.AverageCapacity,
			&s.AverageBedrooms, &s.AverageBathrooms, &s.AverageReviews,
			&s.SuperhostCount, &s.VerifiedCount)
		if err != nil {
			return nil, fmt.Errorf("scan neighborhood stats: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate neighborhood stats: %w", err)
	}
	return out, nil
}

// HostRanking ranks hosts, optionally scoped to one neighborhood.
func (c *Catalog) HostRanking(ctx context.Context, neighborhood string) ([]domain.HostRanking, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT h.id, h.name, h.is_superhost, h.verified, p.neighborhood,
		       COUNT(*), AVG(l.rating), SUM(l.number_of_reviews), AVG(l.price),
		       RANK() OVER (ORDER BY AVG(l.rating) DESC, SUM(l.number_of_reviews) DESC)
		FROM listings l
		JOIN properties p ON p.id = l.property_id
		JOIN hosts h ON h.id = l.host_id
		WHERE ($1 = '' OR p.neighborhood = $1)
		GROUP BY h.id, h.name, h.is_superhost, h.verified, p.neighborhood
		ORDER BY AVG(l.rating) DESC, SUM(l.number_of_reviews) DESC`, neighborhood)
	if err != nil {
		return nil, fmt.Errorf("get host ranking: %w", err)
	}
	defer rows.Close()

	var out []domain.HostRanking
	for rows.Next() {
		var r domain.HostRanking
		err := rows.Scan(&r.HostID, &r.HostName, &r.IsSuperhost, &r.Verified,
			&r.Neighborhood, &r.TotalProperties, &r.AvgRating, &r.TotalReviews,
			&r.AvgPrice, &r.NeighborhoodHostRank)
		if err != nil {
			return nil, fmt.Errorf("scan host ranking: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate host ranking: %w", err)
	}
	return out, nil
}

// TrendingProperties ranks properties by recent review activity.
func (c *Catalog) TrendingProperties(ctx context.Context) ([]domain.TrendingProperty, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT p.id, p.name, p.neighborhood, l.price, l.rating,
		       h.name, h.is_superhost,
		       COUNT(r.id), COUNT(DISTINCT r.user_id),
		       COALESCE(AVG(LENGTH(r.comment)), 0)
		FROM listings l
		JOIN properties p ON p.id = l.property_id
		JOIN hosts h ON h.id = l.host_id
		JOIN reviews r ON r.property_id = p.id
		WHERE r.date >= (SELECT MAX(date) - INTERVAL '90 days' FROM reviews)
		GROUP BY p.id, p.name, p.neighborhood, l.price, l.rating, h.name, h.is_superhost
		ORDER BY COUNT(r.id) DESC
		LIMIT 50`)
	if err != nil {
		return nil, fmt.Errorf("get trending properties: %w", err)
	}
	defer rows.Close()

	var out []domain.TrendingProperty
	for rows.Next() {
		var t domain.TrendingProperty
		err := rows.Scan(&t.PropertyID, &t.PropertyName, &t.Neighborhood,
			&t.Price, &t.Rating, &t.HostName, &t.IsSuperhost,
			&t.RecentReviewsCount, &t.UniqueReviewers, &t.AvgCommentLength)
		if err != nil {
			return nil, fmt.Errorf("scan trending property: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trending properties: %w", err)
	}
	return out, nil
}

// OverviewStats returns dataset-wide totals.
func (c *Catalog) OverviewStats(ctx context.Context) (domain.OverviewStats, error) {
	var s domain.OverviewStats
	err := c.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM properties),
		       (SELECT COUNT(*) FROM hosts),
		       (SELECT COUNT(DISTINCT neighborhood) FROM properties),
		       (SELECT COUNT(*) FROM users),
		       (SELECT COALESCE(AVG(price), 0) FROM listings),
		       (SELECT COALESCE(AVG(rating), 0) FROM listings),
		       (SELECT COUNT(*) FROM hosts WHERE is_superhost),
		       (SELECT COUNT(*) FROM hosts WHERE verified),
		       (SELECT COUNT(*) FROM reviews)`).Scan(
		&s.TotalProperties, &s.TotalHosts, &s.TotalNeighborhoods, &s.TotalUsers,
		&s.OverallAvgPrice, &s.OverallAvgRating,
		&s.TotalSuperhosts, &s.TotalVerifiedHosts, &s.TotalReviews)
	if err != nil {
		return domain.OverviewStats{}, fmt.Errorf("get overview stats: %w", err)
	}
	return s, nil
}

// DensityPoints returns one unit-weight point per listing.
func (c *Catalog) DensityPoints(ctx context.Context) ([]heatmap.Point, error) {
	return c.points(ctx, `
		SELECT p.latitude, p.longitude, 1
		FROM listings l
		JOIN properties p ON p.id = l.property_id`)
}

// PricePoints returns one point per listing weighted by nightly price.
func (c *Catalog) PricePoints(ctx context.Context) ([]heatmap.Point, error) {
	return c.points(ctx, `
		SELECT p.latitude, p.longitude, l.price
		FROM listings l
		JOIN properties p ON p.id = l.property_id`)
}

func (c *Catalog) points(ctx context.Context, query string) ([]heatmap.Point, error) {
	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get heatmap points: %w", err)
	}
	defer rows.Close()

	var out []heatmap.Point
	for rows.Next() {
		var p heatmap.Point
		if err := rows.Scan(&p.Lat, &p.Lng, &p.RawIntensity); err != nil {
			return nil, fmt.Errorf("scan heatmap point: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate heatmap points: %w", err)
	}
	return out, nil
}
