package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rioscope/rioscope/internal/domain"
	"github.com/rioscope/rioscope/internal/domain/search"
)

// Search runs the unified listing query: every active predicate, relevance
// ordering (rating desc, review count desc), then offset/limit.
func (c *Catalog) Search(ctx context.Context, q search.Query) ([]domain.Listing, error) {
	f := q.Filters()
	b := q.Bounds()

	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.MinPrice != nil {
		where = append(where, "l.price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		where = append(where, "l.price <= "+arg(*f.MaxPrice))
	}
	if hoods := f.Neighborhoods; len(hoods) > 0 {
		where = append(where, "p.neighborhood = ANY("+arg(hoods)+")")
	}
	if f.MinRating != nil {
		where = append(where, "l.rating >= "+arg(*f.MinRating))
	}
	if f.MinCapacity != nil {
		where = append(where, "p.capacity >= "+arg(*f.MinCapacity))
	}
	if f.MinReviews != nil {
		where = append(where, "l.number_of_reviews >= "+arg(*f.MinReviews))
	}
	if f.SuperhostOnly {
		where = append(where, "h.is_superhost")
	}
	if b != nil {
		where = append(where, "p.latitude BETWEEN "+arg(b.South)+" AND "+arg(b.North))
		where = append(where, "p.longitude BETWEEN "+arg(b.West)+" AND "+arg(b.East))
	}

	join := ""
	cols := listingColumns
	if f.HasAvailabilityWindow() {
		minDays := 1
		if f.MinAvailableDays != nil {
			minDays = *f.MinAvailableDays
		}
		join = fmt.Sprintf(`
		JOIN LATERAL (
			SELECT COUNT(*) AS available_days
			FROM calendar c
			WHERE c.property_id = p.id
			  AND c.available
			  AND c.date >= %s AND c.date < %s
		) av ON av.available_days >= %s`,
			arg(f.CheckIn), arg(f.CheckOut), arg(minDays))
		cols += `,
	av.available_days,
	(SELECT COUNT(*) FROM property_amenities pa WHERE pa.property_id = p.id)`
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM listings l
		JOIN properties p ON p.id = l.property_id
		JOIN hosts h ON h.id = l.host_id
		%s`, cols, join)
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY l.rating DESC, l.number_of_reviews DESC, p.id"
	query += "\n\t\tLIMIT " + arg(q.Page().Limit) + " OFFSET " + arg(q.Page().Offset)

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}

	if !f.HasAvailabilityWindow() {
		return collectListings(rows)
	}
	return collectListingsWithAvailability(rows)
}

func collectListingsWithAvailability(rows pgx.Rows) ([]domain.Listing, error) {
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		var (
			l     domain.Listing
			ptype string
		)
		err := rows.Scan(
			&l.Property.ID, &l.Property.Name, &l.Property.Description, &ptype,
			&l.Property.Capacity, &l.Property.Bedrooms, &l.Property.Beds,
			&l.Property.Bathrooms, &l.Property.Neighborhood,
			&l.Property.Latitude, &l.Property.Longitude,
			&l.Price, &l.URL, &l.Rating, &l.NumberOfReviews,
			&l.Host.ID, &l.Host.Name, &l.Host.IsSuperhost, &l.Host.Verified, &l.Host.JoinDate,
			&l.RankingAmongHostProperties, &l.NeighborhoodRanking,
			&l.Property.AvailableDaysInPeriod, &l.Property.TotalAmenities,
		)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		l.Property.Type = domain.ParsePropertyType(ptype)
		l.ID = l.Property.ID
		l.PropertyID = l.Property.ID
		l.HostID = l.Host.ID
		l.Property.HasAvailabilityDetails = true
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return out, nil
}

// ListingByID fetches one listing by its property id.
func (c *Catalog) ListingByID(ctx context.Context, id string) (domain.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM listings l
		JOIN properties p ON p.id = l.property_id
		JOIN hosts h ON h.id = l.host_id
		WHERE p.id = $1`, listingColumns)

	rows, err := c.pool.Query(ctx, query, id)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	listings, err := collectListings(rows)
	if err != nil {
		return domain.Listing{}, err
	}
	if len(listings) == 0 {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return listings[0], nil
}
