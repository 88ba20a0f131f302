// Package postgres implements the listing catalog over a Postgres database
// using pgx. Rankings and aggregates are computed in SQL; consumers treat
// them as opaque.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rioscope/rioscope/internal/domain"
)

// Catalog serves catalog queries from Postgres.
type Catalog struct {
	pool *pgxpool.Pool
}

// New connects a pgx pool and verifies connectivity.
func New(ctx context.Context, dsn string) (*Catalog, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Catalog{pool: pool}, nil
}

// Close releases the connection pool.
func (c *Catalog) Close() {
	c.pool.Close()
}

// Ping checks database connectivity for health reporting.
func (c *Catalog) Ping(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// listingColumns is the shared projection of the listing search queries.
const listingColumns = `
	p.id, p.name, COALESCE(p.description, ''), p.type, p.capacity, p.bedrooms,
	p.beds, p.bathrooms, p.neighborhood, p.latitude, p.longitude,
	l.price, l.url, l.rating, l.number_of_reviews,
	h.id, h.name, h.is_superhost, h.verified, COALESCE(h.join_date::text, ''),
	COALESCE(l.ranking_among_host_properties, 0),
	COALESCE(l.neighborhood_ranking, 0)`

func scanListing(row pgx.Rows) (domain.Listing, error) {
	var (
		l     domain.Listing
		ptype string
	)
	err := row.Scan(
		&l.Property.ID, &l.Property.Name, &l.Property.Description, &ptype,
		&l.Property.Capacity, &l.Property.Bedrooms, &l.Property.Beds,
		&l.Property.Bathrooms, &l.Property.Neighborhood,
		&l.Property.Latitude, &l.Property.Longitude,
		&l.Price, &l.URL, &l.Rating, &l.NumberOfReviews,
		&l.Host.ID, &l.Host.Name, &l.Host.IsSuperhost, &l.Host.Verified, &l.Host.JoinDate,
		&l.RankingAmongHostProperties, &l.NeighborhoodRanking,
	)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("scan listing: %w", err)
	}
	l.Property.Type = domain.ParsePropertyType(ptype)
	l.ID = l.Property.ID
	l.PropertyID = l.Property.ID
	l.HostID = l.Host.ID
	return l, nil
}

func collectListings(rows pgx.Rows) ([]domain.Listing, error) {
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return out, nil
}

// notFound translates pgx.ErrNoRows into the given domain sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	return err
}
