package rioscope

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rioscope/rioscope/internal/domain"
	"github.com/rioscope/rioscope/internal/domain/heatmap"
	"github.com/rioscope/rioscope/internal/domain/search"
	"github.com/rioscope/rioscope/internal/repository/memory"
	"github.com/rioscope/rioscope/internal/repository/postgres"
	detailuc "github.com/rioscope/rioscope/internal/usecase/detail"
	exploreuc "github.com/rioscope/rioscope/internal/usecase/explore"
	heatuc "github.com/rioscope/rioscope/internal/usecase/heatlayer"
	navuc "github.com/rioscope/rioscope/internal/usecase/nav"
	statsuc "github.com/rioscope/rioscope/internal/usecase/stats"
	viewportuc "github.com/rioscope/rioscope/internal/usecase/viewport"
)

// DefaultYear is the year the bundled Rio dataset covers. Availability
// calendars treat dates outside it as unavailable.
const DefaultYear = 2025

// Catalog is the data source a Session explores. Both the in-memory fixture
// and the Postgres repository satisfy it.
type Catalog interface {
	Search(ctx context.Context, q search.Query) ([]domain.Listing, error)
	ListingByID(ctx context.Context, id string) (domain.Listing, error)
	Neighborhoods(ctx context.Context) ([]string, error)

	Amenities(ctx context.Context, propertyID string) ([]string, error)
	Availability(ctx context.Context, propertyID string) ([]string, error)
	Reviews(ctx context.Context, propertyID string, offset, minYear int) ([]domain.Review, error)
	HostProfile(ctx context.Context, hostID string) (domain.HostProfile, error)
	HostProperties(ctx context.Context, hostID string, offset int) ([]domain.Listing, error)

	DensityPoints(ctx context.Context) ([]heatmap.Point, error)
	PricePoints(ctx context.Context) ([]heatmap.Point, error)

	NeighborhoodStats(ctx context.Context) ([]domain.NeighborhoodStats, error)
	HostRanking(ctx context.Context, neighborhood string) ([]domain.HostRanking, error)
	TrendingProperties(ctx context.Context) ([]domain.TrendingProperty, error)
	OverviewStats(ctx context.Context) (domain.OverviewStats, error)
}

// Session is the rioscope entry point: one user's exploration of the catalog.
// It owns the search result set, the view stack, the map bridge, the heatmap
// layer, and the per-entity detail loaders.
type Session struct {
	catalog Catalog
	logger  *zap.Logger

	coord   *exploreuc.Coordinator
	stack   *navuc.Stack
	bridge  *viewportuc.Bridge
	heat    *heatuc.Layer
	loaders *detailuc.Loaders
	stats   *statsuc.Service

	closeCatalog func()
}

// New creates a Session. Without a catalog option it runs on the built-in
// demo fixture, so New(ctx) alone gives a working session.
func New(ctx context.Context, opts ...Option) (*Session, error) {
	cfg := &sessionConfig{year: DefaultYear}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	s := &Session{logger: cfg.logger}

	switch {
	case cfg.catalog != nil:
		s.catalog = cfg.catalog
	case cfg.postgresDSN != "":
		cat, err := postgres.New(ctx, cfg.postgresDSN)
		if err != nil {
			return nil, fmt.Errorf("rioscope: connect catalog: %w", err)
		}
		s.catalog = cat
		s.closeCatalog = cat.Close
	default:
		s.catalog = memory.New(memory.Fixture())
	}

	statsSvc, err := statsuc.New(s.catalog)
	if err != nil {
		if s.closeCatalog != nil {
			s.closeCatalog()
		}
		return nil, fmt.Errorf("rioscope: init stats: %w", err)
	}

	s.coord = exploreuc.New(s.catalog, cfg.logger, exploreuc.Options{
		PageSize:      cfg.pageSize,
		BoundsQueries: cfg.boundsQueries,
	})
	s.stack = navuc.New(navuc.Options{DeselectOnBackgroundClick: cfg.deselect})
	s.bridge = viewportuc.New(s.coord, s.stack)
	s.heat = heatuc.New(s.catalog)
	s.loaders = detailuc.NewLoaders(s.catalog, cfg.year, cfg.logger)
	s.stats = statsSvc

	return s, nil
}

// Start issues the initial unfiltered page fetch, primes the heatmap point
// sets, and returns the session token. Calling it again returns the same
// token without refetching. A failed prime only logs: the overlay retries
// on first SetMode.
func (s *Session) Start(ctx context.Context) string {
	token := s.coord.Start(ctx)
	if err := s.heat.Prime(ctx); err != nil {
		s.logger.Warn("Heatmap prime failed", zap.Error(err))
	}
	return token
}

// Explore is the search coordinator: filters, pagination, viewport scoping.
func (s *Session) Explore() *exploreuc.Coordinator { return s.coord }

// Nav is the view stack: search, property, host profile.
func (s *Session) Nav() *navuc.Stack { return s.stack }

// Map bridges map interactions to search and navigation state.
func (s *Session) Map() *viewportuc.Bridge { return s.bridge }

// Heatmap is the density/price overlay layer.
func (s *Session) Heatmap() *heatuc.Layer { return s.heat }

// Details holds the per-entity loaders: amenities, calendar, reviews, host.
func (s *Session) Details() *detailuc.Loaders { return s.loaders }

// Stats serves the cached analytics panels.
func (s *Session) Stats() *statsuc.Service { return s.stats }

// Listing fetches one listing by ID.
func (s *Session) Listing(ctx context.Context, id string) (domain.Listing, error) {
	return s.catalog.ListingByID(ctx, id)
}

// Neighborhoods lists the neighborhood names available to filter on.
func (s *Session) Neighborhoods(ctx context.Context) ([]string, error) {
	return s.catalog.Neighborhoods(ctx)
}

// Close waits for in-flight fetches and releases catalog resources.
func (s *Session) Close() {
	s.coord.Wait()
	s.stats.Close()
	if s.closeCatalog != nil {
		s.closeCatalog()
	}
}
