// Package chi exposes the catalog over the REST API the dashboard consumes.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rioscope/rioscope/internal/domain"
	"github.com/rioscope/rioscope/internal/domain/heatmap"
	"github.com/rioscope/rioscope/internal/domain/search"
	healthuc "github.com/rioscope/rioscope/internal/usecase/health"
	statsuc "github.com/rioscope/rioscope/internal/usecase/stats"
)

// Searcher executes search queries, possibly through the result cache.
type Searcher interface {
	Search(ctx context.Context, q search.Query) ([]domain.Listing, error)
}

// Catalog is the detail-read contract the API serves from.
type Catalog interface {
	ListingByID(ctx context.Context, id string) (domain.Listing, error)
	Amenities(ctx context.Context, propertyID string) ([]string, error)
	Availability(ctx context.Context, propertyID string) ([]string, error)
	Reviews(ctx context.Context, propertyID string, offset, minYear int) ([]domain.Review, error)
	HostProfile(ctx context.Context, hostID string) (domain.HostProfile, error)
	HostProperties(ctx context.Context, hostID string, offset int) ([]domain.Listing, error)
	Neighborhoods(ctx context.Context) ([]string, error)
	DensityPoints(ctx context.Context) ([]heatmap.Point, error)
	PricePoints(ctx context.Context) ([]heatmap.Point, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	searcher      Searcher
	catalog       Catalog
	stats         *statsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	searcher Searcher,
	catalog Catalog,
	stats *statsuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		searcher: searcher,
		catalog:  catalog,
		stats:    stats,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrListingNotFound, http.StatusNotFound, "listing_not_found"),
		sentinelHandler(domain.ErrPropertyNotFound, http.StatusNotFound, "property_not_found"),
		sentinelHandler(domain.ErrHostNotFound, http.StatusNotFound, "host_not_found"),
	}
	return s
}

// Routes builds the API router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/listings/search", s.SearchListings)
		r.Get("/listings/{id}", s.GetListing)

		r.Get("/properties/trending", s.GetTrending)
		r.Get("/properties/{id}/amenities", s.GetAmenities)
		r.Get("/properties/{id}/availability", s.GetAvailability)
		r.Get("/properties/{id}/reviews", s.GetReviews)

		r.Get("/hosts/ranking", s.GetHostRanking)
		r.Get("/hosts/{id}/profile", s.GetHostProfile)
		r.Get("/hosts/{id}/properties", s.GetHostProperties)

		r.Get("/neighborhoods", s.GetNeighborhoods)
		r.Get("/neighborhoods/stats", s.GetNeighborhoodStats)

		r.Get("/heatmap/density", s.GetDensityHeatmap)
		r.Get("/heatmap/price", s.GetPriceHeatmap)

		r.Get("/stats/overview", s.GetOverview)
	})

	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	return r
}

// SearchListings handles GET /api/listings/search.
func (s *Server) SearchListings(w http.ResponseWriter, r *http.Request) {
	filters, page, bounds, err := parseSearchParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	q := search.BuildQuery(filters, page, bounds)
	listings, err := s.searcher.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Listings: listingsToDTO(listings),
		HasMore:  len(listings) == q.Page().Limit,
		Limit:    q.Page().Limit,
		Offset:   q.Page().Offset,
	})
}

// GetListing handles GET /api/listings/{id}.
func (s *Server) GetListing(w http.ResponseWriter, r *http.Request) {
	l, err := s.catalog.ListingByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listingToDTO(l))
}

// GetAmenities handles GET /api/properties/{id}/amenities.
func (s *Server) GetAmenities(w http.ResponseWriter, r *http.Request) {
	amenities, err := s.catalog.Amenities(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, amenitiesResponse{Amenities: amenities})
}

// GetAvailability handles GET /api/properties/{id}/availability.
func (s *Server) GetAvailability(w http.ResponseWriter, r *http.Request) {
	dates, err := s.catalog.Availability(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{AvailableDates: dates})
}

// GetReviews handles GET /api/properties/{id}/reviews.
func (s *Server) GetReviews(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	offset, err := intParam(values, "offset")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	minYear, err := intParam(values, "min_year")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	reviews, err := s.catalog.Reviews(r.Context(), chi.URLParam(r, "id"), deref(offset), deref(minYear))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]reviewDTO, len(reviews))
	for i, rev := range reviews {
		items[i] = reviewToDTO(rev)
	}
	writeJSON(w, http.StatusOK, reviewsResponse{
		Reviews: items,
		HasMore: len(reviews) == search.ReviewsPageSize,
	})
}

// GetHostProfile handles GET /api/hosts/{id}/profile.
func (s *Server) GetHostProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.catalog.HostProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hostProfileToDTO(profile))
}

// GetHostProperties handles GET /api/hosts/{id}/properties.
func (s *Server) GetHostProperties(w http.ResponseWriter, r *http.Request) {
	offset, err := intParam(r.URL.Query(), "offset")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	listings, err := s.catalog.HostProperties(r.Context(), chi.URLParam(r, "id"), deref(offset))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hostPropertiesResponse{
		Listings: listingsToDTO(listings),
		HasMore:  len(listings) == search.HostPropertiesPageSize,
	})
}

// GetHostRanking handles GET /api/hosts/ranking.
func (s *Server) GetHostRanking(w http.ResponseWriter, r *http.Request) {
	ranking, err := s.stats.HostRanking(r.Context(), r.URL.Query().Get("neighborhood"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]hostRankingDTO, len(ranking))
	for i, row := range ranking {
		items[i] = hostRankingToDTO(row)
	}
	writeJSON(w, http.StatusOK, items)
}

// GetNeighborhoods handles GET /api/neighborhoods.
func (s *Server) GetNeighborhoods(w http.ResponseWriter, r *http.Request) {
	neighborhoods, err := s.catalog.Neighborhoods(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, neighborhoodsResponse{Neighborhoods: neighborhoods})
}

// GetNeighborhoodStats handles GET /api/neighborhoods/stats.
func (s *Server) GetNeighborhoodStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.Neighborhoods(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]neighborhoodStatsDTO, len(stats))
	for i, row := range stats {
		items[i] = neighborhoodStatsToDTO(row)
	}
	writeJSON(w, http.StatusOK, items)
}

// GetTrending handles GET /api/properties/trending.
func (s *Server) GetTrending(w http.ResponseWriter, r *http.Request) {
	trending, err := s.stats.Trending(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]trendingPropertyDTO, len(trending))
	for i, row := range trending {
		items[i] = trendingToDTO(row)
	}
	writeJSON(w, http.StatusOK, items)
}

// GetOverview handles GET /api/stats/overview.
func (s *Server) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.stats.Overview(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overviewToDTO(overview))
}

// GetDensityHeatmap handles GET /api/heatmap/density.
func (s *Server) GetDensityHeatmap(w http.ResponseWriter, r *http.Request) {
	points, err := s.catalog.DensityPoints(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, heatmapToResponse(points, heatmap.ModeDensity))
}

// GetPriceHeatmap handles GET /api/heatmap/price.
func (s *Server) GetPriceHeatmap(w http.ResponseWriter, r *http.Request) {
	points, err := s.catalog.PricePoints(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, heatmapToResponse(points, heatmap.ModePrice))
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthToResponse(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrListingNotFound,
		domain.ErrPropertyNotFound,
		domain.ErrHostNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
