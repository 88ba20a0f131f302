package chi

import (
	"github.com/rioscope/rioscope/internal/domain"
	"github.com/rioscope/rioscope/internal/domain/heatmap"
	healthuc "github.com/rioscope/rioscope/internal/usecase/health"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type hostDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsSuperhost bool   `json:"is_superhost"`
	Verified    bool   `json:"verified"`
	JoinDate    string `json:"join_date,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

type propertyDTO struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Type         string   `json:"type"`
	Capacity     int      `json:"capacity"`
	Bedrooms     int      `json:"bedrooms"`
	Beds         int      `json:"beds"`
	Bathrooms    int      `json:"bathrooms"`
	Amenities    []string `json:"amenities,omitempty"`
	Neighborhood string   `json:"neighborhood"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`

	TotalAmenities        int  `json:"total_amenities,omitempty"`
	AvailableDaysInPeriod *int `json:"available_days_in_period,omitempty"`
}

type listingDTO struct {
	ID              string      `json:"id"`
	PropertyID      string      `json:"property_id"`
	HostID          string      `json:"host_id"`
	Price           float64     `json:"price"`
	URL             string      `json:"url,omitempty"`
	Rating          float64     `json:"rating"`
	NumberOfReviews int         `json:"number_of_reviews"`
	Property        propertyDTO `json:"property"`
	Host            hostDTO     `json:"host"`

	RankingAmongHostProperties int `json:"ranking_among_host_properties,omitempty"`
	NeighborhoodRanking        int `json:"neighborhood_ranking,omitempty"`
}

type searchResponse struct {
	Listings []listingDTO `json:"listings"`
	HasMore  bool         `json:"has_more"`
	Limit    int          `json:"limit"`
	Offset   int          `json:"offset"`
}

type amenitiesResponse struct {
	Amenities []string `json:"amenities"`
}

type availabilityResponse struct {
	AvailableDates []string `json:"available_dates"`
}

type reviewDTO struct {
	ID               string `json:"id"`
	PropertyID       string `json:"property_id"`
	UserID           string `json:"user_id"`
	UserName         string `json:"user_name"`
	Comment          string `json:"comment"`
	Date             string `json:"date"`
	UserTotalReviews int    `json:"user_total_reviews"`
}

type reviewsResponse struct {
	Reviews []reviewDTO `json:"reviews"`
	HasMore bool        `json:"has_more"`
}

type hostProfileDTO struct {
	hostDTO
	TotalProperties int     `json:"total_properties"`
	AverageRating   float64 `json:"average_rating"`
	TotalReviews    int     `json:"total_reviews"`
}

type hostPropertiesResponse struct {
	Listings []listingDTO `json:"listings"`
	HasMore  bool         `json:"has_more"`
}

type neighborhoodsResponse struct {
	Neighborhoods []string `json:"neighborhoods"`
}

type neighborhoodStatsDTO struct {
	Neighborhood     string  `json:"neighborhood"`
	TotalListings    int     `json:"total_listings"`
	AveragePrice     float64 `json:"average_price"`
	AverageRating    float64 `json:"average_rating"`
	AverageCapacity  float64 `json:"average_capacity"`
	AverageBedrooms  float64 `json:"average_bedrooms"`
	AverageBathrooms float64 `json:"average_bathrooms"`
	AverageReviews   float64 `json:"average_reviews"`
	SuperhostCount   int     `json:"superhost_count"`
	VerifiedCount    int     `json:"verified_count"`
}

type hostRankingDTO struct {
	HostID               string  `json:"host_id"`
	HostName             string  `json:"host_name"`
	IsSuperhost          bool    `json:"is_superhost"`
	Verified             bool    `json:"verified"`
	Neighborhood         string  `json:"neighborhood"`
	TotalProperties      int     `json:"total_properties"`
	AvgRating            float64 `json:"avg_rating"`
	TotalReviews         int     `json:"total_reviews"`
	AvgPrice             float64 `json:"avg_price"`
	NeighborhoodHostRank int     `json:"neighborhood_host_rank"`
}

type trendingPropertyDTO struct {
	PropertyID         string  `json:"property_id"`
	PropertyName       string  `json:"property_name"`
	Neighborhood       string  `json:"neighborhood"`
	Price              float64 `json:"price"`
	Rating             float64 `json:"rating"`
	HostName           string  `json:"host_name"`
	IsSuperhost        bool    `json:"is_superhost"`
	RecentReviewsCount int     `json:"recent_reviews_count"`
	UniqueReviewers    int     `json:"unique_reviewers"`
	AvgCommentLength   float64 `json:"avg_comment_length"`
}

type overviewStatsDTO struct {
	TotalProperties    int     `json:"total_properties"`
	TotalHosts         int     `json:"total_hosts"`
	TotalNeighborhoods int     `json:"total_neighborhoods"`
	TotalUsers         int     `json:"total_users"`
	OverallAvgPrice    float64 `json:"overall_avg_price"`
	OverallAvgRating   float64 `json:"overall_avg_rating"`
	TotalSuperhosts    int     `json:"total_superhosts"`
	TotalVerifiedHosts int     `json:"total_verified_hosts"`
	TotalReviews       int     `json:"total_reviews"`
}

type heatmapPointDTO struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Intensity float64 `json:"intensity"`
}

type gradientStopDTO struct {
	At    float64 `json:"at"`
	Color string  `json:"color"`
}

type layerOptionsDTO struct {
	Radius     int     `json:"radius"`
	Blur       int     `json:"blur"`
	MaxZoom    int     `json:"max_zoom"`
	Max        float64 `json:"max"`
	MinOpacity float64 `json:"min_opacity"`
}

type heatmapResponse struct {
	Points   []heatmapPointDTO `json:"points"`
	Gradient []gradientStopDTO `json:"gradient"`
	Options  layerOptionsDTO   `json:"options"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func hostToDTO(h domain.Host) hostDTO {
	return hostDTO{
		ID:          h.ID,
		Name:        h.Name,
		IsSuperhost: h.IsSuperhost,
		Verified:    h.Verified,
		JoinDate:    h.JoinDate,
		URL:         h.URL,
		Description: h.Description,
		Location:    h.Location,
	}
}

func propertyToDTO(p domain.Property) propertyDTO {
	dto := propertyDTO{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Type:           string(p.Type),
		Capacity:       p.Capacity,
		Bedrooms:       p.Bedrooms,
		Beds:           p.Beds,
		Bathrooms:      p.Bathrooms,
		Amenities:      p.Amenities,
		Neighborhood:   p.Neighborhood,
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		TotalAmenities: p.TotalAmenities,
	}
	if p.HasAvailabilityDetails {
		days := p.AvailableDaysInPeriod
		dto.AvailableDaysInPeriod = &days
	}
	return dto
}

func listingToDTO(l domain.Listing) listingDTO {
	return listingDTO{
		ID:              l.ID,
		PropertyID:      l.PropertyID,
		HostID:          l.HostID,
		Price:           l.Price,
		URL:             l.URL,
		Rating:          l.Rating,
		NumberOfReviews: l.NumberOfReviews,
		Property:        propertyToDTO(l.Property),
		Host:            hostToDTO(l.Host),

		RankingAmongHostProperties: l.RankingAmongHostProperties,
		NeighborhoodRanking:        l.NeighborhoodRanking,
	}
}

func listingsToDTO(listings []domain.Listing) []listingDTO {
	out := make([]listingDTO, len(listings))
	for i, l := range listings {
		out[i] = listingToDTO(l)
	}
	return out
}

func reviewToDTO(r domain.Review) reviewDTO {
	return reviewDTO{
		ID:               r.ID,
		PropertyID:       r.PropertyID,
		UserID:           r.UserID,
		UserName:         r.UserName,
		Comment:          r.Comment,
		Date:             r.Date,
		UserTotalReviews: r.UserTotalReviews,
	}
}

func hostProfileToDTO(p domain.HostProfile) hostProfileDTO {
	return hostProfileDTO{
		hostDTO:         hostToDTO(p.Host),
		TotalProperties: p.TotalProperties,
		AverageRating:   p.AverageRating,
		TotalReviews:    p.TotalReviews,
	}
}

func neighborhoodStatsToDTO(s domain.NeighborhoodStats) neighborhoodStatsDTO {
	return neighborhoodStatsDTO{
		Neighborhood:     s.Neighborhood,
		TotalListings:    s.TotalListings,
		AveragePrice:     s.AveragePrice,
		AverageRating:    s.AverageRating,
		AverageCapacity:  s.AverageCapacity,
		AverageBedrooms:  s.AverageBedrooms,
		AverageBathrooms: s.AverageBathrooms,
		AverageReviews:   s.AverageReviews,
		SuperhostCount:   s.SuperhostCount,
		VerifiedCount:    s.VerifiedCount,
	}
}

func hostRankingToDTO(r domain.HostRanking) hostRankingDTO {
	return hostRankingDTO{
		HostID:               r.HostID,
		HostName:             r.HostName,
		IsSuperhost:          r.IsSuperhost,
		Verified:             r.Verified,
		Neighborhood:         r.Neighborhood,
		TotalProperties:      r.TotalProperties,
		AvgRating:            r.AvgRating,
		TotalReviews:         r.TotalReviews,
		AvgPrice:             r.AvgPrice,
		NeighborhoodHostRank: r.NeighborhoodHostRank,
	}
}

func trendingToDTO(p domain.TrendingProperty) trendingPropertyDTO {
	return trendingPropertyDTO{
		PropertyID:         p.PropertyID,
		PropertyName:       p.PropertyName,
		Neighborhood:       p.Neighborhood,
		Price:              p.Price,
		Rating:             p.Rating,
		HostName:           p.HostName,
		IsSuperhost:        p.IsSuperhost,
		RecentReviewsCount: p.RecentReviewsCount,
		UniqueReviewers:    p.UniqueReviewers,
		AvgCommentLength:   p.AvgCommentLength,
	}
}

func overviewToDTO(s domain.OverviewStats) overviewStatsDTO {
	return overviewStatsDTO{
		TotalProperties:    s.TotalProperties,
		TotalHosts:         s.TotalHosts,
		TotalNeighborhoods: s.TotalNeighborhoods,
		TotalUsers:         s.TotalUsers,
		OverallAvgPrice:    s.OverallAvgPrice,
		OverallAvgRating:   s.OverallAvgRating,
		TotalSuperhosts:    s.TotalSuperhosts,
		TotalVerifiedHosts: s.TotalVerifiedHosts,
		TotalReviews:       s.TotalReviews,
	}
}

func heatmapToResponse(points []heatmap.Point, mode heatmap.Mode) heatmapResponse {
	dtoPoints := make([]heatmapPointDTO, len(points))
	for i, p := range points {
		dtoPoints[i] = heatmapPointDTO{Lat: p.Lat, Lng: p.Lng, Intensity: p.RawIntensity}
	}

	gradient := heatmap.Gradient(mode)
	stops := make([]gradientStopDTO, len(gradient))
	for i, g := range gradient {
		stops[i] = gradientStopDTO{At: g.At, Color: g.Color}
	}

	opts := heatmap.DefaultLayerOptions()
	return heatmapResponse{
		Points:   dtoPoints,
		Gradient: stops,
		Options: layerOptionsDTO{
			Radius:     opts.Radius,
			Blur:       opts.Blur,
			MaxZoom:    opts.MaxZoom,
			Max:        opts.Max,
			MinOpacity: opts.MinOpacity,
		},
	}
}

func healthToResponse(report healthuc.Report) healthResponse {
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return healthResponse{Status: string(report.Status), Checks: checks}
}
