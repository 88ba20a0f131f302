package domain

// Aggregate statistics are computed by the catalog service and passed through
// to presentation untouched. Nothing in this package recomputes them.

// NeighborhoodStats aggregates listings per neighborhood.
type NeighborhoodStats struct {
	Neighborhood     string
	TotalListings    int
	AveragePrice     float64
	AverageRating    float64
	AverageCapacity  float64
	AverageBedrooms  float64
	AverageBathrooms float64
	AverageReviews   float64
	SuperhostCount   int
	VerifiedCount    int
}

// OverviewStats holds dataset-wide totals.
type OverviewStats struct {
	TotalProperties    int
	TotalHosts         int
	TotalNeighborhoods int
	TotalUsers         int
	OverallAvgPrice    float64
	OverallAvgRating   float64
	TotalSuperhosts    int
	TotalVerifiedHosts int
	TotalReviews       int
}

// HostRanking is one row of the per-neighborhood host leaderboard.
type HostRanking struct {
	HostID               string
	HostName             string
	IsSuperhost          bool
	Verified             bool
	Neighborhood         string
	TotalProperties      int
	AvgRating            float64
	TotalReviews         int
	AvgPrice             float64
	NeighborhoodHostRank int
}

// TrendingProperty is one row of the recently-most-reviewed ranking.
type TrendingProperty struct {
	PropertyID         string
	PropertyName       string
	Neighborhood       string
	Price              float64
	Rating             float64
	HostName           string
	IsSuperhost        bool
	RecentReviewsCount int
	UniqueReviewers    int
	AvgCommentLength   float64
}
