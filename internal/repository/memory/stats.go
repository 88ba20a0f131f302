package memory

import (
	"context"
	"sort"

	"github.com/rioscope/rioscope/internal/domain"
	"github.com/rioscope/rioscope/internal/domain/heatmap"
)

// The aggregate queries below are the memory rendition of the catalog
// service's server-side statistics. Consumers treat the results as opaque.

// NeighborhoodStats aggregates listings per neighborhood.
func (c *Catalog) NeighborhoodStats(_ context.Context) ([]domain.NeighborhoodStats, error) {
	type acc struct {
		stats                                      domain.NeighborhoodStats
		price, rating, capacity, beds, baths, revs float64
	}
	byHood := map[string]*acc{}

	for _, l := range c.ds.Listings {
		hood := l.Property.Neighborhood
		a, ok := byHood[hood]
		if !ok {
			a = &acc{stats: domain.NeighborhoodStats{Neighborhood: hood}}
			byHood[hood] = a
		}
		a.stats.TotalListings++
		a.price += l.Price
		a.rating += l.Rating
		a.capacity += float64(l.Property.Capacity)
		a.beds += float64(l.Property.Bedrooms)
		a.baths += float64(l.Property.Bathrooms)
		a.revs += float64(l.NumberOfReviews)
		if l.Host.IsSuperhost {
			a.stats.SuperhostCount++
		}
		if l.Host.Verified {
			a.stats.VerifiedCount++
		}
	}

	out := make([]domain.NeighborhoodStats, 0, len(byHood))
	for _, a := range byHood {
		n := float64(a.stats.TotalListings)
		a.stats.AveragePrice = a.price / n
		a.stats.AverageRating = a.rating / n
		a.stats.AverageCapacity = a.capacity / n
		a.stats.AverageBedrooms = a.beds / n
		a.stats.AverageBathrooms = a.baths / n
		a.stats.AverageReviews = a.revs / n
		out = append(out, a.stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalListings > out[j].TotalListings })
	return out, nil
}

// HostRanking ranks hosts by rating then review volume, optionally scoped to
// one neighborhood.
func (c *Catalog) HostRanking(_ context.Context, neighborhood string) ([]domain.HostRanking, error) {
	type acc struct {
		row    domain.HostRanking
		rating float64
		price  float64
	}
	byHost := map[string]*acc{}

	for _, l := range c.ds.Listings {
		if neighborhood != "" && l.Property.Neighborhood != neighborhood {
			continue
		}
		a, ok := byHost[l.HostID]
		if !ok {
			a = &acc{row: domain.HostRanking{
				HostID:       l.HostID,
				HostName:     l.Host.Name,
				IsSuperhost:  l.Host.IsSuperhost,
				Verified:     l.Host.Verified,
				Neighborhood: l.Property.Neighborhood,
			}}
			byHost[l.HostID] = a
		}
		a.row.TotalProperties++
		a.row.TotalReviews += l.NumberOfReviews
		a.rating += l.Rating
		a.price += l.Price
	}

	out := make([]domain.HostRanking, 0, len(byHost))
	for _, a := range byHost {
		n := float64(a.row.TotalProperties)
		a.row.AvgRating = a.rating / n
		a.row.AvgPrice = a.price / n
		out = append(out, a.row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgRating != out[j].AvgRating {
			return out[i].AvgRating > out[j].AvgRating
		}
		return out[i].TotalReviews > out[j].TotalReviews
	})
	for i := range out {
		out[i].NeighborhoodHostRank = i + 1
	}
	return out, nil
}

// TrendingProperties ranks properties by recent review activity.
func (c *Catalog) TrendingProperties(_ context.Context) ([]domain.TrendingProperty, error) {
	var out []domain.TrendingProperty
	for _, l := range c.ds.Listings {
		reviews := c.ds.Reviews[l.PropertyID]
		if len(reviews) == 0 {
			continue
		}
		row := domain.TrendingProperty{
			PropertyID:   l.PropertyID,
			PropertyName: l.Property.Name,
			Neighborhood: l.Property.Neighborhood,
			Price:        l.Price,
			Rating:       l.Rating,
			HostName:     l.Host.Name,
			IsSuperhost:  l.Host.IsSuperhost,
		}
		users := map[string]bool{}
		var commentLen int
		for _, r := range reviews {
			row.RecentReviewsCount++
			users[r.UserID] = true
			commentLen += len(r.Comment)
		}
		row.UniqueReviewers = len(users)
		row.AvgCommentLength = float64(commentLen) / float64(row.RecentReviewsCount)
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RecentReviewsCount != out[j].RecentReviewsCount {
			return out[i].RecentReviewsCount > out[j].RecentReviewsCount
		}
		return out[i].PropertyID < out[j].PropertyID
	})
	return out, nil
}

// OverviewStats returns dataset-wide totals.
func (c *Catalog) OverviewStats(_ context.Context) (domain.OverviewStats, error) {
	var out domain.OverviewStats
	hosts := map[string]domain.Host{}
	hoods := map[string]bool{}
	users := map[string]bool{}
	var priceSum, ratingSum float64

	for _, l := range c.ds.Listings {
		out.TotalProperties++
		hosts[l.HostID] = l.Host
		hoods[l.Property.Neighborhood] = true
		priceSum += l.Price
		ratingSum += l.Rating
		for _, r := range c.ds.Reviews[l.PropertyID] {
			out.TotalReviews++
			users[r.UserID] = true
		}
	}

	out.TotalHosts = len(hosts)
	out.TotalNeighborhoods = len(hoods)
	out.TotalUsers = len(users)
	for _, h := range hosts {
		if h.IsSuperhost {
			out.TotalSuperhosts++
		}
		if h.Verified {
			out.TotalVerifiedHosts++
		}
	}
	if out.TotalProperties > 0 {
		out.OverallAvgPrice = priceSum / float64(out.TotalProperties)
		out.OverallAvgRating = ratingSum / float64(out.TotalProperties)
	}
	return out, nil
}

// DensityPoints returns one unit-weight point per listing.
func (c *Catalog) DensityPoints(_ context.Context) ([]heatmap.Point, error) {
	out := make([]heatmap.Point, 0, len(c.ds.Listings))
	for _, l := range c.ds.Listings {
		out = append(out, heatmap.Point{
			Lat:          l.Property.Latitude,
			Lng:          l.Property.Longitude,
			RawIntensity: 1,
		})
	}
	return out, nil
}

// PricePoints returns one point per listing weighted by nightly price.
func (c *Catalog) PricePoints(_ context.Context) ([]heatmap.Point, error) {
	out := make([]heatmap.Point, 0, len(c.ds.Listings))
	for _, l := range c.ds.Listings {
		out = append(out, heatmap.Point{
			Lat:          l.Property.Latitude,
			Lng:          l.Property.Longitude,
			RawIntensity: l.Price,
		})
	}
	return out, nil
}
