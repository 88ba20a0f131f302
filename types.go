package rioscope

import (
	"github.com/rioscope/rioscope/internal/domain"
	"github.com/rioscope/rioscope/internal/domain/heatmap"
	"github.com/rioscope/rioscope/internal/domain/search"
	exploreuc "github.com/rioscope/rioscope/internal/usecase/explore"
	navuc "github.com/rioscope/rioscope/internal/usecase/nav"
	viewportuc "github.com/rioscope/rioscope/internal/usecase/viewport"
)

// Re-exported domain types, so embedders never import internal packages.
type (
	Listing           = domain.Listing
	Property          = domain.Property
	Host              = domain.Host
	HostProfile       = domain.HostProfile
	Review            = domain.Review
	NeighborhoodStats = domain.NeighborhoodStats
	HostRanking       = domain.HostRanking
	TrendingProperty  = domain.TrendingProperty
	OverviewStats     = domain.OverviewStats
)

// Search model.
type (
	Filters = search.Filters
	Bounds  = search.Bounds

	// ExploreState is a snapshot of the session's result set.
	ExploreState = exploreuc.State
)

// Navigation and map.
type (
	View     = navuc.View
	ViewKind = navuc.ViewKind
	Marker   = viewportuc.Marker
)

// View kinds.
const (
	ViewSearch      = navuc.ViewSearch
	ViewProperty    = navuc.ViewProperty
	ViewHostProfile = navuc.ViewHostProfile
)

// HeatmapMode selects the map overlay: none, density, or price.
type HeatmapMode = heatmap.Mode

// Heatmap modes.
const (
	HeatmapNone    = heatmap.ModeNone
	HeatmapDensity = heatmap.ModeDensity
	HeatmapPrice   = heatmap.ModePrice
)
