// Package heatmap turns raw weighted geo-points into render-ready intensities.
package heatmap

// Mode selects which heat layer is shown.
type Mode string

// Heat layer modes.
const (
	ModeNone    Mode = "none"
	ModeDensity Mode = "density"
	ModePrice   Mode = "price"
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return m == ModeNone || m == ModeDensity || m == ModePrice
}

// Point is a raw weighted geo-point from the catalog. RawIntensity carries the
// listing count for density points and the price for price points.
type Point struct {
	Lat          float64
	Lng          float64
	RawIntensity float64
}

// Weighted is a normalized render triple with Intensity in [0,1].
type Weighted struct {
	Lat       float64
	Lng       float64
	Intensity float64
}

// degenerateIntensity is used when every point carries the same raw value;
// dividing by a zero span is never an option.
const degenerateIntensity = 0.5

// Normalize rescales the point set to [0,1] intensities for rendering.
//
// Density mode passes every point through at full weight: the geographic
// clustering itself produces the visual density. Price mode rescales each
// point relative to the min/max of this set only, so the same absolute price
// can render a different color under a different filter selection. That is
// intentional: contrast is maximized for whatever is currently visible.
func Normalize(points []Point, mode Mode) []Weighted {
	if len(points) == 0 || mode == ModeNone {
		return nil
	}

	out := make([]Weighted, 0, len(points))

	if mode == ModeDensity {
		for _, p := range points {
			out = append(out, Weighted{Lat: p.Lat, Lng: p.Lng, Intensity: 1})
		}
		return out
	}

	lo, hi := points[0].RawIntensity, points[0].RawIntensity
	for _, p := range points[1:] {
		if p.RawIntensity < lo {
			lo = p.RawIntensity
		}
		if p.RawIntensity > hi {
			hi = p.RawIntensity
		}
	}

	for _, p := range points {
		intensity := degenerateIntensity
		if hi > lo {
			intensity = (p.RawIntensity - lo) / (hi - lo)
		}
		out = append(out, Weighted{Lat: p.Lat, Lng: p.Lng, Intensity: intensity})
	}
	return out
}

// GradientStop pairs a normalized position with a CSS color.
type GradientStop struct {
	At    float64
	Color string
}

// Gradient returns the fixed 5-stop color ramp for a mode. Stops are not
// user-configurable.
func Gradient(mode Mode) []GradientStop {
	switch mode {
	case ModePrice:
		return []GradientStop{
			{At: 0.0, Color: "blue"},
			{At: 0.3, Color: "cyan"},
			{At: 0.5, Color: "yellow"},
			{At: 0.7, Color: "orange"},
			{At: 1.0, Color: "red"},
		}
	case ModeDensity:
		return []GradientStop{
			{At: 0.0, Color: "blue"},
			{At: 0.3, Color: "cyan"},
			{At: 0.5, Color: "lime"},
			{At: 0.7, Color: "yellow"},
			{At: 1.0, Color: "red"},
		}
	default:
		return nil
	}
}

// LayerOptions are the fixed rendering parameters of the heat layer.
type LayerOptions struct {
	Radius     int
	Blur       int
	MaxZoom    int
	Max        float64
	MinOpacity float64
}

// DefaultLayerOptions returns the tuned rendering parameters. Max below 1.0
// saturates the ramp earlier for stronger colors.
func DefaultLayerOptions() LayerOptions {
	return LayerOptions{Radius: 30, Blur: 25, MaxZoom: 17, Max: 0.8, MinOpacity: 0.4}
}
