// Package heatlayer manages the heatmap overlay: which mode is active, the
// raw point set behind it, and the normalized weights handed to the renderer.
// Normalization is always relative to the currently displayed set, so the
// same absolute price can render differently under different filters; that
// maximizes contrast for whatever is on screen.
package heatlayer

import (
	"context"
	"fmt"
	"sync"

	"github.com/rioscope/rioscope/internal/domain/heatmap"
)

// PointSource supplies the raw point sets.
type PointSource interface {
	DensityPoints(ctx context.Context) ([]heatmap.Point, error)
	PricePoints(ctx context.Context) ([]heatmap.Point, error)
}

// Layer is the heatmap overlay state. Point sets are static for the life of
// the session, so each mode's set is fetched at most once. Safe for
// concurrent use.
type Layer struct {
	source PointSource

	mu     sync.Mutex
	mode   heatmap.Mode
	loaded map[heatmap.Mode][]heatmap.Point
}

// New creates a layer with the overlay off.
func New(source PointSource) *Layer {
	return &Layer{
		source: source,
		mode:   heatmap.ModeNone,
		loaded: make(map[heatmap.Mode][]heatmap.Point),
	}
}

// Prime fetches both point sets up front. Optional: SetMode fetches lazily,
// but priming at session start means mode toggles never wait on the catalog.
func (l *Layer) Prime(ctx context.Context) error {
	if _, err := l.pointsFor(ctx, heatmap.ModeDensity); err != nil {
		return err
	}
	if _, err := l.pointsFor(ctx, heatmap.ModePrice); err != nil {
		return err
	}
	return nil
}

// SetMode switches the overlay mode. The matching point set is fetched on
// first use and reused after that. ModeNone clears the overlay without a
// fetch. On fetch failure the previous mode stays active.
func (l *Layer) SetMode(ctx context.Context, mode heatmap.Mode) error {
	if !mode.IsValid() {
		return fmt.Errorf("unknown heatmap mode %q", mode)
	}

	l.mu.Lock()
	if mode == l.mode {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	if mode != heatmap.ModeNone {
		if _, err := l.pointsFor(ctx, mode); err != nil {
			return err
		}
	}

	l.mu.Lock()
	l.mode = mode
	l.mu.Unlock()
	return nil
}

// pointsFor returns the cached set for a mode, fetching it once if needed.
func (l *Layer) pointsFor(ctx context.Context, mode heatmap.Mode) ([]heatmap.Point, error) {
	l.mu.Lock()
	if points, ok := l.loaded[mode]; ok {
		l.mu.Unlock()
		return points, nil
	}
	l.mu.Unlock()

	var points []heatmap.Point
	var err error
	switch mode {
	case heatmap.ModeDensity:
		points, err = l.source.DensityPoints(ctx)
	case heatmap.ModePrice:
		points, err = l.source.PricePoints(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s points: %w", mode, err)
	}

	l.mu.Lock()
	l.loaded[mode] = points
	l.mu.Unlock()
	return points, nil
}

// Mode returns the active mode.
func (l *Layer) Mode() heatmap.Mode {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mode
}

// Render normalizes the current point set for drawing, together with the
// mode's gradient and the fixed layer options. Weights are recomputed on
// every call so they always reflect the current set. Nil when the overlay
// is off.
func (l *Layer) Render() ([]heatmap.Weighted, []heatmap.GradientStop, heatmap.LayerOptions) {
	l.mu.Lock()
	mode := l.mode
	points := make([]heatmap.Point, len(l.loaded[mode]))
	copy(points, l.loaded[mode])
	l.mu.Unlock()

	return heatmap.Normalize(points, mode), heatmap.Gradient(mode), heatmap.DefaultLayerOptions()
}
