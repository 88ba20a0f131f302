package heatlayer

import (
	"context"
	"errors"
	"testing"

	"github.com/rioscope/rioscope/internal/domain/heatmap"
)

type mockSource struct {
	density      []heatmap.Point
	price        []heatmap.Point
	err          error
	densityCalls int
	priceCalls   int
}

func (m *mockSource) DensityPoints(_ context.Context) ([]heatmap.Point, error) {
	m.densityCalls++
	return m.density, m.err
}

func (m *mockSource) PricePoints(_ context.Context) ([]heatmap.Point, error) {
	m.priceCalls++
	return m.price, m.err
}

func TestLayer_OffByDefault(t *testing.T) {
	layer := New(&mockSource{})
	if layer.Mode() != heatmap.ModeNone {
		t.Fatalf("expected overlay off, got %s", layer.Mode())
	}
	if points, _, _ := layer.Render(); points != nil {
		t.Fatalf("expected nothing to render, got %v", points)
	}
}

func TestLayer_PriceModeNormalizesRelativeToSet(t *testing.T) {
	source := &mockSource{price: []heatmap.Point{
		{Lat: -22.97, Lng: -43.18, RawIntensity: 100},
		{Lat: -22.98, Lng: -43.19, RawIntensity: 300},
		{Lat: -22.99, Lng: -43.20, RawIntensity: 500},
	}}
	layer := New(source)

	if err := layer.SetMode(context.Background(), heatmap.ModePrice); err != nil {
		t.Fatal(err)
	}

	points, gradient, opts := layer.Render()
	if len(points) != 3 {
		t.Fatalf("expected 3 weighted points, got %d", len(points))
	}
	if points[0].Intensity != 0 || points[1].Intensity != 0.5 || points[2].Intensity != 1 {
		t.Fatalf("unexpected intensities: %+v", points)
	}
	if len(gradient) != 5 || gradient[2].Color != "yellow" {
		t.Fatalf("expected the price ramp, got %v", gradient)
	}
	if opts.Radius != 30 || opts.Max != 0.8 {
		t.Fatalf("unexpected layer options: %+v", opts)
	}
}

func TestLayer_DensityModeUniformWeights(t *testing.T) {
	source := &mockSource{density: []heatmap.Point{
		{Lat: 1, Lng: 1, RawIntensity: 7},
		{Lat: 2, Lng: 2, RawIntensity: 99},
	}}
	layer := New(source)

	if err := layer.SetMode(context.Background(), heatmap.ModeDensity); err != nil {
		t.Fatal(err)
	}

	points, gradient, _ := layer.Render()
	for _, p := range points {
		if p.Intensity != 1 {
			t.Fatalf("density weights must be uniform, got %+v", p)
		}
	}
	if gradient[2].Color != "lime" {
		t.Fatalf("expected the density ramp, got %v", gradient)
	}
}

func TestLayer_SameModeIsNoOp(t *testing.T) {
	source := &mockSource{price: []heatmap.Point{{RawIntensity: 1}}}
	layer := New(source)

	if err := layer.SetMode(context.Background(), heatmap.ModePrice); err != nil {
		t.Fatal(err)
	}
	if err := layer.SetMode(context.Background(), heatmap.ModePrice); err != nil {
		t.Fatal(err)
	}
	if source.priceCalls != 1 {
		t.Fatalf("repeated mode must not refetch, got %d calls", source.priceCalls)
	}
}

func TestLayer_FetchFailureKeepsPreviousMode(t *testing.T) {
	source := &mockSource{density: []heatmap.Point{{Lat: 1, Lng: 1}}}
	layer := New(source)

	if err := layer.SetMode(context.Background(), heatmap.ModeDensity); err != nil {
		t.Fatal(err)
	}
	source.err = errors.New("service down")
	if err := layer.SetMode(context.Background(), heatmap.ModePrice); err == nil {
		t.Fatal("expected fetch error to surface")
	}
	if layer.Mode() != heatmap.ModeDensity {
		t.Fatalf("failed switch must keep the previous mode, got %s", layer.Mode())
	}
}

func TestLayer_ToggleBackReusesLoadedSet(t *testing.T) {
	source := &mockSource{
		density: []heatmap.Point{{RawIntensity: 1}},
		price:   []heatmap.Point{{RawIntensity: 2}},
	}
	layer := New(source)

	for _, mode := range []heatmap.Mode{
		heatmap.ModePrice, heatmap.ModeDensity, heatmap.ModePrice, heatmap.ModeNone, heatmap.ModeDensity,
	} {
		if err := layer.SetMode(context.Background(), mode); err != nil {
			t.Fatal(err)
		}
	}
	if source.priceCalls != 1 || source.densityCalls != 1 {
		t.Fatalf("toggling must reuse loaded sets, got price=%d density=%d",
			source.priceCalls, source.densityCalls)
	}
}

func TestLayer_PrimeLoadsBothSetsOnce(t *testing.T) {
	source := &mockSource{
		density: []heatmap.Point{{RawIntensity: 1}},
		price:   []heatmap.Point{{RawIntensity: 2}},
	}
	layer := New(source)

	if err := layer.Prime(context.Background()); err != nil {
		t.Fatal(err)
	}
	if layer.Mode() != heatmap.ModeNone {
		t.Fatal("priming must not turn the overlay on")
	}
	if err := layer.SetMode(context.Background(), heatmap.ModePrice); err != nil {
		t.Fatal(err)
	}
	if source.priceCalls != 1 || source.densityCalls != 1 {
		t.Fatalf("primed sets must be reused, got price=%d density=%d",
			source.priceCalls, source.densityCalls)
	}
}

func TestLayer_UnknownModeRejected(t *testing.T) {
	layer := New(&mockSource{})
	if err := layer.SetMode(context.Background(), heatmap.Mode("plasma")); err == nil {
		t.Fatal("expected unknown mode to be rejected")
	}
}

func TestLayer_NoneClearsWithoutFetch(t *testing.T) {
	source := &mockSource{price: []heatmap.Point{{RawIntensity: 1}}}
	layer := New(source)

	if err := layer.SetMode(context.Background(), heatmap.ModePrice); err != nil {
		t.Fatal(err)
	}
	if err := layer.SetMode(context.Background(), heatmap.ModeNone); err != nil {
		t.Fatal(err)
	}
	if points, _, _ := layer.Render(); points != nil {
		t.Fatalf("expected cleared overlay, got %v", points)
	}
	if source.priceCalls != 1 || source.densityCalls != 0 {
		t.Fatal("switching off must not fetch")
	}
}
