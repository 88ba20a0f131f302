package heatmap

import "testing"

func TestNormalize_PriceBounds(t *testing.T) {
	points := []Point{
		{Lat: -22.97, Lng: -43.18, RawIntensity: 150},
		{Lat: -22.98, Lng: -43.19, RawIntensity: 800},
		{Lat: -22.99, Lng: -43.20, RawIntensity: 425},
	}

	out := Normalize(points, ModePrice)
	if len(out) != len(points) {
		t.Fatalf("len = %d, want %d", len(out), len(points))
	}
	for i, w := range out {
		if w.Intensity < 0 || w.Intensity > 1 {
			t.Errorf("point %d intensity %v outside [0,1]", i, w.Intensity)
		}
	}
	if out[0].Intensity != 0 {
		t.Errorf("min point intensity = %v, want 0", out[0].Intensity)
	}
	if out[1].Intensity != 1 {
		t.Errorf("max point intensity = %v, want 1", out[1].Intensity)
	}
}

func TestNormalize_DegenerateSpan(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{"single point", []Point{{RawIntensity: 300}}},
		{"all equal", []Point{{RawIntensity: 300}, {RawIntensity: 300}, {RawIntensity: 300}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, w := range Normalize(tt.points, ModePrice) {
				if w.Intensity != 0.5 {
					t.Errorf("point %d intensity = %v, want 0.5", i, w.Intensity)
				}
			}
		})
	}
}

func TestNormalize_DensityUniform(t *testing.T) {
	points := []Point{{RawIntensity: 1}, {RawIntensity: 40}, {RawIntensity: 7}}
	for i, w := range Normalize(points, ModeDensity) {
		if w.Intensity != 1 {
			t.Errorf("point %d intensity = %v, want 1", i, w.Intensity)
		}
	}
}

func TestNormalize_Empty(t *testing.T) {
	if out := Normalize(nil, ModePrice); out != nil {
		t.Errorf("Normalize(nil) = %v, want nil", out)
	}
	if out := Normalize([]Point{{RawIntensity: 2}}, ModeNone); out != nil {
		t.Errorf("Normalize(_, ModeNone) = %v, want nil", out)
	}
}

func TestNormalize_PreservesCoordinates(t *testing.T) {
	points := []Point{{Lat: -22.9068, Lng: -43.1729, RawIntensity: 10}, {Lat: -22.95, Lng: -43.21, RawIntensity: 90}}
	out := Normalize(points, ModePrice)
	for i := range points {
		if out[i].Lat != points[i].Lat || out[i].Lng != points[i].Lng {
			t.Errorf("point %d coordinates changed: %+v", i, out[i])
		}
	}
}

func TestGradient_ModeSpecific(t *testing.T) {
	price := Gradient(ModePrice)
	density := Gradient(ModeDensity)

	if len(price) != 5 || len(density) != 5 {
		t.Fatalf("gradient stop counts = %d, %d, want 5", len(price), len(density))
	}
	if price[2].Color != "yellow" || density[2].Color != "lime" {
		t.Errorf("mid stops = %q, %q", price[2].Color, density[2].Color)
	}
	if price[0].Color != "blue" || price[4].Color != "red" {
		t.Errorf("price ramp endpoints = %q..%q", price[0].Color, price[4].Color)
	}
	if Gradient(ModeNone) != nil {
		t.Error("ModeNone should have no gradient")
	}
}

func TestMode_IsValid(t *testing.T) {
	for _, m := range []Mode{ModeNone, ModeDensity, ModePrice} {
		if !m.IsValid() {
			t.Errorf("%q reported invalid", m)
		}
	}
	if Mode("satellite").IsValid() {
		t.Error("unknown mode reported valid")
	}
}
