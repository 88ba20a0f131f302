package search

import (
	"strings"
	"testing"
)

func TestBuildQuery_Empty(t *testing.T) {
	q := BuildQuery(Filters{}, Page{}, nil)

	if got := q.FilterFingerprint(); got != "" {
		t.Errorf("FilterFingerprint() = %q, want empty", got)
	}
	// Default pagination still appears in the full fingerprint.
	if got := q.Fingerprint(); got != "limit=20" {
		t.Errorf("Fingerprint() = %q, want %q", got, "limit=20")
	}
}

func TestBuildQuery_Deterministic(t *testing.T) {
	f := Filters{
		MinPrice:      Float(200),
		MaxPrice:      Float(400),
		Neighborhoods: []string{"Ipanema", "Copacabana"},
		SuperhostOnly: true,
	}
	a := BuildQuery(f, Page{Offset: 20, Limit: 20}, nil)
	b := BuildQuery(f, Page{Offset: 20, Limit: 20}, nil)

	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("repeated builds differ: %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
}

func TestBuildQuery_NeighborhoodOrderIndependent(t *testing.T) {
	a := BuildQuery(Filters{Neighborhoods: []string{"Leblon", "Botafogo", "Copacabana"}}, Page{}, nil)
	b := BuildQuery(Filters{Neighborhoods: []string{"Copacabana", "Leblon", "Botafogo"}}, Page{}, nil)

	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("order-dependent fingerprints: %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
	if !strings.Contains(a.Fingerprint(), "neighborhoods=Botafogo,Copacabana,Leblon") {
		t.Errorf("neighborhoods not sorted: %q", a.Fingerprint())
	}
}

func TestBuildQuery_DeduplicatesNeighborhoods(t *testing.T) {
	q := BuildQuery(Filters{Neighborhoods: []string{"Leme", "Leme", ""}}, Page{}, nil)
	if got := q.FilterFingerprint(); got != "neighborhoods=Leme" {
		t.Errorf("FilterFingerprint() = %q", got)
	}
}

func TestBuildQuery_OmitsUnsetFields(t *testing.T) {
	q := BuildQuery(Filters{MinRating: Float(4.5), SuperhostOnly: false}, Page{}, nil)
	fp := q.Fingerprint()

	for _, absent := range []string{"min_price", "max_price", "superhost_only", "check_in", "min_reviews"} {
		if strings.Contains(fp, absent) {
			t.Errorf("unset field %q present in %q", absent, fp)
		}
	}
	if !strings.Contains(fp, "min_rating=4.5") {
		t.Errorf("min_rating missing from %q", fp)
	}
}

func TestBuildQuery_PaginationClamping(t *testing.T) {
	tests := []struct {
		name string
		in   Page
		want Page
	}{
		{"defaults", Page{}, Page{Offset: 0, Limit: DefaultPageSize}},
		{"clamped to max", Page{Limit: 1000}, Page{Offset: 0, Limit: MaxPageSize}},
		{"negative offset", Page{Offset: -5, Limit: 10}, Page{Offset: 0, Limit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQuery(Filters{}, tt.in, nil).Page(); got != tt.want {
				t.Errorf("Page() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFilterFingerprint_IgnoresPagination(t *testing.T) {
	f := Filters{MinCapacity: Int(4)}
	p0 := BuildQuery(f, Page{Offset: 0, Limit: 20}, nil)
	p3 := BuildQuery(f, Page{Offset: 60, Limit: 20}, nil)

	if p0.FilterFingerprint() != p3.FilterFingerprint() {
		t.Error("pages of the same result set yield different filter fingerprints")
	}
	if p0.Fingerprint() == p3.Fingerprint() {
		t.Error("different pages yield identical full fingerprints")
	}
}

func TestBuildQuery_Bounds(t *testing.T) {
	b := &Bounds{North: -22.9, South: -23.0, East: -43.1, West: -43.3, Zoom: 14}
	q := BuildQuery(Filters{}, Page{}, b)

	fp := q.FilterFingerprint()
	for _, want := range []string{"north=-22.9", "south=-23", "east=-43.1", "west=-43.3", "zoom=14"} {
		if !strings.Contains(fp, want) {
			t.Errorf("bounds param %q missing from %q", want, fp)
		}
	}
	if q.Bounds() == nil || *q.Bounds() != *b {
		t.Errorf("Bounds() = %+v, want %+v", q.Bounds(), b)
	}
}

func TestQuery_Values(t *testing.T) {
	q := BuildQuery(Filters{
		MinPrice:      Float(100),
		Neighborhoods: []string{"Copacabana"},
		CheckIn:       "2025-03-01",
		CheckOut:      "2025-03-08",
	}, Page{Offset: 20, Limit: 20}, nil)

	v := q.Values()
	if v.Get("min_price") != "100" || v.Get("check_in") != "2025-03-01" ||
		v.Get("offset") != "20" || v.Get("neighborhoods") != "Copacabana" {
		t.Errorf("Values() = %v", v)
	}
}

func TestBounds_Contains(t *testing.T) {
	b := Bounds{North: -22.9, South: -23.0, East: -43.1, West: -43.3}
	if !b.Contains(-22.95, -43.2) {
		t.Error("interior point reported outside")
	}
	if b.Contains(-22.8, -43.2) {
		t.Error("point north of the rectangle reported inside")
	}
}

func TestFilters_CloneIsDeep(t *testing.T) {
	f := Filters{MinPrice: Float(50), Neighborhoods: []string{"Gávea"}}
	c := f.Clone()
	*c.MinPrice = 99
	c.Neighborhoods[0] = "Lapa"

	if *f.MinPrice != 50 || f.Neighborhoods[0] != "Gávea" {
		t.Error("Clone shares memory with the original")
	}
}

func TestFilters_IsZero(t *testing.T) {
	if !(Filters{}).IsZero() {
		t.Error("zero value not reported as zero")
	}
	if (Filters{SuperhostOnly: true}).IsZero() {
		t.Error("superhost-only filter reported as zero")
	}
}
