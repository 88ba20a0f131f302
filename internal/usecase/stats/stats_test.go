package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/rioscope/rioscope/internal/domain"
)

type mockReader struct {
	neighborhoodCalls int
	hostCalls         []string
	overviewCalls     int
	err               error
}

func (m *mockReader) NeighborhoodStats(_ context.Context) ([]domain.NeighborhoodStats, error) {
	m.neighborhoodCalls++
	if m.err != nil {
		return nil, m.err
	}
	return []domain.NeighborhoodStats{
		{Neighborhood: "Copacabana", TotalListings: 40},
		{Neighborhood: "Ipanema", TotalListings: 25},
	}, nil
}

func (m *mockReader) HostRanking(_ context.Context, neighborhood string) ([]domain.HostRanking, error) {
	m.hostCalls = append(m.hostCalls, neighborhood)
	return []domain.HostRanking{{HostID: "h1", Neighborhood: neighborhood}}, nil
}

func (m *mockReader) TrendingProperties(_ context.Context) ([]domain.TrendingProperty, error) {
	return []domain.TrendingProperty{{PropertyID: "p1"}}, nil
}

func (m *mockReader) OverviewStats(_ context.Context) (domain.OverviewStats, error) {
	m.overviewCalls++
	return domain.OverviewStats{TotalProperties: 120}, nil
}

func newService(t *testing.T, reader Reader) *Service {
	t.Helper()
	s, err := New(reader)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestService_PassesAggregatesThroughUnchanged(t *testing.T) {
	s := newService(t, &mockReader{})

	stats, err := s.Neighborhoods(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// Catalog ordering is authoritative; nothing re-sorts here.
	if len(stats) != 2 || stats[0].Neighborhood != "Copacabana" {
		t.Fatalf("aggregates altered in transit: %+v", stats)
	}

	overview, err := s.Overview(context.Background())
	if err != nil || overview.TotalProperties != 120 {
		t.Fatalf("overview: %+v %v", overview, err)
	}
}

func TestService_CachesRepeatedReads(t *testing.T) {
	reader := &mockReader{}
	s := newService(t, reader)

	for i := 0; i < 3; i++ {
		if _, err := s.Neighborhoods(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if reader.neighborhoodCalls != 1 {
		t.Fatalf("expected 1 catalog read, got %d", reader.neighborhoodCalls)
	}
}

func TestService_HostRankingScopedPerNeighborhood(t *testing.T) {
	reader := &mockReader{}
	s := newService(t, reader)

	if _, err := s.HostRanking(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.HostRanking(context.Background(), "Leblon"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.HostRanking(context.Background(), "Leblon"); err != nil {
		t.Fatal(err)
	}

	if len(reader.hostCalls) != 2 {
		t.Fatalf("expected one read per scope, got %v", reader.hostCalls)
	}
}

func TestService_ErrorsNotCached(t *testing.T) {
	reader := &mockReader{err: errors.New("catalog down")}
	s := newService(t, reader)

	if _, err := s.Neighborhoods(context.Background()); err == nil {
		t.Fatal("expected error to surface")
	}

	reader.err = nil
	stats, err := s.Neighborhoods(context.Background())
	if err != nil || len(stats) != 2 {
		t.Fatalf("retry after failure must refetch: %v %v", stats, err)
	}
	if reader.neighborhoodCalls != 2 {
		t.Fatalf("expected 2 reads, got %d", reader.neighborhoodCalls)
	}
}
