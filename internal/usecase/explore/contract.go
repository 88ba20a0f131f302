package explore

import (
	"context"

	"github.com/rioscope/rioscope/internal/domain"
	"github.com/rioscope/rioscope/internal/domain/search"
)

// Searcher fetches one result page from the listing catalog.
type Searcher interface {
	Search(ctx context.Context, q search.Query) ([]domain.Listing, error)
}
