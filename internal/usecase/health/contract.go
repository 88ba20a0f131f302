package health

import "context"

// CatalogPinger checks listing catalog availability.
type CatalogPinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks search cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
