package rioscope

import (
	"go.uber.org/zap"
)

// Option configures a Session.
type Option interface {
	apply(*sessionConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*sessionConfig)

func (f optionFunc) apply(c *sessionConfig) { f(c) }

type sessionConfig struct {
	catalog     Catalog
	postgresDSN string

	pageSize      int
	boundsQueries bool
	deselect      *bool
	year          int

	logger *zap.Logger
}

// WithCatalog serves the session from the given catalog. Without a catalog
// option the session runs on the built-in demo fixture.
func WithCatalog(c Catalog) Option {
	return optionFunc(func(cfg *sessionConfig) {
		cfg.catalog = c
	})
}

// WithPostgres serves the session from a Postgres catalog.
func WithPostgres(dsn string) Option {
	return optionFunc(func(cfg *sessionConfig) {
		cfg.postgresDSN = dsn
	})
}

// WithPageSize sets the search page size. Defaults to 20, capped at 100.
func WithPageSize(n int) Option {
	return optionFunc(func(cfg *sessionConfig) {
		cfg.pageSize = n
	})
}

// WithBoundsQueries makes map viewport changes refetch the result set scoped
// to the visible rectangle. Off by default: panning only re-renders markers.
func WithBoundsQueries(enabled bool) Option {
	return optionFunc(func(cfg *sessionConfig) {
		cfg.boundsQueries = enabled
	})
}

// WithDeselectOnBackgroundClick controls whether clicking empty map space
// closes an open property view. Default on.
func WithDeselectOnBackgroundClick(enabled bool) Option {
	return optionFunc(func(cfg *sessionConfig) {
		cfg.deselect = &enabled
	})
}

// WithYear locks the availability calendar to a dataset year. Defaults to
// 2025, the year the Rio dataset covers.
func WithYear(year int) Option {
	return optionFunc(func(cfg *sessionConfig) {
		cfg.year = year
	})
}

// WithLogger sets the session logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(cfg *sessionConfig) {
		cfg.logger = logger
	})
}
