package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rioscope/rioscope/internal/config"
	dbRedis "github.com/rioscope/rioscope/internal/db/redis"
	logpkg "github.com/rioscope/rioscope/internal/logger"
	"github.com/rioscope/rioscope/internal/metrics"
	"github.com/rioscope/rioscope/internal/repository/memory"
	"github.com/rioscope/rioscope/internal/repository/postgres"
	"github.com/rioscope/rioscope/internal/repository/searchcache"
	chiTransport "github.com/rioscope/rioscope/internal/transport/chi"
	healthuc "github.com/rioscope/rioscope/internal/usecase/health"
	statsuc "github.com/rioscope/rioscope/internal/usecase/stats"
	"github.com/rioscope/rioscope/internal/version"
)

// catalogStore is everything a catalog driver must serve.
type catalogStore interface {
	chiTransport.Searcher
	chiTransport.Catalog
	statsuc.Reader
	healthuc.CatalogPinger
}

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting rioscope API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_driver", cfg.Catalog.Driver),
		zap.String("city", cfg.Dataset.City),
		zap.Int("year", cfg.Dataset.Year),
		zap.Bool("bounds_queries", cfg.Search.BoundsQueries),
		zap.Bool("deselect_on_background_click", cfg.Search.DeselectOnBackgroundClickEnabled()),
	)

	ctx := context.Background()

	// Catalog backend
	var catalog catalogStore
	var closeCatalog func()
	switch cfg.Catalog.Driver {
	case "postgres":
		pg, err := postgres.New(ctx, cfg.Catalog.DSN)
		if err != nil {
			logger.Fatal("Failed to connect to catalog", zap.Error(err))
		}
		catalog = pg
		closeCatalog = pg.Close
	case "memory":
		catalog = memory.New(memory.Fixture())
	default:
		logger.Fatal("Unknown catalog driver", zap.String("driver", cfg.Catalog.Driver))
	}
	if closeCatalog != nil {
		defer closeCatalog()
	}
	if err := catalog.Ping(ctx); err != nil {
		logger.Fatal("Catalog not ready", zap.Error(err))
	}
	logger.Info("Connected to catalog")

	metrics.RegisterExploreMetrics()

	// Optional Redis-backed search result cache
	var searcher chiTransport.Searcher = catalog
	var cachePinger healthuc.CachePinger
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		searcher = searchcache.New(catalog, store, ttl, metrics.SearchCacheTotal, logger)
		cachePinger = store
		logger.Info("Search cache enabled",
			zap.Strings("addrs", cfg.Cache.Addrs),
			zap.Duration("ttl", ttl),
		)
	}

	statsSvc, err := statsuc.New(catalog)
	if err != nil {
		logger.Fatal("Failed to init stats service", zap.Error(err))
	}
	defer statsSvc.Close()

	healthSvc := healthuc.New(catalog, cachePinger)

	server := chiTransport.NewServer(searcher, catalog, statsSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
