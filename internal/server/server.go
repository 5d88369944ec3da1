// Package server wires the HTTP routes and runs the service.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alphikemal/web-GIS-tryon/internal/config"
	"github.com/alphikemal/web-GIS-tryon/internal/middleware"
	"github.com/alphikemal/web-GIS-tryon/internal/model"
	"github.com/alphikemal/web-GIS-tryon/internal/store"
)

// FeatureSource is the data-access surface the handlers need. *store.Store
// implements it; tests substitute a fake.
type FeatureSource interface {
	Ping(ctx context.Context) error
	WhoAmI(ctx context.Context) (store.ConnInfo, error)
	QueryFeatures(ctx context.Context, layer string, p model.QueryParams) ([]byte, error)
	Stats(ctx context.Context, layer string) (store.LayerStats, error)
}

// NewRouter builds the route tree. Split out from Run so tests can mount it
// on httptest servers.
func NewRouter(logger *slog.Logger, cfg config.Config, src FeatureSource) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/health", handleHealth(src))
	r.Get("/whoami", handleWhoAmI(logger, src))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	for _, layer := range []string{"blocks", "buildings"} {
		r.Get("/"+layer, handleLayer(logger, src, layer))
		r.Get("/debug/"+layer+"-stats", handleStats(logger, src, layer))
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, src FeatureSource) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(logger, cfg, src),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
