package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ryanbastic/go-escaperoom/internal/export"
	"github.com/ryanbastic/go-escaperoom/internal/hints"
	"github.com/ryanbastic/go-escaperoom/internal/metrics"
	"github.com/ryanbastic/go-escaperoom/internal/storage"
)

// NewServer creates an HTTP server with all routes configured.
// suggester may be nil, in which case hint suggestions answer 503.
func NewServer(logger *slog.Logger, rooms storage.RoomStore, generator *export.Generator, suggester hints.Suggester, backends map[string]Pinger) http.Handler {
	mux := chi.NewRouter()

	mux.Use(RequestID)
	mux.Use(CORS())
	mux.Use(metrics.Metrics)
	mux.Use(Logging(logger))
	mux.Use(Recovery(logger))

	api := humachi.New(mux, huma.DefaultConfig("Escape Room API", "1.0.0"))

	registerRoomRoutes(api, NewRoomHandler(rooms, logger))
	registerExportRoutes(api, NewExportHandler(rooms, generator, logger))
	registerHintRoutes(api, NewHintHandler(suggester, logger))

	health := NewHealthHandler(backends, logger)
	mux.Get("/v1/livez", health.Livez)
	mux.Get("/v1/readyz", health.Readyz)
	mux.Get("/v1/health", health.Readyz)
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
