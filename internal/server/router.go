package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"geartrain/internal/geartrain"
	"geartrain/internal/handlers"
	"geartrain/internal/kinematics"
	"geartrain/internal/observability"
)

// Config holds what the router needs beyond the handlers themselves.
type Config struct {
	Defaults  kinematics.Options
	RateLimit rate.Limit
	RateBurst int
}

// DefaultConfig allows 5 requests per second per client, bursts of 10.
func DefaultConfig() Config {
	return Config{RateLimit: 5, RateBurst: 10}
}

func NewRouter(cfg Config) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	r.Group(func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(NewIPRateLimiter(cfg.RateLimit, cfg.RateBurst).Middleware)
		}
		geartrain.RegisterRoutes(r, geartrain.NewHandler(cfg.Defaults))
	})

	return r
}
