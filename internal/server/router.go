package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shouni/socialgen-nano/internal/metrics"
)

// RouterConfig はミドルウェアの設定です。
type RouterConfig struct {
	Timeout time.Duration
}

// NewRouter は、ミドルウェアとルーティングを統合した http.Handler を構築します。
func NewRouter(cfg RouterConfig, h *Handler) http.Handler {
	r := chi.NewRouter()

	setupCommonMiddleware(r, cfg)
	setupRoutes(r, h)

	return r
}

func setupCommonMiddleware(r *chi.Mux, cfg RouterConfig) {
	r.Use(middleware.RequestID)
	// Recoverer より外側に置くこと
	r.Use(metrics.Middleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}
}

func setupRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Index)
	r.Post("/generate", h.HandleGenerate)
	r.Post("/download", h.Download)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", h.APIGenerate)
	})

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())
}
