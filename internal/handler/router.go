package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterConfig carries what NewRouter wires together.
type RouterConfig struct {
	Dashboard      *DashboardHandler
	Bucket         *BucketHandler
	AllowedOrigins []string
	RateLimiter    *RateLimiter
	Log            *zap.Logger
}

// NewRouter builds the service's HTTP routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(cfg.Log))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Middleware)
	}

	r.Get("/health", HealthCheck)

	r.Route("/admin", func(r chi.Router) {
		r.Use(CORS(cfg.AllowedOrigins))
		r.Get("/dashboard", cfg.Dashboard.GetDashboard)
		r.Post("/dashboard/refresh", cfg.Dashboard.RefreshBookings)
		r.Get("/notifications", cfg.Dashboard.ListNotifications)
		r.Delete("/notifications/{id}", cfg.Dashboard.DismissNotification)
	})

	// The function endpoint handles its own CORS and every method.
	r.HandleFunc("/functions/v1/ensure-storage-bucket", cfg.Bucket.EnsureBucket)

	return r
}
