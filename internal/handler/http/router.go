package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opencatalog/catalog/internal/auth"
	"github.com/opencatalog/catalog/internal/service"
	"github.com/opencatalog/catalog/pkg/health"
	"github.com/opencatalog/catalog/pkg/middleware"
)

// RouterConfig carries the dependencies for the HTTP router.
type RouterConfig struct {
	Catalog       *service.CatalogService
	Renderer      *Renderer
	Gate          *auth.Gate
	CSRF          *middleware.CSRF
	HealthHandler *health.Handler
	PprofCIDRs    []string
	Logger        *slog.Logger
}

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("catalog"))

	// Operational endpoints, outside the access gate.
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	if len(cfg.PprofCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)
	}

	// Identity-provider endpoints complete the sign-in flow, so they
	// stay outside the gate too.
	r.Get("/auth/callback", cfg.Gate.CallbackHandler)
	r.Get("/auth/logout", cfg.Gate.LogoutHandler)

	productHandler := NewProductHandler(cfg.Catalog, cfg.Renderer, cfg.Logger)
	reviewHandler := NewReviewHandler(cfg.Catalog, cfg.Renderer, cfg.Logger)

	// The favicon and the add-product submission bypass the gate: the
	// favicon is fetched by browsers before sign-in, and the add
	// endpoint accepts submissions from automated publishers.
	r.Get("/favicon.ico", FaviconHandler())
	r.With(cfg.CSRF.Exempt).Post("/add", productHandler.CreateProduct)

	// Catalog pages behind the gate.
	r.Group(func(r chi.Router) {
		r.Use(cfg.Gate.Middleware)
		r.Use(middleware.RequestLogger(cfg.Logger))
		r.Use(cfg.CSRF.EnsureToken)

		r.Get("/", productHandler.Index)
		r.Get("/create", productHandler.NewProductForm)
		r.Get("/{id}", productHandler.Detail)
		r.With(cfg.CSRF.Exempt).Post("/review/{id}", reviewHandler.CreateReview)
	})

	return r
}
