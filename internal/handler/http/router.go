package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LautaroYamil/trabajo-practico-2/internal/catalog"
	"github.com/LautaroYamil/trabajo-practico-2/internal/session"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/health"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/middleware"
)

// ServiceName labels HTTP metrics and spans.
const ServiceName = "storefront"

// RouterConfig holds the optional parts of the router.
type RouterConfig struct {
	CORS          middleware.CORSConfig
	CatalogMaxAge int
	PprofEnabled  bool
	PprofCIDRs    []string
	// Metrics serves /metrics; nil falls back to the default registry.
	Metrics http.Handler
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	products catalog.Catalog,
	sessions *session.Registry,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(ServiceName))
	r.Use(middleware.Tracing(ServiceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metrics)

	if cfg.PprofEnabled {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)
	}

	productHandler := NewProductHandler(products, logger)
	cartHandler := NewCartHandler(sessions, products, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(cfg.CatalogMaxAge))
			r.Get("/products", productHandler.ListProducts)
			r.Get("/products/{ref}", productHandler.GetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(ContentTypeJSON)
			r.Use(SessionID(logger))

			r.Get("/cart", cartHandler.GetCart)
			r.Delete("/cart", cartHandler.ClearCart)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Put("/cart/items/{productId}", cartHandler.UpdateItemQuantity)
			r.Delete("/cart/items/{productId}", cartHandler.RemoveItem)

			r.Post("/checkout", cartHandler.Checkout)
			r.Get("/orders", cartHandler.ListOrders)
		})
	})

	return r
}
