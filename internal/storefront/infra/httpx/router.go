package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/jcmexdev/ecommerce-api/internal/storefront/infra/httpx/docs"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/infra/httpx/middlewares"
)

type RouterConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	Logger            *slog.Logger
}

func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RateLimitRequests <= 0 {
		cfg.RateLimitRequests = 100
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middlewares.AccessLog(logger))
	r.Use(middlewares.Recover(logger))
	r.Use(middlewares.Secure)
	r.Use(middlewares.CORS())
	r.Use(middlewares.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

	authn := middlewares.Authenticate(handler.auth)

	r.Get("/healthz", handler.Health)
	r.Get("/api-docs/*", httpSwagger.Handler(
		httpSwagger.URL("/api-docs/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", handler.Login)

		r.Get("/products", handler.ListProducts)
		r.With(authn).Post("/products", handler.CreateProduct)

		r.With(authn).Post("/orders", handler.PlaceOrder)
		r.With(authn).Get("/orders", handler.ListOrders)
	})
	return r
}
