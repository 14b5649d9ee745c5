package middlewares

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/jcmexdev/ecommerce-api/internal/pkg/httputil"
	"github.com/jcmexdev/ecommerce-api/internal/pkg/interceptors/constants"
)

// SecurityHeaders are the response headers set on every reply.
var SecurityHeaders = map[string]string{
	"X-Content-Type-Options":            "nosniff",
	"X-Frame-Options":                   "SAMEORIGIN",
	"X-DNS-Prefetch-Control":            "off",
	"X-Download-Options":                "noopen",
	"X-Permitted-Cross-Domain-Policies": "none",
	"Referrer-Policy":                   "no-referrer",
	"Strict-Transport-Security":         "max-age=15552000; includeSubDomains",
	"Cross-Origin-Opener-Policy":        "same-origin",
	"Cross-Origin-Resource-Policy":      "same-origin",
}

// Secure applies SecurityHeaders using chi's SetHeader middleware.
func Secure(next http.Handler) http.Handler {
	for name, value := range SecurityHeaders {
		next = middleware.SetHeader(name, value)(next)
	}
	return next
}

// CORS allows any origin, matching a public read API.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			constants.HeaderAuthorization,
			constants.HeaderIdempotencyKey,
			constants.HeaderXRequestId,
		},
		ExposedHeaders: []string{constants.HeaderXRequestId},
		MaxAge:         300,
	})
}

// RateLimit caps each client IP at requests per window.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httputil.ErrorResponse(w, http.StatusTooManyRequests, "rate_limited", "Too many requests")
		}),
	)
}
