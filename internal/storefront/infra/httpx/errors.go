package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jcmexdev/ecommerce-api/internal/pkg/httputil"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/apperrors"
)

// writeDomainError maps a service error to its status code. Anything outside
// the taxonomy is logged and answered with a generic 500.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperrors.ErrMissingIdempotencyKey):
		httputil.ErrorResponse(w, http.StatusBadRequest, "missing_idempotency_key", "Idempotency-Key header is required")
	case errors.Is(err, apperrors.ErrInvalidOrder):
		httputil.ErrorResponse(w, http.StatusBadRequest, "invalid_order", "productId and a positive quantity are required")
	case errors.Is(err, apperrors.ErrInvalidProduct):
		httputil.ErrorResponse(w, http.StatusBadRequest, "invalid_product", "name and a positive price are required")
	case errors.Is(err, apperrors.ErrInvalidInput):
		httputil.ErrorResponse(w, http.StatusBadRequest, "invalid_input", "Missing or invalid fields")
	case errors.Is(err, apperrors.ErrLoginFailed):
		httputil.ErrorResponse(w, http.StatusUnauthorized, "login_failed", "Invalid credentials")
	case errors.Is(err, apperrors.ErrUnauthenticated):
		httputil.ErrorResponse(w, http.StatusUnauthorized, "unauthenticated", "Invalid token")
	case errors.Is(err, apperrors.ErrForbidden):
		httputil.ErrorResponse(w, http.StatusForbidden, "forbidden", "Forbidden")
	case errors.Is(err, apperrors.ErrDuplicateRequest):
		httputil.ErrorResponse(w, http.StatusConflict, "duplicate_request", "Duplicate request")
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			slog.Any("error", err),
		)
		httputil.ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal Server Error")
	}
}
