package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jcmexdev/ecommerce-api/internal/pkg/httputil"
	"github.com/jcmexdev/ecommerce-api/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/entity"
)

// Authenticator verifies a raw bearer token.
type Authenticator interface {
	Authenticate(token string) (entity.Identity, error)
}

// Authenticate rejects requests without a valid bearer token with 401 and
// stores the verified identity in the context otherwise.
func Authenticate(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r.Header.Get(constants.HeaderAuthorization))
			if raw == "" {
				httputil.ErrorResponse(w, http.StatusUnauthorized, "unauthenticated", "No token")
				return
			}

			identity, err := auth.Authenticate(raw)
			if err != nil {
				slog.DebugContext(r.Context(), "token rejected", "error", err)
				httputil.ErrorResponse(w, http.StatusUnauthorized, "unauthenticated", "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), constants.ContextKeyIdentity, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(ctx context.Context) (entity.Identity, bool) {
	id, ok := ctx.Value(constants.ContextKeyIdentity).(entity.Identity)
	return id, ok
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
