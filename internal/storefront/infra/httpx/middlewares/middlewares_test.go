package middlewares

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-api/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/entity"
)

type stubAuthenticator struct {
	identity entity.Identity
	err      error
	got      string
}

func (s *stubAuthenticator) Authenticate(token string) (entity.Identity, error) {
	s.got = token
	return s.identity, s.err
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"  Bearer   abc  ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bearerToken(tt.header), tt.header)
	}
}

func TestAuthenticate_StoresIdentity(t *testing.T) {
	auth := &stubAuthenticator{identity: entity.Identity{SubjectID: 7, Role: entity.RoleUser}}

	var got entity.Identity
	var found bool
	h := Authenticate(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = IdentityFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, found)
	assert.Equal(t, auth.identity, got)
	assert.Equal(t, "tok", auth.got)
}

func TestAuthenticate_Rejects(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Authenticate(&stubAuthenticator{})(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "No token")
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer expired")
		rec := httptest.NewRecorder()
		Authenticate(&stubAuthenticator{err: errors.New("expired")})(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid token")
	})
}

func TestIdentityFrom_Empty(t *testing.T) {
	_, ok := IdentityFrom(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}

func TestAttachRequestMetadata(t *testing.T) {
	var requestID, key string
	h := middleware.RequestID(AttachRequestMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, _ = r.Context().Value(constants.ContextKeyRequestID).(string)
		key, _ = r.Context().Value(constants.ContextKeyIdempotencyKey).(string)
	})))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(constants.HeaderXRequestId, "req-42")
	req.Header.Set(constants.HeaderIdempotencyKey, "k1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", requestID)
	assert.Equal(t, "k1", key)
	assert.Equal(t, "req-42", rec.Header().Get(constants.HeaderXRequestId))
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal_error","message":"Internal Server Error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "kaboom")
	assert.Contains(t, buf.String(), "/boom")
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := AccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tea", nil))

	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"path":"/tea"`)
}

func TestSecure(t *testing.T) {
	rec := httptest.NewRecorder()
	Secure(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	for name, value := range SecurityHeaders {
		assert.Equal(t, value, rec.Header().Get(name), name)
	}
}
