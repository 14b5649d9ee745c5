package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-api/internal/pkg/httputil"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/services"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/infra/adapters/memory"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/infra/adapters/token"
)

type testAPI struct {
	router http.Handler
	orders *memory.OrderStore
}

func newTestAPI(t *testing.T, cfg RouterConfig) *testAPI {
	t.Helper()

	tokens, err := token.NewJWTService("test-secret")
	require.NoError(t, err)

	orders := memory.NewOrderStore()
	auth := services.NewAuthService(memory.NewUserStore(memory.SeedUsers()), tokens)
	catalog := services.NewCatalogService(memory.NewCatalogStore())
	placer := services.NewOrderService(memory.NewLedger(), orders)

	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(auth, catalog, placer, cfg.Logger)
	return &testAPI{router: NewRouter(h, cfg), orders: orders}
}

func (a *testAPI) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/login",
		`{"email":"`+email+`","password":"`+password+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func bearer(tok string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tok}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorBody {
	t.Helper()
	var body httputil.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_PlaceOrderScenario(t *testing.T) {
	api := newTestAPI(t, RouterConfig{})

	admin := api.login(t, "admin@test.com", "1234")
	rec := api.do(t, http.MethodPost, "/api/v1/products", `{"name":"Widget","price":10}`, bearer(admin))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var product ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, 10.0, product.Price)

	user := api.login(t, "user@test.com", "1234")
	headers := bearer(user)
	headers["Idempotency-Key"] = "k1"
	body := `{"productId":"` + product.ID + `","quantity":2}`

	rec = api.do(t, http.MethodPost, "/api/v1/orders", body, headers)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "PAID", order.Status)
	assert.Equal(t, 2, order.Quantity)
	assert.Equal(t, product.ID, order.ProductID)
	assert.Equal(t, int64(2), order.UserID)

	rec = api.do(t, http.MethodPost, "/api/v1/orders", body, headers)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_request", decodeError(t, rec).Error)
	assert.Equal(t, 1, api.orders.Len())

	rec = api.do(t, http.MethodGet, "/api/v1/orders", "", bearer(user))
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, order.ID, listed[0].ID)

	rec = api.do(t, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products []ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Equal(t, []ProductResponse{product}, products)
}

func TestRouter_PlaceOrderWithoutKey(t *testing.T) {
	api := newTestAPI(t, RouterConfig{})
	user := api.login(t, "user@test.com", "1234")

	rec := api.do(t, http.MethodPost, "/api/v1/orders", `{"productId":"p1","quantity":1}`, bearer(user))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_idempotency_key", decodeError(t, rec).Error)
	assert.Zero(t, api.orders.Len())
}

func TestRouter_PlaceOrderRejections(t *testing.T) {
	api := newTestAPI(t, RouterConfig{})
	user := api.login(t, "user@test.com", "1234")
	admin := api.login(t, "admin@test.com", "1234")

	tests := []struct {
		name     string
		body     string
		headers  map[string]string
		wantCode int
		wantErr  string
	}{
		{
			name:     "no token",
			body:     `{"productId":"p1","quantity":1}`,
			headers:  map[string]string{"Idempotency-Key": "a"},
			wantCode: http.StatusUnauthorized,
			wantErr:  "unauthenticated",
		},
		{
			name:     "admin role",
			body:     `{"productId":"p1","quantity":1}`,
			headers:  withKey(bearer(admin), "b"),
			wantCode: http.StatusForbidden,
			wantErr:  "forbidden",
		},
		{
			name:     "zero quantity",
			body:     `{"productId":"p1","quantity":0}`,
			headers:  withKey(bearer(user), "c"),
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_order",
		},
		{
			name:     "missing product",
			body:     `{"quantity":3}`,
			headers:  withKey(bearer(user), "d"),
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_order",
		},
		{
			name:     "malformed json",
			body:     `{"productId":`,
			headers:  withKey(bearer(user), "e"),
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/v1/orders", tt.body, tt.headers)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decodeError(t, rec).Error)
		})
	}
	assert.Zero(t, api.orders.Len())
}

func TestRouter_MalformedJSONDoesNotConsumeKey(t *testing.T) {
	api := newTestAPI(t, RouterConfig{})
	headers := withKey(bearer(api.login(t, "user@test.com", "1234")), "retry-me")

	rec := api.do(t, http.MethodPost, "/api/v1/orders", `not json`, headers)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/orders", `{"productId":"p1","quantity":1}`, headers)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_InvalidOrderConsumesKey(t *testing.T) {
	api := newTestAPI(t, RouterConfig{})
	headers := withKey(bearer(api.login(t, "user@test.com", "1234")), "burned")

	rec := api.do(t, http.MethodPost, "/api/v1/orders", `{"productId":"p1","quantity":-1}`, headers)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/orders", `{"productId":"p1","quantity":1}`, headers)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_CreateProductAuthorization(t *testing.T) {
	api := newTestAPI(t, RouterConfig{})
	user := api.login(t, "user@test.com", "1234")

	rec := api.do(t, http.MethodPost, "/api/v1/products", `{"name":"Widget","price":10}`, bearer(user))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/products", `{"name":"Widget","price":10}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token", decodeError(t, rec).Message)

	rec = api.do(t, http.MethodPost, "/api/v1/products", `{"name":"Widget","price":10}`, bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", decodeError(t, rec).Message)

	rec = api.do(t, http.MethodPost, "/api/v1/products", `{"name":"Widget","price":10}`,
		map[string]string{"Authorization": "Basic abc"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_CreateProductValidation(t *testing.T) {
	api := newTestAPI(t, RouterConfig{})
	admin := api.login(t, "admin@test.com", "1234")

	for _, body := range []string{`{"name":"","price":10}`, `{"name":"Widget","price":0}`, `{"name":"Widget"}`, ``} {
		rec := api.do(t, http.MethodPost, "/api/v1/products", body, bearer(admin))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestRouter_Login(t *testing.T) {
	api := newTestAPI(t, RouterConfig{})

	rec := api.do(t, http.MethodPost, "/api/v1/auth/login", `{"email":"user@test.com","password":"nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	unknown := api.do(t, http.MethodPost, "/api/v1/auth/login", `{"email":"ghost@test.com","password":"1234"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, decodeError(t, rec), decodeError(t, unknown))

	rec = api.do(t, http.MethodPost, "/api/v1/auth/login", `{"email":"user@test.com"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	api := newTestAPI(t, RouterConfig{RateLimitRequests: 2})

	for i := 0; i < 2; i++ {
		rec := api.do(t, http.MethodGet, "/api/v1/products", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := api.do(t, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", decodeError(t, rec).Error)
}

func TestRouter_AmbientHeaders(t *testing.T) {
	api := newTestAPI(t, RouterConfig{})

	rec := api.do(t, http.MethodGet, "/healthz", "", map[string]string{"Origin": "https://shop.example"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouter_APIDocs(t *testing.T) {
	api := newTestAPI(t, RouterConfig{})

	rec := api.do(t, http.MethodGet, "/api-docs/doc.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Storefront API")
	assert.Contains(t, rec.Body.String(), "/orders")
}

type failingCatalog struct {
	panics bool
}

func (c failingCatalog) List(context.Context) ([]entity.Product, error) {
	if c.panics {
		panic("boom")
	}
	return nil, errors.New("disk on fire")
}

func (c failingCatalog) Create(context.Context, string, float64) (entity.Product, error) {
	return entity.Product{}, errors.New("disk on fire")
}

func TestRouter_InternalErrorsAreGeneric(t *testing.T) {
	for _, panics := range []bool{false, true} {
		tokens, err := token.NewJWTService("test-secret")
		require.NoError(t, err)
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		h := NewHandler(
			services.NewAuthService(memory.NewUserStore(memory.SeedUsers()), tokens),
			failingCatalog{panics: panics},
			services.NewOrderService(memory.NewLedger(), memory.NewOrderStore()),
			logger,
		)
		router := NewRouter(h, RouterConfig{Logger: logger})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "Internal Server Error", body.Message)
		assert.NotContains(t, rec.Body.String(), "disk on fire")
		assert.NotContains(t, rec.Body.String(), "boom")
	}
}

func withKey(h map[string]string, key string) map[string]string {
	h["Idempotency-Key"] = key
	return h
}
