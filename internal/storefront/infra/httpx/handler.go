package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/jcmexdev/ecommerce-api/internal/pkg/httputil"
	"github.com/jcmexdev/ecommerce-api/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/apperrors"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/services"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/infra/httpx/middlewares"
)

const maxBodyBytes = 1 << 20

var (
	adminOnly     = entity.Roles(entity.RoleAdmin)
	customersOnly = entity.Roles(entity.RoleUser)
)

type AuthService interface {
	middlewares.Authenticator
	Login(ctx context.Context, email, password string) (string, error)
}

type CatalogService interface {
	List(ctx context.Context) ([]entity.Product, error)
	Create(ctx context.Context, name string, price float64) (entity.Product, error)
}

type OrderService interface {
	PlaceOrder(ctx context.Context, caller entity.Identity, in services.PlaceOrderInput) (entity.Order, error)
	ListForUser(ctx context.Context, caller entity.Identity) ([]entity.Order, error)
}

// Handler serves the storefront API.
type Handler struct {
	auth    AuthService
	catalog CatalogService
	orders  OrderService
	logger  *slog.Logger
}

func NewHandler(auth AuthService, catalog CatalogService, orders OrderService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		auth:    auth,
		catalog: catalog,
		orders:  orders,
		logger:  logger,
	}
}

// Login godoc
// @Summary Log in
// @Description Exchanges email and password for a bearer token valid for one hour.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} httputil.ErrorBody
// @Failure 401 {object} httputil.ErrorBody
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	httputil.JSONResponse(w, http.StatusOK, LoginResponse{Token: token})
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Router /products [get]
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	httputil.JSONResponse(w, http.StatusOK, mapProducts(products))
}

// CreateProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateProductRequest true "Product"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} httputil.ErrorBody
// @Failure 401 {object} httputil.ErrorBody
// @Failure 403 {object} httputil.ErrorBody
// @Router /products [post]
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(w, r, adminOnly); !ok {
		return
	}

	var req CreateProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	product, err := h.catalog.Create(r.Context(), req.Name, req.Price)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "product created", "product_id", product.ID)
	httputil.JSONResponse(w, http.StatusCreated, mapProductToResponse(product))
}

// PlaceOrder godoc
// @Summary Place an order
// @Description Creates at most one order per Idempotency-Key. A reused key answers 409.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Client supplied idempotency key"
// @Param body body PlaceOrderRequest true "Order"
// @Success 201 {object} OrderResponse
// @Failure 400 {object} httputil.ErrorBody
// @Failure 401 {object} httputil.ErrorBody
// @Failure 403 {object} httputil.ErrorBody
// @Failure 409 {object} httputil.ErrorBody
// @Router /orders [post]
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.authorize(w, r, customersOnly)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	// Use comma-ok idiom to safely extract typed context values.
	idempKey, _ := r.Context().Value(constants.ContextKeyIdempotencyKey).(string)

	order, err := h.orders.PlaceOrder(r.Context(), caller, services.PlaceOrderInput{
		IdempotencyKey: idempKey,
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "order placed",
		"order_id", order.ID,
		"user_id", order.UserID,
		"idempotency_key", idempKey,
	)
	httputil.JSONResponse(w, http.StatusCreated, mapOrderToResponse(order))
}

// ListOrders godoc
// @Summary List the caller's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} OrderResponse
// @Failure 401 {object} httputil.ErrorBody
// @Failure 403 {object} httputil.ErrorBody
// @Router /orders [get]
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.authorize(w, r, customersOnly)
	if !ok {
		return
	}

	orders, err := h.orders.ListForUser(r.Context(), caller)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	httputil.JSONResponse(w, http.StatusOK, mapOrders(orders))
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	httputil.JSONResponse(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// authorize runs after middlewares.Authenticate. A missing identity means the
// route was mounted without it and is treated as unauthenticated.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, required entity.RoleSet) (entity.Identity, bool) {
	caller, ok := middlewares.IdentityFrom(r.Context())
	if !ok {
		h.writeDomainError(w, r, apperrors.ErrUnauthenticated)
		return entity.Identity{}, false
	}
	if err := services.Authorize(caller, required); err != nil {
		h.writeDomainError(w, r, err)
		return entity.Identity{}, false
	}
	return caller, true
}

// decode reads a JSON object into dst. An empty body decodes as {} so that
// field validation reports it.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	httputil.ErrorResponse(w, http.StatusBadRequest, "invalid_json", "Malformed JSON body")
	return false
}
