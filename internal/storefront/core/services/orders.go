package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/ecommerce-api/internal/pkg/orderlog"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/apperrors"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/ports"
)

const RoutingKeyOrderPlaced = "order.placed"

// KeyPolicy decides whether an idempotency key is consumed before or after
// the order body is validated.
type KeyPolicy int

const (
	// ConsumeFirst burns the key even when the order turns out invalid.
	ConsumeFirst KeyPolicy = iota
	// ValidateFirst only consumes keys of well-formed orders.
	ValidateFirst
)

func ParseKeyPolicy(s string) (KeyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "consume-first":
		return ConsumeFirst, nil
	case "validate-first":
		return ValidateFirst, nil
	default:
		return ConsumeFirst, fmt.Errorf("unknown idempotency policy %q", s)
	}
}

func (p KeyPolicy) String() string {
	if p == ValidateFirst {
		return "validate-first"
	}
	return "consume-first"
}

type PlaceOrderInput struct {
	IdempotencyKey string
	ProductID      string
	Quantity       int
}

// OrderPlacedEvent is published after an order has been stored.
type OrderPlacedEvent struct {
	OrderID   string    `json:"orderId"`
	UserID    int64     `json:"userId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Status    string    `json:"status"`
	PlacedAt  time.Time `json:"placedAt"`
}

type OrderService struct {
	ledger    ports.IdempotencyLedger
	orders    ports.OrderRepository
	publisher ports.EventPublisher // nil-safe: events skipped if nil
	journal   orderlog.Repository  // nil-safe: attempts not recorded if nil
	policy    KeyPolicy
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time
}

type OrderOption func(*OrderService)

func WithKeyPolicy(p KeyPolicy) OrderOption {
	return func(s *OrderService) { s.policy = p }
}

func WithPublisher(p ports.EventPublisher) OrderOption {
	return func(s *OrderService) { s.publisher = p }
}

func WithJournal(j orderlog.Repository) OrderOption {
	return func(s *OrderService) { s.journal = j }
}

func WithLogger(l *slog.Logger) OrderOption {
	return func(s *OrderService) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithIDGenerator(f func() string) OrderOption {
	return func(s *OrderService) {
		if f != nil {
			s.newID = f
		}
	}
}

func NewOrderService(ledger ports.IdempotencyLedger, orders ports.OrderRepository, opts ...OrderOption) *OrderService {
	s := &OrderService{
		ledger: ledger,
		orders: orders,
		policy: ConsumeFirst,
		logger: slog.Default(),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder creates at most one order per idempotency key. The owner is
// always the verified caller.
func (s *OrderService) PlaceOrder(ctx context.Context, caller entity.Identity, in PlaceOrderInput) (entity.Order, error) {
	order, err := s.place(ctx, caller, in)
	s.record(ctx, caller, in.IdempotencyKey, order.ID, err)
	if err != nil {
		return entity.Order{}, err
	}

	s.publish(ctx, order)
	return order, nil
}

func (s *OrderService) ListForUser(ctx context.Context, caller entity.Identity) ([]entity.Order, error) {
	orders, err := s.orders.ListByUser(ctx, caller.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) place(ctx context.Context, caller entity.Identity, in PlaceOrderInput) (entity.Order, error) {
	if in.IdempotencyKey == "" {
		return entity.Order{}, apperrors.ErrMissingIdempotencyKey
	}

	for _, step := range s.admission() {
		if err := step(ctx, in); err != nil {
			return entity.Order{}, err
		}
	}

	order := entity.Order{
		ID:             s.newID(),
		UserID:         caller.SubjectID,
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		Status:         entity.StatusPaid,
		IdempotencyKey: in.IdempotencyKey,
		CreatedAt:      s.now().UTC(),
	}

	// A failed save leaves the key consumed; there is no rollback.
	if err := s.orders.Save(ctx, order); err != nil {
		return entity.Order{}, fmt.Errorf("save order: %w", err)
	}
	return order, nil
}

type admissionStep func(ctx context.Context, in PlaceOrderInput) error

// admission returns the checks run before an order is built, in policy order.
func (s *OrderService) admission() []admissionStep {
	if s.policy == ValidateFirst {
		return []admissionStep{validateOrder, s.consumeKey}
	}
	return []admissionStep{s.consumeKey, validateOrder}
}

func (s *OrderService) consumeKey(ctx context.Context, in PlaceOrderInput) error {
	first, err := s.ledger.CheckAndMark(ctx, in.IdempotencyKey)
	if err != nil {
		return fmt.Errorf("idempotency ledger: %w", err)
	}
	if !first {
		return apperrors.ErrDuplicateRequest
	}
	return nil
}

func validateOrder(_ context.Context, in PlaceOrderInput) error {
	if in.ProductID == "" || in.Quantity <= 0 {
		return apperrors.ErrInvalidOrder
	}
	return nil
}

func (s *OrderService) record(ctx context.Context, caller entity.Identity, key, orderID string, err error) {
	if s.journal == nil {
		return
	}

	outcome := orderlog.OutcomeAccepted
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrDuplicateRequest):
		outcome = orderlog.OutcomeDuplicate
	case errors.Is(err, apperrors.ErrInvalidInput):
		outcome = orderlog.OutcomeRejected
	default:
		outcome = orderlog.OutcomeFailed
	}

	entry := orderlog.NewEntry(ctx, key, caller.SubjectID, outcome, orderID, err)
	if saveErr := s.journal.Save(ctx, entry); saveErr != nil {
		s.logger.WarnContext(ctx, "failed to journal order attempt",
			"idempotency_key", key,
			"outcome", outcome,
			"error", saveErr,
		)
	}
}

func (s *OrderService) publish(ctx context.Context, o entity.Order) {
	if s.publisher == nil {
		return
	}

	evt := OrderPlacedEvent{
		OrderID:   o.ID,
		UserID:    o.UserID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
		Status:    string(o.Status),
		PlacedAt:  o.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, RoutingKeyOrderPlaced, evt); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order event",
			"order_id", o.ID,
			"error", err,
		)
	}
}
