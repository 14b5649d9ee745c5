package ports

import (
	"context"

	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/entity"
)

// CredentialStore answers whether an (email, password) pair belongs to a user.
// The returned bool is false when no user matches both fields.
type CredentialStore interface {
	Find(ctx context.Context, email, password string) (entity.User, bool, error)
}

type TokenService interface {
	Issue(subjectID int64, role entity.Role) (string, error)
	Verify(token string) (entity.Identity, error)
}

type Catalog interface {
	Append(ctx context.Context, p entity.Product) error
	List(ctx context.Context) ([]entity.Product, error)
}

// IdempotencyLedger remembers every key it has been asked to mark.
// CheckAndMark must be atomic: of two concurrent calls with the same key,
// exactly one reports first == true.
type IdempotencyLedger interface {
	HasSeen(ctx context.Context, key string) (bool, error)
	MarkSeen(ctx context.Context, key string) error
	CheckAndMark(ctx context.Context, key string) (first bool, err error)
}

type OrderRepository interface {
	Save(ctx context.Context, o entity.Order) error
	ListByUser(ctx context.Context, userID int64) ([]entity.Order, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
