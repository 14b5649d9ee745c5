package memory

import (
	"context"

	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/ports"
)

var _ ports.CredentialStore = (*UserStore)(nil)

// UserStore is a fixed list of users. It is never written after
// construction, so it needs no lock.
type UserStore struct {
	users []entity.User
}

func NewUserStore(users []entity.User) *UserStore {
	return &UserStore{users: append([]entity.User(nil), users...)}
}

// SeedUsers are the accounts every fresh process starts with.
func SeedUsers() []entity.User {
	return []entity.User{
		{ID: 1, Email: "admin@test.com", Password: "1234", Role: entity.RoleAdmin},
		{ID: 2, Email: "user@test.com", Password: "1234", Role: entity.RoleUser},
	}
}

func (s *UserStore) Find(ctx context.Context, email, password string) (entity.User, bool, error) {
	for _, u := range s.users {
		if u.Email == email && u.Password == password {
			return u, true, nil
		}
	}
	return entity.User{}, false, nil
}
