package services

import (
	"context"
	"fmt"

	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/apperrors"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/ports"
)

type AuthService struct {
	users  ports.CredentialStore
	tokens ports.TokenService
}

func NewAuthService(users ports.CredentialStore, tokens ports.TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login exchanges credentials for a signed token. Unknown email and wrong
// password both yield ErrLoginFailed.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", apperrors.ErrInvalidInput)
	}

	user, ok, err := s.users.Find(ctx, email, password)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if !ok {
		return "", apperrors.ErrLoginFailed
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Authenticate verifies a bearer token and returns the caller identity.
func (s *AuthService) Authenticate(token string) (entity.Identity, error) {
	if token == "" {
		return entity.Identity{}, fmt.Errorf("%w: no token", apperrors.ErrUnauthenticated)
	}
	return s.tokens.Verify(token)
}
