// Package token issues and verifies the bearer tokens handed out at login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/apperrors"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/ports"
)

const DefaultTTL = time.Hour

var _ ports.TokenService = (*JWTService)(nil)

type claims struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService signs HS256 tokens carrying {id, role} with a fixed lifetime.
// Nothing is stored server-side.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*JWTService)

func WithTTL(ttl time.Duration) Option {
	return func(s *JWTService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewJWTService(secret string, opts ...Option) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("token: empty signing secret")
	}
	s := &JWTService{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *JWTService) Issue(subjectID int64, role entity.Role) (string, error) {
	now := s.now()
	c := claims{
		ID:   subjectID,
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. Every failure wraps
// apperrors.ErrUnauthenticated.
func (s *JWTService) Verify(raw string) (entity.Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return entity.Identity{}, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	role := entity.Role(c.Role)
	if c.ID <= 0 || !role.Valid() {
		return entity.Identity{}, fmt.Errorf("%w: malformed claims", apperrors.ErrUnauthenticated)
	}
	return entity.Identity{SubjectID: c.ID, Role: role}, nil
}
