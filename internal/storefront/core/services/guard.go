package services

import (
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/apperrors"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/entity"
)

// Authorize allows id when its role is in required. It assumes id has
// already been verified.
func Authorize(id entity.Identity, required entity.RoleSet) error {
	if !required.Contains(id.Role) {
		return apperrors.ErrForbidden
	}
	return nil
}
