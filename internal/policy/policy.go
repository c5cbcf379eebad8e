// Package policy holds the authorization decisions gating mutating
// operations. Read and create access is settled earlier by the auth
// middleware: any authenticated user may list, read and create.
package policy

import (
	"fmt"

	"bitstore/internal/models"
	"bitstore/internal/repositories"
)

// Policy answers whether an actor may perform admin-gated mutations.
type Policy struct {
	productRepo repositories.ProductRepository
}

// New creates a new Policy.
func New(productRepo repositories.ProductRepository) *Policy {
	return &Policy{
		productRepo: productRepo,
	}
}

// CanModifyCategory reports whether the actor may update or delete
// categories. Only admins can.
func (p *Policy) CanModifyCategory(actor *models.User) bool {
	return actor != nil && actor.IsAdmin
}

// CanModifyProduct reports whether the actor may update or delete a
// product: admins always, otherwise anyone who has created at least one
// product. Note the check is NOT scoped to the product being touched;
// owning any product grants modify access across the catalog. Kept to
// match the long-standing permission behavior until clients migrate.
func (p *Policy) CanModifyProduct(actor *models.User) (bool, error) {
	if actor == nil {
		return false, nil
	}
	if actor.IsAdmin {
		return true, nil
	}
	created, err := p.productRepo.ExistsByCreator(actor.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check product ownership: %w", err)
	}
	return created, nil
}
