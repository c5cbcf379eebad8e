package policy_test

import (
	"testing"

	"bitstore/internal/models"
	"bitstore/internal/policy"
	"bitstore/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestCanModifyCategory(t *testing.T) {
	pol := policy.New(repositories.NewMockProductRepository())

	assert.True(t, pol.CanModifyCategory(&models.User{ID: "u1", IsAdmin: true}))
	assert.False(t, pol.CanModifyCategory(&models.User{ID: "u2"}))
	assert.False(t, pol.CanModifyCategory(nil))
}

func TestCanModifyProduct(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	pol := policy.New(productRepo)

	creator := &models.User{ID: "creator-1", Username: "maker"}
	other := &models.User{ID: "other-1", Username: "bystander"}
	admin := &models.User{ID: "admin-1", Username: "boss", IsAdmin: true}

	err := productRepo.Create(&models.Product{
		Name:        "Widget1",
		CategoryID:  "cat-1",
		Price:       10,
		Stock:       3,
		Description: "A perfectly fine widget",
		CreatedByID: creator.ID,
	})
	assert.NoError(t, err)

	allowed, err := pol.CanModifyProduct(admin)
	assert.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = pol.CanModifyProduct(creator)
	assert.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = pol.CanModifyProduct(other)
	assert.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = pol.CanModifyProduct(nil)
	assert.NoError(t, err)
	assert.False(t, allowed)
}

// Owning any product grants modify access to every product, not only
// one's own, mirroring the long-standing permission behavior.
func TestCanModifyProduct_AnyOwnershipSuffices(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	pol := policy.New(productRepo)

	creator := &models.User{ID: "creator-1"}
	err := productRepo.Create(&models.Product{
		Name:        "OwnItem",
		CategoryID:  "cat-1",
		Price:       5,
		Stock:       1,
		Description: "created by creator-1",
		CreatedByID: creator.ID,
	})
	assert.NoError(t, err)
	err = productRepo.Create(&models.Product{
		Name:        "OtherItem",
		CategoryID:  "cat-1",
		Price:       7,
		Stock:       2,
		Description: "created by someone else",
		CreatedByID: "someone-else",
	})
	assert.NoError(t, err)

	// The decision does not depend on which product is being touched.
	allowed, err := pol.CanModifyProduct(creator)
	assert.NoError(t, err)
	assert.True(t, allowed)
}
