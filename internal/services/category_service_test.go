package services_test

import (
	"testing"

	"bitstore/internal/models"
	"bitstore/internal/policy"
	"bitstore/internal/repositories"
	"bitstore/internal/services"
	"bitstore/internal/validation"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newCategoryService(repo repositories.CategoryRepository) *services.CategoryService {
	pol := policy.New(repositories.NewMockProductRepository())
	return services.NewCategoryService(repo, pol, zap.NewNop())
}

func TestCategoryService_Create(t *testing.T) {
	repo := repositories.NewMockCategoryRepository()
	service := newCategoryService(repo)

	category, err := service.Create(&models.Category{Name: "Electronics", Description: "Gadgets"})
	assert.NoError(t, err)
	assert.NotEmpty(t, category.ID)

	// The name is unique at creation time.
	_, err = service.Create(&models.Category{Name: "Electronics"})
	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("name", validation.CodeDuplicate))

	_, err = service.Create(&models.Category{Name: "ab"})
	assert.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("name", validation.CodeTooShort))
}

func TestCategoryService_Update(t *testing.T) {
	repo := repositories.NewMockCategoryRepository()
	service := newCategoryService(repo)
	admin := &models.User{ID: "admin-1", IsAdmin: true}
	user := &models.User{ID: "user-1"}

	category, err := service.Create(&models.Category{Name: "Electronics", Description: "Gadgets"})
	assert.NoError(t, err)

	_, err = service.Update(user, category.ID, services.CategoryInput{Description: ptr("More gadgets")})
	assert.ErrorIs(t, err, services.ErrForbidden)

	// Keeping the current name on update is not a duplicate.
	updated, err := service.Update(admin, category.ID, services.CategoryInput{Description: ptr("More gadgets")})
	assert.NoError(t, err)
	assert.Equal(t, "Electronics", updated.Name)
	assert.Equal(t, "More gadgets", updated.Description)

	// Validation runs before the authorization check.
	_, err = service.Update(user, category.ID, services.CategoryInput{Name: ptr("ab")})
	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)

	_, err = service.Update(admin, "no-such-category", services.CategoryInput{})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCategoryService_Delete(t *testing.T) {
	repo := repositories.NewMockCategoryRepository()
	service := newCategoryService(repo)
	admin := &models.User{ID: "admin-1", IsAdmin: true}

	category, err := service.Create(&models.Category{Name: "Electronics"})
	assert.NoError(t, err)

	err = service.Delete(&models.User{ID: "user-1"}, category.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	assert.NoError(t, service.Delete(admin, category.ID))
	assert.ErrorIs(t, service.Delete(admin, category.ID), repositories.ErrNotFound)
}
