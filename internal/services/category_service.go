package services

import (
	"bitstore/internal/models"
	"bitstore/internal/policy"
	"bitstore/internal/repositories"
	"bitstore/internal/validation"

	"go.uber.org/zap"
)

// CategoryInput carries category fields for updates; nil means the field
// was not supplied and keeps its stored value.
type CategoryInput struct {
	Name        *string
	Description *string
}

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo   repositories.CategoryRepository
	policy *policy.Policy
	log    *zap.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository, pol *policy.Policy, log *zap.Logger) *CategoryService {
	return &CategoryService{
		repo:   repo,
		policy: pol,
		log:    log,
	}
}

// List retrieves categories matching the filter.
func (s *CategoryService) List(filter repositories.CategoryFilter) ([]models.Category, error) {
	return s.repo.GetAll(filter)
}

// Get retrieves a single category by its ID.
func (s *CategoryService) Get(id string) (*models.Category, error) {
	return s.repo.GetByID(id)
}

// Create validates and stores a new category. Any authenticated user may
// create one.
func (s *CategoryService) Create(category *models.Category) (*models.Category, error) {
	if err := validation.ValidateCategory(category, true, s.repo.ExistsByName); err != nil {
		return nil, err
	}
	if err := s.repo.Create(category); err != nil {
		return nil, err
	}

	s.log.Info("category created",
		zap.String("category_id", category.ID),
		zap.String("name", category.Name))

	return category, nil
}

// Update merges the input onto the stored category, re-validates the
// result and saves it. Only admins may update.
func (s *CategoryService) Update(actor *models.User, id string, input CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}

	if err := validation.ValidateCategory(category, false, s.repo.ExistsByName); err != nil {
		return nil, err
	}
	if !s.policy.CanModifyCategory(actor) {
		return nil, ErrForbidden
	}
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}

	s.log.Info("category updated",
		zap.String("category_id", category.ID),
		zap.String("actor_id", actor.ID))

	return category, nil
}

// Delete removes a category. Only admins may delete.
func (s *CategoryService) Delete(actor *models.User, id string) error {
	if !s.policy.CanModifyCategory(actor) {
		return ErrForbidden
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.log.Info("category deleted",
		zap.String("category_id", id),
		zap.String("actor_id", actor.ID))

	return nil
}
