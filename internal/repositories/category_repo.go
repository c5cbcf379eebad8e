package repositories

import "bitstore/internal/models"

// CategoryFilter narrows and orders a category listing. Search matches a
// substring of name or description, case-insensitively. Ordering accepts
// "name" or "id", with a "-" prefix for descending; unknown values fall
// back to name ascending.
type CategoryFilter struct {
	Search   string
	Ordering string
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll(filter CategoryFilter) ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id string) error
	ExistsByName(name string) (bool, error)
}
