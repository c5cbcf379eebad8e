package repositories

import "bitstore/internal/models"

// ProductFilter narrows, searches and orders a product listing. Nil
// pointer fields mean "not filtered". CategoryName matches a substring of
// the related category's name, case-insensitively. Search matches name or
// description. Ordering accepts "price", "stock" or "created_at" with an
// optional "-" prefix; the default is newest first.
type ProductFilter struct {
	CategoryID   string
	Price        *float64
	Stock        *int
	MinPrice     *float64
	MaxPrice     *float64
	CategoryName string
	Search       string
	Ordering     string
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(filter ProductFilter) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	ExistsByCreator(userID string) (bool, error)
}
