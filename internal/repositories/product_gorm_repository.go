package repositories

import (
	"errors"
	"fmt"
	"strings"

	"bitstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var productOrderFields = map[string]string{
	"price":      "products.price",
	"stock":      "products.stock",
	"created_at": "products.created_at",
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves products matching the filter, with their category
// preloaded.
func (r *GORMProductRepository) GetAll(filter ProductFilter) ([]models.Product, error) {
	query := r.db.Model(&models.Product{}).Preload("Category")

	if filter.CategoryID != "" {
		query = query.Where("products.category_id = ?", filter.CategoryID)
	}
	if filter.Price != nil {
		query = query.Where("products.price = ?", *filter.Price)
	}
	if filter.Stock != nil {
		query = query.Where("products.stock = ?", *filter.Stock)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}
	if filter.CategoryName != "" {
		pattern := "%" + strings.ToLower(filter.CategoryName) + "%"
		query = query.
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("LOWER(categories.name) LIKE ?", pattern)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", pattern, pattern)
	}

	query = query.Order(orderClause(filter.Ordering, productOrderFields, "products.created_at DESC"))

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID, with its category
// preloaded.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database. CreatedAt and
// CreatedByID are deliberately left out of the update.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select("name", "category_id", "price", "stock", "description", "updated_at").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// ExistsByCreator reports whether the user has created any product.
func (r *GORMProductRepository) ExistsByCreator(userID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("created_by_id = ?", userID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count products by creator: %w", err)
	}
	return count > 0, nil
}
