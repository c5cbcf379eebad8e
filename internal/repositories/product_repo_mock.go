package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"bitstore/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// Categories can be attached with SetCategory so the category_name filter
// behaves like the SQL join.
type MockProductRepository struct {
	products   map[string]models.Product
	categories map[string]models.Category
	mu         sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products:   make(map[string]models.Product),
		categories: make(map[string]models.Category),
	}
}

// SetCategory registers a category for filter resolution.
func (r *MockProductRepository) SetCategory(category models.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[category.ID] = category
}

// GetAll returns products matching the filter.
func (r *MockProductRepository) GetAll(filter ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if !r.matches(p, filter) {
			continue
		}
		if c, ok := r.categories[p.CategoryID]; ok {
			category := c
			p.Category = &category
		}
		list = append(list, p)
	}

	sortProducts(list, filter.Ordering)
	return list, nil
}

func (r *MockProductRepository) matches(p models.Product, filter ProductFilter) bool {
	if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
		return false
	}
	if filter.Price != nil && p.Price != *filter.Price {
		return false
	}
	if filter.Stock != nil && p.Stock != *filter.Stock {
		return false
	}
	if filter.MinPrice != nil && p.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
		return false
	}
	if filter.CategoryName != "" {
		c, ok := r.categories[p.CategoryID]
		if !ok || !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.CategoryName)) {
			return false
		}
	}
	if filter.Search != "" {
		s := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(p.Name), s) &&
			!strings.Contains(strings.ToLower(p.Description), s) {
			return false
		}
	}
	return true
}

// sortProducts honors the same ordering whitelist as the SQL repository:
// unrecognized fields fall back to newest-first, ignoring the direction
// prefix.
func sortProducts(list []models.Product, ordering string) {
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")
	switch field {
	case "price", "stock", "created_at":
	default:
		field, desc = "created_at", true
	}
	sort.Slice(list, func(i, j int) bool {
		var less bool
		switch field {
		case "price":
			less = list[i].Price < list[j].Price
		case "stock":
			less = list[i].Stock < list[j].Stock
		default:
			less = list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		if desc {
			return !less
		}
		return less
	})
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	if c, ok := r.categories[product.CategoryID]; ok {
		category := c
		product.Category = &category
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product, leaving CreatedAt and CreatedByID
// untouched.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	product.CreatedAt = existing.CreatedAt
	product.CreatedByID = existing.CreatedByID
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

// ExistsByCreator reports whether the user has created any product.
func (r *MockProductRepository) ExistsByCreator(userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.CreatedByID == userID {
			return true, nil
		}
	}
	return false, nil
}
