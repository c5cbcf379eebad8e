package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"bitstore/internal/models"

	"github.com/google/uuid"
)

// MockCategoryRepository is an in-memory implementation of CategoryRepository.
type MockCategoryRepository struct {
	categories map[string]models.Category
	mu         sync.RWMutex
}

// NewMockCategoryRepository creates a new instance of MockCategoryRepository.
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[string]models.Category),
	}
}

// GetAll returns categories matching the filter.
func (r *MockCategoryRepository) GetAll(filter CategoryFilter) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if filter.Search != "" {
			s := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(c.Name), s) &&
				!strings.Contains(strings.ToLower(c.Description), s) {
				continue
			}
		}
		list = append(list, c)
	}

	desc := strings.HasPrefix(filter.Ordering, "-")
	field := strings.TrimPrefix(filter.Ordering, "-")
	// Same whitelist as the SQL repository; anything else falls back to
	// name ascending.
	switch field {
	case "name", "id":
	default:
		field, desc = "name", false
	}
	sort.Slice(list, func(i, j int) bool {
		var less bool
		switch field {
		case "id":
			less = list[i].ID < list[j].ID
		default:
			less = list[i].Name < list[j].Name
		}
		if desc {
			return !less
		}
		return less
	})

	return list, nil
}

// GetByID returns a category by its ID.
func (r *MockCategoryRepository) GetByID(id string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, fmt.Errorf("category with ID %s: %w", id, ErrNotFound)
	}
	return &category, nil
}

// Create adds a new category.
func (r *MockCategoryRepository) Create(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	for _, c := range r.categories {
		if c.Name == category.Name {
			return fmt.Errorf("category name %s already exists", category.Name)
		}
	}
	r.categories[category.ID] = *category
	return nil
}

// Update modifies an existing category.
func (r *MockCategoryRepository) Update(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[category.ID]; !ok {
		return fmt.Errorf("category with ID %s: %w", category.ID, ErrNotFound)
	}
	r.categories[category.ID] = *category
	return nil
}

// Delete removes a category by its ID.
func (r *MockCategoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return fmt.Errorf("category with ID %s: %w", id, ErrNotFound)
	}
	delete(r.categories, id)
	return nil
}

// ExistsByName reports whether a category already carries the name.
func (r *MockCategoryRepository) ExistsByName(name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}
