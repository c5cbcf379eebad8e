package repositories

import (
	"fmt"
	"sync"
	"time"

	"bitstore/internal/models"

	"github.com/google/uuid"
)

// MockRefreshTokenRepository is an in-memory implementation of
// RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	tokens map[string]models.RefreshToken // keyed by token value
	mu     sync.RWMutex
}

// NewMockRefreshTokenRepository creates a new instance of MockRefreshTokenRepository.
func NewMockRefreshTokenRepository() *MockRefreshTokenRepository {
	return &MockRefreshTokenRepository{
		tokens: make(map[string]models.RefreshToken),
	}
}

// Create stores a newly issued refresh token.
func (r *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	r.tokens[token.Token] = *token
	return nil
}

// GetByToken retrieves a refresh token by its opaque value.
func (r *MockRefreshTokenRepository) GetByToken(token string) (*models.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tokens[token]
	if !ok {
		return nil, fmt.Errorf("refresh token: %w", ErrNotFound)
	}
	return &rt, nil
}

// Revoke marks the token revoked, reporting ErrNotFound for unknown or
// already-revoked tokens.
func (r *MockRefreshTokenRepository) Revoke(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.tokens[token]
	if !ok || rt.RevokedAt != nil {
		return fmt.Errorf("refresh token: %w", ErrNotFound)
	}
	now := time.Now()
	rt.RevokedAt = &now
	r.tokens[token] = rt
	return nil
}
