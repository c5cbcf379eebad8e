package repositories

import (
	"errors"
	"fmt"
	"time"

	"bitstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRefreshTokenRepository is a GORM implementation of RefreshTokenRepository.
type GORMRefreshTokenRepository struct {
	db *gorm.DB
}

// NewGORMRefreshTokenRepository creates a new instance of GORMRefreshTokenRepository.
func NewGORMRefreshTokenRepository(db *gorm.DB) *GORMRefreshTokenRepository {
	return &GORMRefreshTokenRepository{
		db: db,
	}
}

// Create stores a newly issued refresh token.
func (r *GORMRefreshTokenRepository) Create(token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if err := r.db.Create(token).Error; err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

// GetByToken retrieves a refresh token by its opaque value.
func (r *GORMRefreshTokenRepository) GetByToken(token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := r.db.First(&rt, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("refresh token: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return &rt, nil
}

// Revoke marks the token revoked. Tokens already revoked (or unknown) are
// reported as ErrNotFound so the caller can tell the cases apart from a
// storage failure.
func (r *GORMRefreshTokenRepository) Revoke(token string) error {
	res := r.db.Model(&models.RefreshToken{}).
		Where("token = ? AND revoked_at IS NULL", token).
		Update("revoked_at", time.Now())
	if res.Error != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("refresh token: %w", ErrNotFound)
	}
	return nil
}
