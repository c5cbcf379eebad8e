package repositories

import "bitstore/internal/models"

// RefreshTokenRepository defines the interface for refresh-token data
// access. Revoke marks the token unusable; revoking a token that does not
// exist or is already revoked returns ErrNotFound.
type RefreshTokenRepository interface {
	Create(token *models.RefreshToken) error
	GetByToken(token string) (*models.RefreshToken, error)
	Revoke(token string) error
}
