package models

import "time"

// RefreshToken is the opaque refresh credential issued next to a JWT
// access token. Logout revokes the row; expired or revoked tokens are
// never honored again.
type RefreshToken struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Token     string     `json:"token" gorm:"uniqueIndex;type:varchar(36);not null"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Revoked reports whether the token has been explicitly revoked.
func (t *RefreshToken) Revoked() bool {
	return t.RevokedAt != nil
}

// Expired reports whether the token has passed its expiry.
func (t *RefreshToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}
