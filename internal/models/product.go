package models

import "time"

// Product represents a catalog item. CategoryID is required and
// CreatedByID is bound server-side at creation; both CreatedAt and
// CreatedByID are never touched by updates.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	CategoryID  string    `json:"category_id" gorm:"type:varchar(36);not null;index"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Price       float64   `json:"price" gorm:"not null"`
	Stock       int       `json:"stock" gorm:"not null"`
	Description string    `json:"description" gorm:"type:varchar(200)"`
	CreatedByID string    `json:"created_by" gorm:"type:varchar(36);index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
