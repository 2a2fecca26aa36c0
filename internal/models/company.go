package models

import "time"

// Company represents an employer whose employees check in and out.
// Latitude/Longitude mark the authorized check-in site when set.
type Company struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Address     string    `gorm:"size:255" json:"address"`
	Description string    `gorm:"size:255" json:"description"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
