package models

import "time"

// User represents an employee account.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"size:128;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FullName     string     `gorm:"size:64" json:"full_name"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	IsAdmin      bool       `gorm:"not null;default:false" json:"is_admin"`
	CompanyID    *uint      `gorm:"index" json:"company_id"`
	LastLoginAt  *time.Time `json:"last_login_at"` // 最近登录时间
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Company *Company `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}
