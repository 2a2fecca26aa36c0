package database

import (
	"fmt"

	"github.com/kollydap/workcheck/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Attendance{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
