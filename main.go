package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/kollydap/workcheck/internal/config"
	"github.com/kollydap/workcheck/internal/database"
	"github.com/kollydap/workcheck/internal/models"
	"github.com/kollydap/workcheck/internal/router"
	"github.com/kollydap/workcheck/internal/util"

	"gorm.io/gorm"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// seed the first superuser
	if err := seedFirstAdmin(db, cfg); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// setup router and start server
	r := router.SetupRouter(cfg, db)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("workcheck listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

// seedFirstAdmin creates the configured admin account when it does not exist.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}

	var user models.User
	err := db.Where("email = ?", cfg.Admin.Email).First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hash, err := util.HashPassword(cfg.Admin.Password, cfg.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	fullName := cfg.Admin.FullName
	if fullName == "" {
		fullName = "Initial Admin"
	}

	admin := models.User{
		Email:        cfg.Admin.Email,
		PasswordHash: hash,
		FullName:     fullName,
		IsActive:     true,
		IsAdmin:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Println("created first superuser")
	return nil
}
