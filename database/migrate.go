package database

import (
	"fmt"

	"cleanops_backend/internal/config"
	"cleanops_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm opens the postgres connection from config, reusing the
// handle across calls.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Location{},
		&models.ChecklistTemplate{},
		&models.ChecklistTemplateItem{},
		&models.Job{},
		&models.JobCheckEvent{},
		&models.JobChecklistItem{},
		&models.JobPhoto{},
	)
}
