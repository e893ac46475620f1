package database

import (
	"hostelhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

// MigrationModels lists every table owned by the API, parents before children.
func MigrationModels() []any {
	return []any{
		&models.User{},
		&models.Hostel{},
		&models.Facility{},
		&models.ServiceRequest{},
	}
}

// AutoMigrate creates the tables first and adds foreign keys in a second pass so
// that model order never matters.
func AutoMigrate(db *gorm.DB) error {
	log := logger.New("database").Function("AutoMigrate")
	tables := MigrationModels()

	log.Info("Phase 1: Creating tables without foreign key constraints")
	db.Config.DisableForeignKeyConstraintWhenMigrating = true
	for _, table := range tables {
		if db.Migrator().HasTable(table) {
			continue
		}
		log.Info("Creating table structure", "table", table)
		if err := db.Migrator().CreateTable(table); err != nil {
			return log.Err("failed to create table structure", err)
		}
	}

	log.Info("Phase 2: Adding foreign key constraints and relationships")
	db.Config.DisableForeignKeyConstraintWhenMigrating = false
	if err := db.AutoMigrate(tables...); err != nil {
		return log.Err("failed to add constraints", err)
	}

	log.Info("Database migration completed successfully")
	return nil
}
