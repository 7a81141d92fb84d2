package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zulandar/switchboard/internal/config"
	"github.com/zulandar/switchboard/internal/models"
)

// AllModels returns every model that participates in schema migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.StageRule{},
		&models.Device{},
		&models.Package{},
		&models.ChatThread{},
		&models.BotThread{},
	}
}

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SeedPackages upserts the configured billing packages, keyed by name.
// Re-seeding updates the amount of an existing package rather than
// duplicating it.
func SeedPackages(db *gorm.DB, packages []config.PackageConfig) error {
	for _, pc := range packages {
		pkg := models.Package{
			Name:   pc.Name,
			Amount: pc.Amount,
		}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount"}),
		}).Create(&pkg)
		if result.Error != nil {
			return fmt.Errorf("db: seed package %q: %w", pc.Name, result.Error)
		}
	}
	return nil
}
