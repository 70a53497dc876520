package db

import (
	"fmt"
	"log/slog"

	"github.com/sirdesai22/registration-dashboard/internal/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB, log *slog.Logger) error {
	err := db.AutoMigrate(
		&models.Registration{},
		&models.Outbox{},
		&models.DLQ{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Info("✅ database migrated successfully")
	return nil
}
