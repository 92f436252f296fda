// Package migration applies the database schema. Development environments
// use gorm AutoMigrate for fast iteration; everything else runs versioned
// goose SQL migrations.
package migration

import (
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"calmora/internal/infrastructure/persistence/models"
	"calmora/internal/shared/logger"
)

//go:embed scripts/*.sql
var migrationScripts embed.FS

// AllModels lists every persistence model for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.PackageModel{},
		&models.CouponModel{},
		&models.SubscriptionModel{},
		&models.EntitlementSnapshotModel{},
		&models.PaymentModel{},
		&models.CategoryModel{},
		&models.TrackModel{},
		&models.ProgramModel{},
		&models.CustomProgramModel{},
		&models.FavoriteModel{},
		&models.ListeningSessionModel{},
		&models.EnrollmentModel{},
		&models.NotificationModel{},
	}
}

type Manager struct {
	environment string
	logger      *slog.Logger
}

func NewManager(environment string) *Manager {
	return &Manager{
		environment: strings.ToLower(environment),
		logger:      logger.WithComponent("migration"),
	}
}

func (m *Manager) Migrate(db *gorm.DB) error {
	if m.environment == "debug" || m.environment == "development" {
		m.logger.Info("running gorm auto-migration", "models", len(AllModels()))
		if err := db.AutoMigrate(AllModels()...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		return nil
	}
	return m.runGoose(db)
}

func (m *Manager) runGoose(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	goose.SetBaseFS(migrationScripts)
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	m.logger.Info("running goose migrations")
	if err := goose.Up(sqlDB, "scripts"); err != nil {
		return fmt.Errorf("goose migration failed: %w", err)
	}
	return nil
}

// Rollback reverts the most recent goose migration.
func (m *Manager) Rollback(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	goose.SetBaseFS(migrationScripts)
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Down(sqlDB, "scripts"); err != nil {
		return fmt.Errorf("goose rollback failed: %w", err)
	}
	return nil
}
