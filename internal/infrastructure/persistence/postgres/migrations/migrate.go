package migrations

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sushil23harsana/Task-management/internal/domain/analytics"
	"github.com/sushil23harsana/Task-management/internal/domain/task"
	"github.com/sushil23harsana/Task-management/internal/domain/user"
	"github.com/sushil23harsana/Task-management/internal/infrastructure/persistence/postgres/connection"
)

// MigrationRecord tracks the migration history
type MigrationRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"not null;unique"`
	Version   int       `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for migration records
func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *connection.Database, logger *zap.Logger) error {
	logger.Info("Starting automatic database migration...")

	// Enable UUID extension for PostgreSQL
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		logger.Error("Failed to create UUID extension", zap.Error(err))
		return fmt.Errorf("failed to create UUID extension: %v", err)
	}

	// Create migrations table if it doesn't exist
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		logger.Error("Failed to create migrations table", zap.Error(err))
		return fmt.Errorf("failed to create migrations table: %v", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		txDB := &connection.Database{DB: tx}

		var lastVersion int
		if err := txDB.Model(&MigrationRecord{}).Select("COALESCE(MAX(version), 0)").Scan(&lastVersion).Error; err != nil {
			return fmt.Errorf("failed to get last version: %v", err)
		}

		// Order matters due to foreign key relationships
		models := []interface{}{
			&user.User{},
			&task.Category{},
			&task.Task{},
			&task.SubTask{},
			&task.TaskComment{},
			&task.DayPlan{},
			&analytics.UserAnalytics{},
			&analytics.WeeklyReport{},
			&analytics.AIInsight{},
			&analytics.TaskPrediction{},
			&analytics.FocusSession{},
		}

		for i, model := range models {
			modelName := fmt.Sprintf("%T", model)

			var record MigrationRecord
			err := txDB.Where("name = ?", modelName).First(&record).Error
			isNewMigration := errors.Is(err, gorm.ErrRecordNotFound)

			if err := txDB.AutoMigrate(model); err != nil {
				logger.Error("Failed to migrate model",
					zap.String("model", modelName),
					zap.Error(err),
				)
				return fmt.Errorf("failed to migrate %s: %v", modelName, err)
			}

			if isNewMigration {
				record = MigrationRecord{
					Name:      modelName,
					Version:   lastVersion + i + 1,
					AppliedAt: time.Now(),
				}
				if err := txDB.Create(&record).Error; err != nil {
					return fmt.Errorf("failed to record migration for %s: %v", modelName, err)
				}
				logger.Info("Applied new migration",
					zap.String("model", modelName),
					zap.Int("version", record.Version),
				)
			}
		}

		if err := createDefaultCategories(tx); err != nil {
			return err
		}

		logger.Info("Database migration completed successfully")
		return nil
	})
}

// createDefaultCategories seeds the shared category list on first run
func createDefaultCategories(db *gorm.DB) error {
	categories := []task.Category{
		{Name: "Work", Color: "#EF4444", Icon: "💼"},
		{Name: "Personal", Color: "#3B82F6", Icon: "🏠"},
		{Name: "Health", Color: "#10B981", Icon: "💪"},
		{Name: "Learning", Color: "#F59E0B", Icon: "📚"},
		{Name: "Finance", Color: "#8B5CF6", Icon: "💰"},
		{Name: "Shopping", Color: "#EC4899", Icon: "🛒"},
	}

	for _, category := range categories {
		var existing task.Category
		err := db.Where("name = ?", category.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&category).Error; err != nil {
			return fmt.Errorf("failed to seed category %s: %v", category.Name, err)
		}
	}
	return nil
}
