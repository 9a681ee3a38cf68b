package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Arghadee4102H/ASEarnHub/internal/logger"
	"github.com/Arghadee4102H/ASEarnHub/internal/models"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
		// services rely on gorm.ErrDuplicatedKey for unique-index races
		TranslateError: true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Log.Info("Database connection established")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	targets := []interface{}{
		&models.User{},
		&models.ChannelCompletion{},
		&models.TaskEvent{},
		&models.Withdrawal{},
	}

	for _, model := range targets {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration failed for %T: %w", model, err)
		}
	}

	logger.Log.Info("Database migrations completed")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
