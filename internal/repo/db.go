package repo

import (
	"draw-poker/internal/config"
	"draw-poker/internal/model"
	"draw-poker/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := config.GlobalConfig.Database.DSN
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Log.Fatal("Failed to connect to database",
			zap.Error(err),
		)
	}

	if err := Migrate(DB); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}
}

// Migrate creates the hand history tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.HandRecord{})
}
