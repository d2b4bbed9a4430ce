package config

import (
	"errors"
	"time"

	"github.com/yoockh/resumeprep/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var PostgresDB *gorm.DB

func InitPostgres(uri string) error {
	if uri == "" {
		return errors.New("POSTGRES_URI is not set")
	}
	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	PostgresDB = db
	return nil
}

// MigratePostgres creates or updates the relational tables.
func MigratePostgres(db *gorm.DB) error {
	if db == nil {
		return errors.New("postgres handle is nil; call InitPostgres() first")
	}
	return db.AutoMigrate(
		&models.ResumeFile{},
		&models.ResumeProfile{},
		&models.AssessmentReport{},
		&models.ConversationLog{},
	)
}
