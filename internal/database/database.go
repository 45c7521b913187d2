package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/onegreenvn/campaign-mailer-backend/internal/config"
	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
)

// DB is the global database instance
var DB *gorm.DB

// indexes that AutoMigrate cannot express through struct tags
var indexMigrations = []struct {
	name string
	sql  string
}{
	// Template names are unique regardless of case
	{"idx_email_templates_name_lower", "CREATE UNIQUE INDEX IF NOT EXISTS idx_email_templates_name_lower ON email_templates (LOWER(name))"},
	// Serves the emails && ARRAY[...] ownership lookup
	{"idx_recipients_emails_gin", "CREATE INDEX IF NOT EXISTS idx_recipients_emails_gin ON recipients USING GIN (emails)"},
}

// InitDB initializes the database connection and performs migrations
func InitDB() (*gorm.DB, error) {
	host := config.GetEnv("DB_HOST", "")
	port := config.GetEnv("DB_PORT", "")
	user := config.GetEnv("DB_USER", "")
	password := config.GetEnv("DB_PASSWORD", "")
	dbname := config.GetEnv("DB_NAME", "")
	sslmode := config.GetEnv("DB_SSLMODE", "disable")

	if host == "" || port == "" || user == "" || password == "" || dbname == "" {
		return nil, fmt.Errorf("missing required database environment variables. Please check your .env file")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	gormLogger := logger.New(
		logrus.StandardLogger(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS public").Error; err != nil {
		return nil, fmt.Errorf("failed to create public schema: %w", err)
	}
	if err := db.Exec("SET search_path TO public").Error; err != nil {
		return nil, fmt.Errorf("failed to set search_path: %w", err)
	}

	// gen_random_uuid() is built in from Postgres 13; pgcrypto provides it on older servers
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto SCHEMA public").Error; err != nil {
		return nil, fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.EmailTemplate{},
		&models.Recipient{},
		&models.CampaignLog{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	for _, migration := range indexMigrations {
		if err := db.Exec(migration.sql).Error; err != nil {
			logrus.Warnf("Failed to create index %s: %v", migration.name, err)
		}
	}

	DB = db

	logrus.Info("Database connection established and migrations completed")
	return db, nil
}

// GetDB returns the global database instance
func GetDB() *gorm.DB {
	return DB
}
