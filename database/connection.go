package database

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/koti-agri/koti-backend/internal/config"
)

// DSN builds the PostgreSQL connection string. A Cloud SQL instance name
// switches to the unix socket under /cloudsql.
func DSN(cfg *config.Config) string {
	if cfg.InstanceConnectionName != "" {
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.InstanceConnectionName, cfg.DBUser, cfg.DBPass, cfg.DBName)
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
}

// Connect opens the database used by the postgres conversation log
func Connect(cfg *config.Config) (*gorm.DB, error) {
	if cfg.InstanceConnectionName != "" {
		slog.Info("connecting to Cloud SQL via socket", "instance", cfg.InstanceConnectionName)
	} else {
		slog.Info("connecting to PostgreSQL", "host", cfg.DBHost, "port", cfg.DBPort, "db", cfg.DBName)
	}

	logLevel := logger.Warn
	if cfg.IsDevelopment() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	slog.Info("database connected")
	return db, nil
}
