package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrescamacho/farmsim-go/internal/adapters/persistence"
	"github.com/andrescamacho/farmsim-go/internal/infrastructure/config"
)

// NewConnection opens the archive database described by cfg and migrates
// the schema unless cfg.SkipMigrate is set
func NewConnection(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Type {
	case "postgres":
		dsn := cfg.URL
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
		}
		dialector = postgres.Open(dsn)

	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = ":memory:"
		}
		dialector = sqlite.Open(path)

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying db: %w", err)
	}
	if cfg.Type == "postgres" {
		sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpen)
		sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdle)
		sqlDB.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	} else {
		// every sqlite connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	}

	if !cfg.SkipMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return db, nil
}

// NewTestConnection creates a migrated in-memory SQLite database
func NewTestConnection() (*gorm.DB, error) {
	return NewConnection(&config.DatabaseConfig{
		Type: "sqlite",
		Path: ":memory:",
	})
}

// AutoMigrate creates or updates the archive tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&persistence.RunModel{},
		&persistence.DecisionModel{},
		&persistence.WeeklyReportModel{},
	)
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
