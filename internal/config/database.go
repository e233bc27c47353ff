package config

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Connect opens a pooled connection. The caller owns the returned handle;
// there is no package-level DB.
func Connect(ctx context.Context, s DatabaseSettings) (*gorm.DB, error) {
	log := WithContext(ctx)

	var dialector gorm.Dialector
	switch s.Driver {
	case "postgres":
		dialector = postgres.Open(s.DSN)
	case "sqlite":
		dialector = sqlite.Open(s.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", s.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		log.WithError(err).Error("Failed to open database")
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer, and ":memory:" databases live and die
	// with their connection.
	if s.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(s.MaxOpenConns)
		sqlDB.SetMaxIdleConns(s.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(s.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		log.WithError(err).Error("Failed to ping database")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if s.Driver == "sqlite" {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable sqlite foreign keys: %w", err)
		}
	}

	log.WithField("driver", s.Driver).Info("Database connected")
	return db, nil
}
