// Package testutil opens migrated databases for repository and gateway
// tests. Import it from external _test packages only.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/config"
	"github.com/saulo-duarte/scent-quiz/internal/gateway"
	"github.com/saulo-duarte/scent-quiz/internal/user"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	pgOnce sync.Once
	pgDB   *gorm.DB
	pgErr  error
)

// DB returns a fresh in-memory SQLite database with the full schema. When
// TEST_POSTGRES_DSN is set it returns a transaction on that database instead,
// rolled back at cleanup.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	logrus.SetLevel(logrus.WarnLevel)

	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		return Tx(tb, postgres(tb, dsn))
	}

	ctx := context.Background()
	db, err := config.Connect(ctx, config.DatabaseSettings{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		tb.Fatalf("failed to open sqlite: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := gateway.Migrate(ctx, db); err != nil {
		tb.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func postgres(tb testing.TB, dsn string) *gorm.DB {
	tb.Helper()
	pgOnce.Do(func() {
		ctx := context.Background()
		pgDB, pgErr = config.Connect(ctx, config.DatabaseSettings{
			Driver:       "postgres",
			DSN:          dsn,
			MaxOpenConns: 5,
			MaxIdleConns: 1,
		})
		if pgErr != nil {
			return
		}
		pgErr = gateway.Migrate(ctx, pgDB)
	})
	if pgErr != nil {
		tb.Fatalf("failed to init test db: %v", pgErr)
	}
	return pgDB
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

// User inserts a user with a unique email.
func User(tb testing.TB, db *gorm.DB, name string) *user.User {
	tb.Helper()
	u := &user.User{
		Name:   name,
		Email:  uuid.NewString() + "@example.com",
		Age:    30,
		Gender: user.GenderOther,
	}
	if err := user.NewRepository(db).Create(context.Background(), u); err != nil {
		tb.Fatalf("create user: %v", err)
	}
	return u
}
