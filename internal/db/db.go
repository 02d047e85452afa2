package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens a GORM database connection from a URL of the form
// "sqlite://path" or "postgres://dsn". The sqlite driver is the pure-Go
// one, so local runs need no cgo.
func Init(dbURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch {
	case strings.HasPrefix(dbURL, "postgres://"):
		dialector = postgres.Open(strings.TrimPrefix(dbURL, "postgres://"))
	case strings.HasPrefix(dbURL, "sqlite://"):
		dialector = sqlite.Open(strings.TrimPrefix(dbURL, "sqlite://"))
	default:
		return nil, fmt.Errorf("invalid database URL %q: must start with sqlite:// or postgres://", dbURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	return db, nil
}
