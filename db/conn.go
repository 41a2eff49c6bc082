// Package db opens the database connection and keeps the schema up to date
package db

import (
	"errors"
	"fmt"
	"os"
	"time"

	"faithconnect/community-api/internal/model"
	"faithconnect/community-api/pkg/util"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver string
	DSN    string
	// MaxOpenConns of 0 leaves the database/sql default in place
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

func New(o Options) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch o.Driver {
	case DriverSQLite, "":
		if o.DSN == "" {
			o.DSN = "database.db"
		}

		// If running in a docker container don't allow the sqlite file to be created.
		// The host should instead mount it using volumes
		if util.InContainer() && o.DSN != ":memory:" {
			if _, err := os.Stat(o.DSN); errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to %s", o.DSN)
			}
		}

		dialector = sqlite.Open(o.DSN)
	case DriverPostgres:
		if o.DSN == "" {
			return nil, errors.New("no postgres dsn provided")
		}

		dialector = postgres.Open(o.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", o.Driver)
	}

	if o.LogLevel == 0 {
		o.LogLevel = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(o.LogLevel),
		// Timestamps are compared as strings by SQLite, keep them in one zone
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database, %w", o.Driver, err)
	}

	if o.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Order matters, posts reference users
	err := db.AutoMigrate(&model.User{}, &model.Post{}, &model.Prayer{})
	if err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return nil
}

// NewMemory returns a migrated in-memory SQLite database. Useful for tests
func NewMemory() (*gorm.DB, error) {
	return New(Options{
		Driver:       DriverSQLite,
		DSN:          ":memory:",
		MaxOpenConns: 1,
		LogLevel:     logger.Silent,
	})
}
