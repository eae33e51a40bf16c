package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/smallerp/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database is the Postgres handle shared by every repository
type Database struct {
	DB  *gorm.DB
	sql *sql.DB
}

// NewDatabase connects to Postgres, sizes the pool from cfg and verifies the
// connection. A nil gormLogger silences GORM.
func NewDatabase(ctx context.Context, cfg *config.DatabaseConfig, gormLogger gormlogger.Interface) (*Database, error) {
	db, err := Open(postgres.Open(cfg.DSN()), gormLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	d, err := wrap(db)
	if err != nil {
		return nil, err
	}

	d.sql.SetMaxOpenConns(cfg.MaxOpenConns)
	d.sql.SetMaxIdleConns(cfg.MaxIdleConns)
	d.sql.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	d.sql.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := d.Ping(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

func wrap(db *gorm.DB) (*Database, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return &Database{DB: db, sql: sqlDB}, nil
}

// Open opens a GORM handle configured the way the repositories expect:
// unique violations surface as gorm.ErrDuplicatedKey, single statements run
// without an implicit transaction and timestamps are stored in UTC.
func Open(dialector gorm.Dialector, gormLogger gormlogger.Interface) (*gorm.DB, error) {
	if gormLogger == nil {
		gormLogger = gormlogger.Discard
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// Ping verifies the connection; used by startup and the health endpoint
func (d *Database) Ping(ctx context.Context) error {
	if err := d.sql.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// SQL exposes the pool for tools that speak database/sql, such as the
// migrator
func (d *Database) SQL() *sql.DB {
	return d.sql
}

// Close closes the pool
func (d *Database) Close() error {
	return d.sql.Close()
}
