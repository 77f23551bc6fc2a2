package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"horse.fit/lingomix/internal/config"
	"horse.fit/lingomix/internal/globaltime"
)

// ErrNoRows reports a lookup that matched nothing.
var ErrNoRows = gorm.ErrRecordNotFound

var errNotInitialized = errors.New("database pool is not initialized")

// Pool wraps the gorm handle that backs the persistent translation cache.
type Pool struct {
	gdb   *gorm.DB
	sqlDB *sql.DB
}

// NewPool connects to DATABASE_URL, sizes the connection pool from
// NP_DB_MIN_CONNS/NP_DB_MAX_CONNS and migrates the cache table.
func NewPool(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:  newGormLogger(log.New(os.Stderr, "\r\n", log.LstdFlags), resolveGormLogLevel(cfg.LogLevel, cfg.Environment)),
		NowFunc: globaltime.UTC,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql db: %w", err)
	}

	maxConns := max(1, int(cfg.DBMaxConns))
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(max(1, min(int(cfg.DBMinConns), maxConns)))
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	pool := &Pool{gdb: gdb, sqlDB: sqlDB}
	if err := pool.Ping(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := pool.autoMigrate(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return pool, nil
}

func (p *Pool) Ping(ctx context.Context) error {
	if p == nil || p.sqlDB == nil {
		return errNotInitialized
	}
	return p.sqlDB.PingContext(ctx)
}

func (p *Pool) Close() error {
	if p == nil || p.sqlDB == nil {
		return nil
	}
	return p.sqlDB.Close()
}

func IsNoRows(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, sql.ErrNoRows)
}

// newGormLogger logs slow and failed statements to w. Cache misses surface as
// ErrRecordNotFound and are not logged.
func newGormLogger(w logger.Writer, level logger.LogLevel) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// resolveGormLogLevel keeps SQL logging quiet unless the app runs at debug.
func resolveGormLogLevel(appLogLevel, environment string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(appLogLevel)) {
	case "trace", "debug":
		return logger.Info
	case "", "info", "warn", "warning":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent", "disabled":
		return logger.Silent
	}
	if strings.EqualFold(strings.TrimSpace(environment), "local") {
		return logger.Warn
	}
	return logger.Error
}
