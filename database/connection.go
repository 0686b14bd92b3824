package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database owns the pooled GORM engine. One instance is created at startup and
// shared; sessions acquired from it are never shared between units of work.
type Database struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Config holds database configuration
type Config struct {
	URL         string        // postgresql://... or sqlite:///path
	PoolSize    int           // idle connections kept warm
	MaxOverflow int           // extra connections allowed above PoolSize
	PoolRecycle time.Duration // connection max lifetime
	Echo        bool          // log every statement
	Testing     bool          // single unpooled connection
}

// Connect opens the engine and configures its pool
func Connect(cfg Config, log zerolog.Logger) (*Database, error) {
	log = log.With().Str("component", "database").Logger()

	dialector, err := dialectorFor(cfg.URL)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if cfg.Echo {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}

	if cfg.Testing {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(0)
	} else {
		poolSize := cfg.PoolSize
		if poolSize <= 0 {
			poolSize = DefaultPoolSize
		}
		sqlDB.SetMaxIdleConns(poolSize)
		sqlDB.SetMaxOpenConns(poolSize + max(cfg.MaxOverflow, 0))
	}

	recycle := cfg.PoolRecycle
	if recycle <= 0 {
		recycle = DefaultPoolRecycle
	}
	sqlDB.SetConnMaxLifetime(recycle)

	log.Info().
		Str("dialect", dialector.Name()).
		Bool("testing", cfg.Testing).
		Msg("✅ Database engine created")

	return &Database{db: db, log: log}, nil
}

// DB returns the underlying GORM instance for direct access when needed.
// Prefer WithSession or RunInTransaction for units of work.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Close disposes the connection pool. Errors are logged, not returned.
func (d *Database) Close() {
	sqlDB, err := d.db.DB()
	if err != nil {
		d.log.Error().Err(err).Msg("Error accessing pool during shutdown")
		return
	}

	d.log.Info().Msg("📡 Closing database connection pool...")
	if err := sqlDB.Close(); err != nil {
		d.log.Error().Err(err).Msg("Error closing database pool")
		return
	}
	d.log.Info().Msg("✅ Database connection pool closed")
}

// dialectorFor picks the GORM dialector from the URL scheme
func dialectorFor(url string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(url, "postgresql://"), strings.HasPrefix(url, "postgres://"):
		return postgres.Open(url), nil
	case strings.HasPrefix(url, "sqlite:///"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite:///")), nil
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite://")), nil
	default:
		return nil, &URLError{URL: redactURL(url), Reason: "unsupported scheme"}
	}
}

// redactURL keeps the scheme only so credentials never reach the logs
func redactURL(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		return url[:i+3] + "..."
	}
	return "..."
}
