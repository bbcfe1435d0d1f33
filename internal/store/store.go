// Package store is the PostgreSQL metadata store of the catalog. It owns
// components, functions, parameters and the parameter type list, and it
// implements the editing core's Store port directly.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/conduit-lang/catalog/internal/store/cache"
	"github.com/conduit-lang/catalog/internal/store/transaction"
)

// Config holds connection settings
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Options tunes a Store
type Options struct {
	// Cache holds the parameter type list; nil disables caching
	Cache cache.Cache
	// TypesTTL is how long the type list is cached; zero uses the cache default
	TypesTTL time.Duration
	// SlowQuery is the duration above which statements are logged at debug
	SlowQuery time.Duration
	Logger    *zap.Logger
}

// Store implements the metadata store on database/sql.
type Store struct {
	db       *sql.DB
	txm      *transaction.Manager
	cache    cache.Cache
	typesTTL time.Duration
	slow     time.Duration
	logger   *zap.Logger
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Open connects to PostgreSQL through the pgx driver and verifies the
// connection.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database url is required")
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// New wraps an open database handle.
func New(db *sql.DB, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	slow := opts.SlowQuery
	if slow == 0 {
		slow = 200 * time.Millisecond
	}
	return &Store{
		db:       db,
		txm:      transaction.NewManager(db),
		cache:    opts.Cache,
		typesTTL: opts.TypesTTL,
		slow:     slow,
		logger:   logger,
	}
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the cache. The database handle belongs to the caller.
func (s *Store) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

// observe logs statements slower than the configured threshold.
func (s *Store) observe(op string, start time.Time) {
	if d := time.Since(start); d >= s.slow {
		s.logger.Debug("slow store operation", zap.String("op", op), zap.Duration("duration", d))
	}
}

func rowsAffected(result sql.Result) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
