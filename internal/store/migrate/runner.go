package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/conduit-lang/catalog/internal/store/transaction"
)

// ErrNothingToRollback is returned by MigrateDown when no migration has been applied
var ErrNothingToRollback = errors.New("no migrations to rollback")

// Status summarizes applied and pending migrations
type Status struct {
	Total       int
	Applied     []*Migration
	Pending     []*Migration
	LastApplied *Migration
}

// Runner executes migrations, each in its own transaction
type Runner struct {
	tracker *Tracker
	txm     *transaction.Manager
	logger  *zap.Logger
}

// NewRunner creates a new migration runner
func NewRunner(db *sql.DB, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		tracker: NewTracker(db),
		txm:     transaction.NewManager(db),
		logger:  logger,
	}
}

// Initialize sets up the migration tracking table
func (r *Runner) Initialize(ctx context.Context) error {
	return r.tracker.Initialize(ctx)
}

// MigrateUp applies all pending migrations in version order and returns how
// many were applied.
func (r *Runner) MigrateUp(ctx context.Context, migrations []*Migration) (int, error) {
	pending, err := r.tracker.GetPending(ctx, migrations)
	if err != nil {
		return 0, fmt.Errorf("failed to get pending migrations: %w", err)
	}

	if len(pending) == 0 {
		r.logger.Info("no pending migrations")
		return 0, nil
	}

	for i, m := range pending {
		start := time.Now()
		if err := r.apply(ctx, m); err != nil {
			return i, fmt.Errorf("migration %d_%s failed: %w", m.Version, m.Name, err)
		}
		r.logger.Info("applied migration",
			zap.Int64("version", m.Version),
			zap.String("name", m.Name),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return len(pending), nil
}

// MigrateDown rolls back the last applied migration and returns it.
func (r *Runner) MigrateDown(ctx context.Context) (*Migration, error) {
	last, err := r.tracker.GetLast(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get last migration: %w", err)
	}
	if last == nil {
		return nil, ErrNothingToRollback
	}
	if last.Down == "" {
		return nil, fmt.Errorf("migration %d_%s has no down migration", last.Version, last.Name)
	}

	err = r.txm.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, last.Down); err != nil {
			return fmt.Errorf("failed to execute rollback SQL: %w", err)
		}
		return r.tracker.Remove(ctx, tx, last.Version)
	})
	if err != nil {
		return nil, fmt.Errorf("rollback of %d_%s failed: %w", last.Version, last.Name, err)
	}

	r.logger.Info("rolled back migration", zap.Int64("version", last.Version), zap.String("name", last.Name))
	return last, nil
}

// Status returns the current migration status
func (r *Runner) Status(ctx context.Context, all []*Migration) (*Status, error) {
	applied, err := r.tracker.GetApplied(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	status := &Status{
		Total:   len(all),
		Applied: applied,
		Pending: pendingOf(all, applied),
	}
	if len(applied) > 0 {
		status.LastApplied = applied[len(applied)-1]
	}
	return status, nil
}

func (r *Runner) apply(ctx context.Context, m *Migration) error {
	return r.txm.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, m.Up); err != nil {
			return fmt.Errorf("failed to execute migration SQL: %w", err)
		}
		return r.tracker.Record(ctx, tx, m)
	})
}
