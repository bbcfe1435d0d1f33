package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Tracker manages migration history in the database
type Tracker struct {
	db *sql.DB
}

// NewTracker creates a new migration tracker
func NewTracker(db *sql.DB) *Tracker {
	return &Tracker{db: db}
}

// Initialize ensures the schema_migrations table exists
func (t *Tracker) Initialize(ctx context.Context) error {
	query := `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	down_sql TEXT
)`
	if _, err := t.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to initialize migrations table: %w", err)
	}
	return nil
}

// GetApplied returns all applied migrations sorted by version
func (t *Tracker) GetApplied(ctx context.Context) ([]*Migration, error) {
	query := `SELECT version, name, applied_at, down_sql FROM schema_migrations ORDER BY version ASC`
	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	var migrations []*Migration
	for rows.Next() {
		m, err := scanMigration(rows)
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating migrations: %w", err)
	}
	return migrations, nil
}

// GetLast returns the most recently applied migration, or nil if none exist
func (t *Tracker) GetLast(ctx context.Context) (*Migration, error) {
	query := `SELECT version, name, applied_at, down_sql FROM schema_migrations ORDER BY version DESC LIMIT 1`
	m, err := scanMigration(t.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// Record marks a migration as applied in a transaction
func (t *Tracker) Record(ctx context.Context, tx *sql.Tx, m *Migration) error {
	query := `INSERT INTO schema_migrations (version, name, down_sql) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, query, m.Version, m.Name, m.Down); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

// Remove removes a migration record in a transaction
func (t *Tracker) Remove(ctx context.Context, tx *sql.Tx, version int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, version)
	if err != nil {
		return fmt.Errorf("failed to remove migration: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("migration version %d not found", version)
	}
	return nil
}

// GetPending returns migrations that haven't been applied yet
func (t *Tracker) GetPending(ctx context.Context, all []*Migration) ([]*Migration, error) {
	applied, err := t.GetApplied(ctx)
	if err != nil {
		return nil, err
	}
	return pendingOf(all, applied), nil
}

func pendingOf(all, applied []*Migration) []*Migration {
	appliedSet := make(map[int64]bool, len(applied))
	for _, m := range applied {
		appliedSet[m.Version] = true
	}

	var pending []*Migration
	for _, m := range all {
		if !appliedSet[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMigration(row scanner) (*Migration, error) {
	m := &Migration{Applied: true}
	var downSQL sql.NullString
	if err := row.Scan(&m.Version, &m.Name, &m.AppliedAt, &downSQL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan migration: %w", err)
	}
	m.Down = downSQL.String
	return m, nil
}
