package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/catalog/internal/cli/ui"
	"github.com/conduit-lang/catalog/internal/logging"
	"github.com/conduit-lang/catalog/internal/store"
	"github.com/conduit-lang/catalog/internal/store/migrate"
)

var migrateVerbose bool

// categorizeDatabaseError returns a short message for common database
// errors; verbose returns the full error.
func categorizeDatabaseError(err error, verbose bool) string {
	if verbose {
		return err.Error()
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "syntax"):
		return "SQL syntax error - rerun with --details"
	case strings.Contains(errStr, "violates"):
		return "constraint violation - rerun with --details"
	case strings.Contains(errStr, "already exists"):
		return "object already exists - rerun with --details"
	case strings.Contains(errStr, "permission denied"):
		return "permission denied - check database user privileges"
	case strings.Contains(errStr, "connection refused"), strings.Contains(errStr, "failed to connect"):
		return "cannot reach the database - check database.url"
	}
	return "migration failed - rerun with --details"
}

func newMigrateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long: `Apply and inspect the catalog schema.

Migrations are compiled into the binary and tracked in schema_migrations.

Available subcommands:
  up       - Apply all pending migrations
  down     - Roll back the last applied migration
  status   - Show migration status`,
	}
	cmd.PersistentFlags().BoolVar(&migrateVerbose, "details", false, "Show full database error messages")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRunner(cmd, func(ctx context.Context, runner *migrate.Runner, all []*migrate.Migration) error {
				n, err := runner.MigrateUp(ctx, all)
				if err != nil {
					return errors.New(categorizeDatabaseError(err, migrateVerbose))
				}
				if n == 0 {
					color.New(color.FgCyan).Fprintln(cmd.OutOrStdout(), "Database is up to date")
					return nil
				}
				ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Applied %d migration(s)", n), a.noColor)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last applied migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRunner(cmd, func(ctx context.Context, runner *migrate.Runner, _ []*migrate.Migration) error {
				m, err := runner.MigrateDown(ctx)
				if errors.Is(err, migrate.ErrNothingToRollback) {
					color.New(color.FgCyan).Fprintln(cmd.OutOrStdout(), "No migrations to roll back")
					return nil
				}
				if err != nil {
					return errors.New(categorizeDatabaseError(err, migrateVerbose))
				}
				ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Rolled back %d_%s", m.Version, m.Name), a.noColor)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRunner(cmd, func(ctx context.Context, runner *migrate.Runner, all []*migrate.Migration) error {
				status, err := runner.Status(ctx, all)
				if err != nil {
					return errors.New(categorizeDatabaseError(err, migrateVerbose))
				}
				renderMigrationStatus(cmd, status, a.noColor)
				return nil
			})
		},
	})

	return cmd
}

func renderMigrationStatus(cmd *cobra.Command, status *migrate.Status, noColor bool) {
	out := cmd.OutOrStdout()
	t := ui.NewTable(out, noColor, "VERSION", "NAME", "STATUS", "APPLIED AT")
	for _, m := range status.Applied {
		t.AddRow(fmt.Sprint(m.Version), m.Name, "applied", m.AppliedAt.Format("2006-01-02 15:04:05"))
	}
	for _, m := range status.Pending {
		t.AddRow(fmt.Sprint(m.Version), m.Name, "pending", "-")
	}
	t.Render()
	fmt.Fprintf(out, "\n%d total, %d applied, %d pending\n", status.Total, len(status.Applied), len(status.Pending))
}

// withRunner opens the database, prepares the tracking table and runs fn
func (a *app) withRunner(cmd *cobra.Command, fn func(ctx context.Context, runner *migrate.Runner, all []*migrate.Migration) error) error {
	if err := a.cfg.RequireDatabase(); err != nil {
		return err
	}
	ctx := cmd.Context()

	logger := zap.NewNop()
	if a.verbose {
		logger = logging.MustNew(logging.Config{Level: a.cfg.Log.Level, Development: true})
	}

	db, err := store.Open(ctx, store.Config{URL: a.cfg.Database.URL})
	if err != nil {
		return errors.New(categorizeDatabaseError(err, migrateVerbose))
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	all, err := migrate.Embedded()
	if err != nil {
		return err
	}
	runner := migrate.NewRunner(db, logger.Named("migrate"))
	if err := runner.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return fn(ctx, runner, all)
}
