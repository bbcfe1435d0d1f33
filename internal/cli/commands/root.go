// Package commands implements the catalog command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/catalog/internal/cli/config"
	"github.com/conduit-lang/catalog/internal/cli/ui"
	"github.com/conduit-lang/catalog/internal/client"
	"github.com/conduit-lang/catalog/internal/editor"
	"github.com/conduit-lang/catalog/internal/logging"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// reportedError marks a failure the notifier already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// app carries what every command needs once flags and config are resolved
type app struct {
	configFile  string
	apiURL      string
	databaseURL string
	logLevel    string
	noColor     bool
	verbose     bool

	cfg    *config.Config
	logger *zap.Logger

	// interactive reports whether prompts may be shown
	interactive func() bool
}

func (a *app) load(cmd *cobra.Command) error {
	v, err := config.NewViper(a.configFile)
	if err != nil {
		return err
	}
	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"client.api_url": "api-url",
		"database.url":   "database-url",
		"log.level":      "log-level",
	} {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.noColor {
		color.NoColor = true
	}
	if a.interactive == nil {
		a.interactive = stdinIsTerminal
	}
	return nil
}

// cliLogger returns the logger for client-side commands: silent unless
// --verbose asks for editor events on stderr.
func (a *app) cliLogger() *zap.Logger {
	if a.logger != nil {
		return a.logger
	}
	a.logger = zap.NewNop()
	if a.verbose {
		a.logger = logging.MustNew(logging.Config{Level: "debug", Development: true})
	}
	return a.logger
}

// api builds the HTTP client for the configured server
func (a *app) api() (*client.Client, error) {
	return client.New(client.Config{BaseURL: a.cfg.Client.APIURL, Timeout: a.cfg.Client.Timeout})
}

// editor wires the editing core to the API with terminal notifications
func (a *app) editor(cmd *cobra.Command) (*editor.Editor, error) {
	c, err := a.api()
	if err != nil {
		return nil, err
	}
	notifier := editor.MultiNotifier{
		ui.NewNotifier(cmd.OutOrStdout(), cmd.ErrOrStderr(), a.noColor),
		editor.NewLogNotifier(a.cliLogger().Named("editor")),
	}
	return editor.New(c, notifier), nil
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog of API components, functions and parameters",
		Long: color.CyanString(`catalog - API component catalog

Describes integrated external APIs as components exposing functions, each
with an ordered list of typed parameters, so a caller can rebuild how to
invoke a function without reading its source.

  catalog serve                 run the HTTP API on PostgreSQL
  catalog migrate up            create or upgrade the schema
  catalog functions edit 10     edit a function's parameters`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./catalog.yml or $HOME/.catalog/catalog.yml)")
	flags.StringVar(&a.apiURL, "api-url", "", "catalog API base URL")
	flags.StringVar(&a.databaseURL, "database-url", "", "PostgreSQL connection URL")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log editor events to stderr")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newMigrateCommand(a))
	rootCmd.AddCommand(newComponentsCommand(a))
	rootCmd.AddCommand(newFunctionsCommand(a))
	rootCmd.AddCommand(newTypesCommand(a))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			kv := ui.NewKeyValueTable(out, color.NoColor)
			kv.AddRow("catalog version", Version)
			kv.AddRow("Git commit", GitCommit)
			kv.AddRow("Build date", BuildDate)
			kv.AddRow("Go version", goVer)
			kv.Render()
		},
	}
}

// Execute runs the root command. Cancelling ctx cancels the running
// command, including an open edit session.
func Execute(ctx context.Context) error {
	return execute(ctx, NewRootCommand())
}

// execute runs cmd and prints errors the notifier did not already report
func execute(ctx context.Context, cmd *cobra.Command) error {
	if err := cmd.ExecuteContext(ctx); err != nil {
		var r *reportedError
		if !errors.As(err, &r) {
			errorColor := color.New(color.FgRed, color.Bold)
			errorColor.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return err
	}
	return nil
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, raw)
	}
	return id, nil
}
