package commands

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/catalog/internal/logging"
	"github.com/conduit-lang/catalog/internal/store"
	"github.com/conduit-lang/catalog/internal/store/cache"
	"github.com/conduit-lang/catalog/internal/store/migrate"
	"github.com/conduit-lang/catalog/internal/web/handlers"
	"github.com/conduit-lang/catalog/internal/web/middleware"
	"github.com/conduit-lang/catalog/internal/web/router"
	"github.com/conduit-lang/catalog/internal/web/server"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		host        string
		port        int
		autoMigrate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog HTTP API",
		Long: `Serve the catalog over HTTP/JSON backed by PostgreSQL.

The parameter type list is cached in memory or Redis (cache.driver).
SIGINT or SIGTERM drains in-flight requests before exiting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if err := cfg.RequireDatabase(); err != nil {
				return err
			}

			logger, err := logging.New(cfg.Log.Logging())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			db, err := store.Open(ctx, store.Config{
				URL:             cfg.Database.URL,
				MaxOpenConns:    cfg.Database.MaxOpenConns,
				MaxIdleConns:    cfg.Database.MaxIdleConns,
				ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			})
			if err != nil {
				return err
			}

			if autoMigrate {
				if err := migrateUp(ctx, db, logger); err != nil {
					_ = db.Close()
					return err
				}
			}

			typeCache, err := newTypeCache(a)
			if err != nil {
				_ = db.Close()
				return err
			}

			st := store.New(db, store.Options{
				Cache:     typeCache,
				TypesTTL:  cfg.Cache.TTL,
				SlowQuery: cfg.Database.SlowQuery,
				Logger:    logger.Named("store"),
			})

			srvCfg := server.DefaultConfig(newHandler(st, a, logger))
			srvCfg.Address = cfg.Server.Addr()
			srvCfg.ReadTimeout = cfg.Server.ReadTimeout
			srvCfg.WriteTimeout = cfg.Server.WriteTimeout
			srv, err := server.New(srvCfg)
			if err != nil {
				_ = st.Close()
				_ = db.Close()
				return err
			}

			gs := server.NewGracefulShutdown(srv, &server.ShutdownConfig{
				Timeout: cfg.Server.ShutdownTimeout,
				Logger:  logger,
			})
			gs.RegisterHook(func(context.Context) error { return st.Close() })
			gs.RegisterHook(func(context.Context) error { return db.Close() })

			logger.Info("starting catalog api",
				zap.String("version", Version),
				zap.String("addr", cfg.Server.Addr()),
				zap.String("cache", cfg.Cache.Driver),
			)
			return gs.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply pending migrations before serving")

	return cmd
}

// newTypeCache builds the cache for the parameter type list, or nil when
// cache.driver is none.
func newTypeCache(a *app) (cache.Cache, error) {
	cc := a.cfg.Cache
	if cc.Driver == "none" {
		return nil, nil
	}
	cacheCfg := cache.DefaultConfig()
	if cc.TTL > 0 {
		cacheCfg.DefaultTTL = cc.TTL
	}
	c, err := cache.New(cache.Options{
		Driver:        cc.Driver,
		RedisAddr:     cc.Redis.Addr,
		RedisPassword: cc.Redis.Password,
		RedisDB:       cc.Redis.DB,
		Config:        cacheCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s cache: %w", cc.Driver, err)
	}
	return c, nil
}

// newHandler assembles the middleware stack and routes
func newHandler(st handlers.Store, a *app, logger *zap.Logger) *router.Router {
	stack := middleware.NewChain(
		middleware.RequestID(),
		middleware.Logging(logger.Named("http")),
		middleware.Recovery(logger),
		middleware.CORS(middleware.CORSConfig{AllowedOrigins: a.cfg.Server.CORSOrigins, MaxAge: 600}),
		middleware.Timeout(a.cfg.Server.RequestTimeout),
	)

	r := router.NewRouter()
	r.Use(stack.Middlewares()...)
	handlers.New(st, logger.Named("handlers")).Register(r)

	for _, route := range r.Routes() {
		logger.Debug("route registered", zap.String("route", route.String()))
	}
	return r
}

func migrateUp(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	migrations, err := migrate.Embedded()
	if err != nil {
		return err
	}
	runner := migrate.NewRunner(db, logger.Named("migrate"))
	if err := runner.Initialize(ctx); err != nil {
		return err
	}
	_, err = runner.MigrateUp(ctx, migrations)
	return err
}
