package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/photostore"
	"github.com/dmitrymomot/photostore/handlers"
	"github.com/dmitrymomot/photostore/middlewares"
	"github.com/dmitrymomot/photostore/pkg/cache"
	"github.com/dmitrymomot/photostore/pkg/health"
	"github.com/dmitrymomot/photostore/pkg/logger"
	"github.com/dmitrymomot/photostore/pkg/metrics"
	"github.com/dmitrymomot/photostore/pkg/redis"
	"github.com/dmitrymomot/photostore/pkg/session"
	"github.com/dmitrymomot/photostore/pkg/storage"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd)
		},
	}
}

func (c *cli) serve(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := c.cfg

	log, flush := logger.New(cfg.Log,
		middlewares.RequestIDExtractor(),
		middlewares.UserIDExtractor(),
	)
	defer flush()

	m := metrics.New(prometheus.NewRegistry())

	svc := storage.New(cfg.Storage(),
		storage.WithLogger(log),
		storage.WithObserver(m),
	)

	caps := svc.Capabilities()
	log.Info("storage configured",
		"active", caps.Active.String(),
		"override", caps.Override,
		"ready", caps.Provider(caps.Active).ServerUsable,
	)

	healthOpts := []photostore.HealthOption{
		photostore.WithReadinessCheck("storage", health.Optional(storage.Healthcheck(svc))),
	}
	runOpts := []photostore.RunOption{
		photostore.Logger(log),
		photostore.WithContext(ctx),
		photostore.ShutdownTimeout(cfg.Server.ShutdownTimeout),
		photostore.ReadHeaderTimeout(cfg.Server.ReadHeaderTimeout),
	}

	var store session.Store = session.NewMemoryStore()
	if cfg.Redis.Enabled() {
		client, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		store = session.NewRedisStore(client, cfg.Auth.SessionPrefix)
		if ttl := cfg.Auth.SessionCacheTTL; ttl > 0 {
			mem := cache.NewMemory[session.Session](cache.WithMaxEntries(10_000))
			store = session.NewCachedStore(store, mem, ttl)
			runOpts = append(runOpts, photostore.ShutdownHook(func(context.Context) error { return mem.Close() }))
		}
		healthOpts = append(healthOpts, photostore.WithReadinessCheck("redis", redis.Healthcheck(client)))
		runOpts = append(runOpts, photostore.ShutdownHook(redis.Shutdown(client)))
	} else {
		log.Warn("REDIS_URL not set, sessions are kept in memory")
	}

	if cfg.Auth.Secret == "" {
		log.Warn("AUTH_SECRET not set, bearer tokens are ignored")
	}

	app := photostore.New(
		photostore.WithLogger(log),
		photostore.WithStorage(svc),
		photostore.WithSession(store, photostore.WithSessionCookieName(cfg.Auth.CookieName)),
		photostore.WithHTTPMiddleware(m.Middleware),
		photostore.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.BearerAuth(cfg.Auth.Secret),
			middlewares.Timeout(cfg.Server.RequestTimeout),
		),
		photostore.WithMount("/metrics", m.Handler()),
		photostore.WithHealthChecks(healthOpts...),
		photostore.WithHandlers(handlers.NewStorage()),
	)

	return app.Run(cfg.Server.Address, runOpts...)
}
