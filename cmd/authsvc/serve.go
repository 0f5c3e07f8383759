package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/EdmundsEcho/data-join-oauth/modules/oauth"
	"github.com/EdmundsEcho/data-join-oauth/pkg/clientip"
	"github.com/EdmundsEcho/data-join-oauth/pkg/cookie"
	"github.com/EdmundsEcho/data-join-oauth/pkg/environment"
	"github.com/EdmundsEcho/data-join-oauth/pkg/httpserver"
	"github.com/EdmundsEcho/data-join-oauth/pkg/logger"
	"github.com/EdmundsEcho/data-join-oauth/pkg/ratelimit"
	"github.com/EdmundsEcho/data-join-oauth/pkg/redis"
	"github.com/EdmundsEcho/data-join-oauth/pkg/registry"
	"github.com/EdmundsEcho/data-join-oauth/pkg/requestid"
	"github.com/EdmundsEcho/data-join-oauth/pkg/session"
	"github.com/EdmundsEcho/data-join-oauth/pkg/settings"
	"github.com/EdmundsEcho/data-join-oauth/svc/broker"
)

const serviceName = "authsvc"

func newServeCmd(flags *rootFlags, logOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway until SIGINT or SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, env, err := loadConfig(flags)
			if err != nil {
				return err
			}
			log := newLogger(cfg, env, logOut)
			logger.SetAsDefault(log)
			return serve(cmd.Context(), cfg, env, log)
		},
	}
}

func newLogger(cfg processConfig, env environment.Environment, out io.Writer) *slog.Logger {
	return logger.New(
		logger.WithEnvironment(env, serviceName),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithFormat(logger.Format(strings.ToLower(cfg.LogFormat))),
		logger.WithOutput(out),
		logger.WithAttr(slog.String("version", version)),
		logger.WithContextExtractors(requestid.LoggerExtractor, clientip.LogExtractor),
	)
}

func serve(ctx context.Context, cfg processConfig, env environment.Environment, log *slog.Logger) error {
	// A bad snapshot at startup is fatal; the process must not serve.
	s, err := settings.Load(cfg.SettingsDir, env)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	registries, err := registry.NewHandle(s)
	if err != nil {
		return fmt.Errorf("build registry: %w", err)
	}
	log.InfoContext(ctx, "settings loaded",
		slog.String("dir", cfg.SettingsDir),
		slog.String("registry", registries.Current().String()),
		logger.Secret("redis_url", s.Options.RedisURL.Reveal()),
	)

	store, checks, closeStore, err := openStore(ctx, cfg, s.Options)
	if err != nil {
		return err
	}
	defer closeStore()

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return fmt.Errorf("cookie manager: %w", err)
	}
	sessions, err := session.New(
		session.WithStore(store),
		session.WithConfig(cfg.Session),
		session.WithCookieManager(cookies),
		session.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("session broker: %w", err)
	}

	svc, err := broker.New(registries, sessions, broker.WithLogger(log))
	if err != nil {
		return err
	}

	reload := func(ctx context.Context) error {
		next, err := settings.Load(cfg.SettingsDir, env)
		if err != nil {
			return err
		}
		reg, err := registries.Replace(next)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "settings reloaded", logger.Generation(reg.Generation()))
		return nil
	}

	limiter, err := ratelimit.NewKeyed(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	opts := []oauth.Option{
		oauth.WithLogger(log),
		oauth.WithReadiness(checks...),
		oauth.WithKickoffLimiter(limiter),
	}
	if env.IsDevelopment() {
		opts = append(opts, oauth.WithReload(reload))
	}
	router := oauth.New(svc, opts...).Handler()

	httpCfg := cfg.HTTP
	if httpCfg.Addr == "" {
		httpCfg.Addr = s.Options.Addr()
	}
	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger, addr string) {
			l.Info("http server listening", slog.String("addr", addr))
		}),
		httpserver.WithStopHook(func(l *slog.Logger) { l.Info("http server stopped") }),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The watcher stops with the server.
		defer cancel()
		return srv.Run(ctx, router)
	})
	g.Go(func() error {
		w := settings.NewWatcher(cfg.SettingsDir, reload, settings.WithWatcherLogger(log))
		if err := w.Run(ctx); err != nil {
			log.WarnContext(ctx, "settings hot reload disabled", logger.Error(err))
		}
		return nil
	})
	return g.Wait()
}

// openStore selects the flow session backend. The memory store only suits a
// single process.
func openStore(ctx context.Context, cfg processConfig, o settings.Options) (session.Store, []httpserver.Check, func(), error) {
	switch cfg.Session.Store {
	case "memory":
		store := session.NewMemoryStore(cfg.Session.CleanupInterval)
		return store, nil, func() { _ = store.Close() }, nil

	case "redis", "":
		rc := cfg.Redis
		if !o.RedisURL.IsEmpty() {
			rc.ConnectionURL = o.RedisURL.Reveal()
		}
		if o.RedisPoolSize > 0 {
			rc.PoolSize = o.RedisPoolSize
		}
		client, err := redis.Connect(ctx, rc)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		checks := []httpserver.Check{{Name: "redis", Probe: redis.Healthcheck(client)}}
		return session.NewRedisStore(client), checks, closeRedis(client), nil
	}
	return nil, nil, nil, errors.New("unknown session store " + cfg.Session.Store)
}

func closeRedis(client goredis.UniversalClient) func() {
	return func() { _ = client.Close() }
}
