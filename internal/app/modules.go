package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/voyagen/tvguide/internal/auth"
	"github.com/voyagen/tvguide/internal/config"
	"github.com/voyagen/tvguide/internal/logger"
	"github.com/voyagen/tvguide/internal/notify"
	"github.com/voyagen/tvguide/internal/server"
	"github.com/voyagen/tvguide/internal/service"
	"github.com/voyagen/tvguide/internal/store"
)

const (
	databaseWait = 30 * time.Second
	redisPing    = 5 * time.Second
)

var LoggerModule = fx.Module(
	"logger",
	fx.Provide(NewLogger),
)

var DatabaseModule = fx.Module(
	"database",
	fx.Provide(fx.Annotate(NewDatabase, fx.As(new(store.Store)))),
)

var NotifyModule = fx.Module(
	"notify",
	fx.Provide(NewHub, NewNotifier),
)

var ServiceModule = fx.Module(
	"service",
	fx.Provide(NewCatalog),
)

var ServerModule = fx.Module(
	"server",
	fx.Provide(NewServer),
	fx.Invoke(RegisterHTTP),
)

func NewLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(cfg.LogLevel)
}

// NewDatabase waits for PostgreSQL, applies migrations and opens the pool.
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) (*store.Postgres, error) {
	ctx, cancel := context.WithTimeout(context.Background(), databaseWait)
	defer cancel()

	if err := store.WaitForDatabase(ctx, cfg.DatabaseURL, time.Second); err != nil {
		return nil, err
	}
	if err := store.RunMigrations(cfg.DatabaseURL, migrationsURL(cfg.MigrationsPath)); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	log.Info().Msg("database connected and migrations completed")

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			log.Info().Msg("closing database pool")
			pg.Close()
			return nil
		},
	})
	return pg, nil
}

// migrationsURL resolves dir against the working directory, falling back to
// the executable's directory, and returns it as a file:// source URL.
func migrationsURL(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	if _, err := os.Stat(abs); err != nil && !filepath.IsAbs(dir) {
		if exe, e := os.Executable(); e == nil {
			abs = filepath.Join(filepath.Dir(exe), dir)
		}
	}
	return "file://" + filepath.ToSlash(abs)
}

func NewHub(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) *notify.Hub {
	hub := notify.NewHub(log, cfg.AllowedOrigins)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			hub.Close()
			return nil
		},
	})
	return hub
}

// NewNotifier returns the hub itself, or a Redis relay in front of it when
// REDIS_URL is set so events reach the listeners of every instance.
func NewNotifier(lc fx.Lifecycle, cfg *config.Config, hub *notify.Hub, log zerolog.Logger) (notify.Notifier, error) {
	if cfg.RedisURL == "" {
		log.Info().Msg("redis disabled (REDIS_URL not set), notifying local listeners only")
		return hub, nil
	}
	rds, err := notify.NewRedis(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisPing)
	defer cancel()
	if err := rds.Ping(ctx); err != nil {
		_ = rds.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	relay := notify.NewRedisRelay(rds, notify.DefaultChannel, hub, log)
	hub.OnRefresh(relay.Notify)

	runCtx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := relay.Run(runCtx); err != nil {
					log.Error().Err(err).Msg("redis relay stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stop()
			select {
			case <-done:
			case <-ctx.Done():
			}
			return rds.Close()
		},
	})
	log.Info().Msg("redis connected, relaying change events")
	return relay, nil
}

func NewCatalog(cfg *config.Config, s store.Store, n notify.Notifier, log zerolog.Logger) (*service.Catalog, error) {
	return service.New(s, n, auth.NewBcrypt(cfg.BcryptCost), log,
		service.WithMaxPageSize(cfg.MaxPageSize),
	)
}

func NewServer(cfg *config.Config, catalog *service.Catalog, hub *notify.Hub, log zerolog.Logger) *server.Server {
	return server.New(catalog, hub, log, cfg.AllowedOrigins)
}

// RegisterHTTP starts the HTTP server with the app and drains it on stop.
func RegisterHTTP(lc fx.Lifecycle, cfg *config.Config, srv *server.Server, log zerolog.Logger) {
	httpServer := srv.HTTPServer(cfg.Addr())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", httpServer.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", httpServer.Addr, err)
			}
			log.Info().Str("addr", httpServer.Addr).Msg("listening")
			go func() {
				if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("http server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			log.Info().Msg("shutting down http server")
			return httpServer.Shutdown(ctx)
		},
	})
}
