// Package app wires configuration, storage and services into a runnable
// HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/demoserver/backend/internal/api"
	"github.com/demoserver/backend/internal/api/handler"
	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
	"github.com/demoserver/backend/internal/core/service"
	"github.com/demoserver/backend/internal/infrastructure/db/memory"
	"github.com/demoserver/backend/internal/infrastructure/db/redis"
	"github.com/demoserver/backend/internal/infrastructure/storage"
	"github.com/demoserver/backend/internal/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// App owns the HTTP server and the resources behind it.
type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	handler http.Handler
	redis   *goredis.Client
}

// New builds every dependency, seeds the stores when configured and
// registers the routes. It does not start listening.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	users := memory.NewUserRepository(memory.Options{})
	products := memory.NewProductRepository(memory.Options{})
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)

	tokens, err := service.NewJWTService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}
	if cfg.UsesDevSecret() {
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
	}

	readyChecks := map[string]handler.Check{}

	var throttle ports.LoginThrottle
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.redis = client
		throttle = redis.NewLoginThrottle(client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockout)
		readyChecks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login throttle backed by redis")
	} else {
		throttle = memory.NewLoginThrottle(cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockout)
	}

	authSvc := service.NewAuthService(users, hasher, tokens, throttle, log)
	userSvc := service.NewUserService(users, hasher, log)
	productSvc := service.NewProductService(products, log)

	if cfg.Seed {
		if err := service.Seed(ctx, userSvc, productSvc, service.DefaultUsers(), service.DefaultProducts()); err != nil {
			a.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
		log.Info().Int("users", users.Len()).Int("products", products.Len()).Msg("seed data loaded")
	}

	disk, err := storage.NewDisk(cfg.Upload.Dir)
	if err != nil {
		a.Close()
		return nil, err
	}
	readyChecks["uploads"] = disk.Ping

	policy := domain.DefaultUploadPolicy()
	policy.MaxFileBytes = cfg.Upload.MaxMB << 20
	policy.MaxFiles = cfg.Upload.MaxFiles

	a.handler = api.NewRouter(api.Deps{
		Auth:           authSvc,
		Users:          userSvc,
		Products:       productSvc,
		Files:          disk,
		Log:            log,
		UploadDir:      disk.Dir(),
		UploadPolicy:   policy,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		TokenRate:      rate.Limit(cfg.Auth.TokenRate),
		TokenBurst:     cfg.Auth.TokenBurst,
		ReadyChecks:    readyChecks,
	})
	return a, nil
}

// Handler exposes the routed handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	srv := &http.Server{
		Addr:              net.JoinHostPort("", a.cfg.Port),
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Str("env", a.cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutdown signal received")
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.log.Info().Msg("server stopped")
	return nil
}

// Close releases external connections. Safe to call more than once.
func (a *App) Close() {
	if a.redis == nil {
		return
	}
	if err := a.redis.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing redis")
	}
	a.redis = nil
}
