package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/goremit/internal/adapter/http"
	"github.com/iho/goremit/internal/adapter/http/handler"
	"github.com/iho/goremit/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/goremit/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/goremit/internal/adapter/repository/redis"
	"github.com/iho/goremit/internal/infrastructure/auth"
	"github.com/iho/goremit/internal/infrastructure/config"
	"github.com/iho/goremit/internal/infrastructure/logger"
	"github.com/iho/goremit/internal/infrastructure/metrics"
	"github.com/iho/goremit/internal/infrastructure/postgres"
	"github.com/iho/goremit/internal/infrastructure/redis"
	"github.com/iho/goremit/internal/usecase"
)

const limiterIdleTimeout = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.MigrateOnStart {
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log).Up(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	friends := relationshipOracle(cfg, redisClient, postgresRepo.NewFriendRepository(pool))
	retrier := postgresRepo.NewRetrier(log)

	locker := usecase.NewAccountLocker(redisRepo.NewLockManager(redisClient), lockPolicy(cfg), appMetrics, log)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, locker, retrier, appMetrics)
	remitUC := usecase.NewRemitUseCase(txManager, accountRepo, transactionRepo, friends, locker, retrier, appMetrics, log)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, appMetrics)
	go sweepLimiters(ctx, rateLimiter, log)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC),
		RemitHandler:     handler.NewRemitHandler(remitUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		Auth:             middleware.NewAuthMiddleware(auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration), appMetrics),
		Logger:           log,
		IdempotencyStore: redisRepo.NewIdempotencyStore(redisClient),
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Metrics:          appMetrics,
		Gatherer:         registry,
	})

	return serve(ctx, newHTTPServer(cfg, router), cfg.HTTPShutdownTimeout, log)
}

// relationshipOracle puts the Redis cache in front of the friends table when
// a cache TTL is configured.
func relationshipOracle(cfg *config.Config, client goredis.UniversalClient, repo usecase.RelationshipOracle) usecase.RelationshipOracle {
	if cfg.FriendCacheTTL <= 0 {
		return repo
	}
	return redisRepo.NewFriendCache(client, repo, cfg.FriendCacheTTL)
}

func lockPolicy(cfg *config.Config) usecase.LockPolicy {
	return usecase.LockPolicy{
		WaitTimeout: cfg.LockWaitTimeout,
		LeaseTime:   cfg.LockLeaseTime,
		KeyPrefix:   cfg.LockKeyPrefix,
	}
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

// serve runs server until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func sweepLimiters(ctx context.Context, rl *middleware.RateLimiter, log zerolog.Logger) {
	ticker := time.NewTicker(limiterIdleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.CleanupLimiters(limiterIdleTimeout); n > 0 {
				log.Debug().Int("removed", n).Msg("dropped idle rate limiters")
			}
		}
	}
}
