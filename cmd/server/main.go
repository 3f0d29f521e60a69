package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/gowallet/internal/adapter/http"
	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gowallet/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gowallet/internal/adapter/repository/redis"
	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/infrastructure/eventpublisher"
	"github.com/iho/gowallet/internal/infrastructure/logger"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/infrastructure/postgres"
	"github.com/iho/gowallet/internal/infrastructure/redis"
	"github.com/iho/gowallet/internal/usecase"
)

const (
	serviceName          = "gowallet"
	limiterCleanupPeriod = 10 * time.Minute
	limiterMaxIdle       = 30 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

// storage groups the ledger stores and the clients behind them.
type storage struct {
	ledger  usecase.LedgerStore
	entries usecase.EntryRepository
	audit   usecase.AuditRepository
	redis   *goredis.Client
	checks  []handler.ReadinessCheck
	closers []func()
}

func (s *storage) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := newStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close()

	m := metrics.New(nil)

	sink, closeSink := newEventSink(cfg, log)
	defer closeSink()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		Sink:   sink,
		Logger: log.With().Str("component", "eventpublisher").Logger(),
	})

	// Background workers outlive the HTTP server so queued events are flushed
	// after the last request completes.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	var workers sync.WaitGroup
	defer func() {
		stopWorkers()
		workers.Wait()
	}()

	workers.Add(1)
	go func() {
		defer workers.Done()
		publisher.Start(workerCtx)
	}()

	walletUC := usecase.NewWalletUseCase(
		store.ledger,
		postgresRepo.NewULIDGenerator(),
		usecase.WithRetrier(postgresRepo.NewRetrier(cfg.AppendMaxRetries, log)),
		usecase.WithEventPublisher(publisher),
		usecase.WithAuditLog(store.audit),
		usecase.WithMetrics(m),
		usecase.WithLogger(log.With().Str("component", "wallet").Logger()),
	)

	routerCfg := httpAdapter.RouterConfig{
		WalletHandler:  handler.NewWalletHandler(walletUC),
		EntryHandler:   handler.NewEntryHandler(usecase.NewEntryUseCase(store.entries)),
		LedgerHandler:  handler.NewLedgerHandler(usecase.NewLedgerUseCase(store.entries)),
		AuditHandler:   handler.NewAuditHandler(usecase.NewAuditUseCase(store.audit)),
		HealthHandler:  handler.NewHealthHandler(store.checks...),
		IdempotencyTTL: cfg.IdempotencyTTL,
		Metrics:        m,
		Logger:         log,
	}
	if store.redis != nil {
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(store.redis)
	}
	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m.RateLimitHits)
		routerCfg.RateLimiter = limiter

		workers.Add(1)
		go func() {
			defer workers.Done()
			limiter.RunCleanup(workerCtx, limiterCleanupPeriod, limiterMaxIdle)
		}()
	}

	server := &http.Server{
		Addr:         serverAddr(cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("store", cfg.StoreBackend).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// newStorage opens the configured ledger backend and, when Redis is
// configured, puts the latest-entry cache in front of it.
func newStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	s := &storage{}

	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		mem := memory.NewLedgerStore()
		s.ledger, s.entries = mem, mem
		s.audit = memory.NewAuditRepository()
		log.Warn().Msg("using in-memory ledger store; entries are lost on restart")

	default:
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return nil, err
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		s.checks = append(s.checks, handler.ReadinessCheck{Name: "postgres", Check: pool.Ping})
		log.Info().Msg("connected to postgres")

		pg := postgresRepo.NewLedgerStore(pool)
		s.ledger, s.entries = pg, pg
		s.audit = postgresRepo.NewAuditRepository(pool)
	}

	if cfg.RedisEnabled() {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		s.redis = client
		s.closers = append(s.closers, func() { client.Close() })
		s.checks = append(s.checks, handler.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
		log.Info().Msg("connected to redis")

		s.ledger = redisRepo.NewCachedLedgerStore(s.ledger, client, cfg.BalanceCacheTTL, log)
	}

	return s, nil
}

// newEventSink returns a Kafka sink when brokers are configured and a log sink otherwise.
func newEventSink(cfg *config.Config, log zerolog.Logger) (eventpublisher.Sink, func()) {
	if !cfg.KafkaEnabled() {
		return eventpublisher.NewLogPublisher(log), func() {}
	}

	kafka := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing events to kafka")

	return kafka, func() {
		if err := kafka.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close kafka writer")
		}
	}
}

func serverAddr(port string) string {
	return ":" + port
}
