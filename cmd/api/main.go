package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/session-auth-service/internal/api/http"
	"github.com/spec-kit/session-auth-service/internal/api/http/handlers"
	"github.com/spec-kit/session-auth-service/internal/auth"
	"github.com/spec-kit/session-auth-service/internal/config"
	"github.com/spec-kit/session-auth-service/internal/events"
	"github.com/spec-kit/session-auth-service/internal/observability"
	"github.com/spec-kit/session-auth-service/internal/persistence"
	"github.com/spec-kit/session-auth-service/internal/repository"
	"github.com/spec-kit/session-auth-service/internal/service"
	"github.com/spec-kit/session-auth-service/internal/worker"
)

func main() {
	envFile := pflag.String("env-file", "", "dotenv file to load before reading the environment")
	pflag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics("session_auth")

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var rdb *persistence.Redis
	if cfg.Revocation.Backend == config.BackendRedis || cfg.Events.Backend == config.EventsRedis {
		rdb, err = persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
	}

	var accountRepo repository.AccountRepository = repository.NewMemoryAccountRepository()
	if pg.Enabled() {
		accountRepo = repository.NewAccountRepository(pg.PoolHandle())
	} else {
		logger.Warn("POSTGRES_DSN not set, accounts are kept in memory")
	}

	var revocationRepo repository.RevocationRepository
	switch cfg.Revocation.Backend {
	case config.BackendPostgres:
		revocationRepo = repository.NewRevocationRepository(pg.PoolHandle())
	case config.BackendRedis:
		revocationRepo = repository.NewRedisRevocationRepository(rdb.Client, cfg.Revocation.RedisPrefix)
	default:
		revocationRepo = repository.NewMemoryRevocationRepository()
	}
	logger.Info("revocation store selected", zap.String("backend", cfg.Revocation.Backend))

	var bus *events.Bus
	if cfg.Events.Backend == config.EventsRedis {
		bus, err = events.NewRedisStreamBus(rdb.Client, cfg.Events.Topic, cfg.Events.ConsumerGroup, logger)
		if err != nil {
			logger.Fatal("failed to init event bus", zap.Error(err))
		}
	} else {
		bus = events.NewGoChannelBus(cfg.Events.Topic, logger)
	}
	defer bus.Close() //nolint:errcheck

	tokens := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	sessionService := service.NewSessionService(service.SessionDependencies{
		Accounts:    accountRepo,
		Revocations: revocationRepo,
		Tokens:      tokens,
		Hasher:      hasher,
		Events:      bus,
		Logger:      logger,
	})
	accountService := service.NewAccountService(service.AccountDependencies{
		Accounts: accountRepo,
		Hasher:   hasher,
		Sessions: sessionService,
		Events:   bus,
		Logger:   logger,
	})
	auditService := service.NewAuditService(logger, metrics)

	go func() {
		if err := worker.RunAuditWorker(ctx, bus, auditService, logger); err != nil {
			logger.Error("audit worker stopped", zap.Error(err))
		}
	}()

	gate := auth.NewGate(tokens, revocationRepo, httptransport.PublicPaths, logger, metrics)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), gate)

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Dependency{
		"postgres": pg,
		"redis":    rdb,
	})
	authHandler := handlers.NewAuthHandler(accountService, sessionService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  healthHandler,
		Auth:    authHandler,
		Metrics: metrics,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	if err := app.Shutdown(); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
