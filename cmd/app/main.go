package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bank_transactions/internal/cache"
	"bank_transactions/internal/config"
	"bank_transactions/internal/db"
	"bank_transactions/internal/events"
	httpServer "bank_transactions/internal/http"
	"bank_transactions/internal/http/handlers"
	"bank_transactions/internal/logger"
	"bank_transactions/internal/repository"
	"bank_transactions/internal/service"
	"bank_transactions/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	checks := map[string]handlers.HealthCheck{}

	var store service.TransactionStore
	var audit *repository.AuditRepository
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := db.Connect(context.Background(), cfg.DatabaseURL, db.PoolOptions{MaxConns: int32(cfg.DBMaxConns)})
		if err != nil {
			logger.Fatal("failed to connect to database", "error", err)
		}
		defer pool.Close()
		store = repository.NewTransactionRepository(pool)
		audit = repository.NewAuditRepository(pool)
		checks["database"] = pool.Ping
	default:
		logger.Warn("using in-memory storage, data is lost on restart")
		store = repository.NewMemoryTransactionRepository()
	}

	redisClient := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient != nil {
		defer redisClient.Close()
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	var pages cache.PageCache
	if cfg.CacheBackend == config.CacheRedis && redisClient != nil {
		pages = cache.NewRedisPageCache(redisClient, cfg.CacheTTL, logger.Get())
		logger.Info("page cache backend", "backend", "redis", "ttl", cfg.CacheTTL)
	} else {
		if cfg.CacheBackend == config.CacheRedis {
			logger.Warn("redis unavailable, falling back to in-memory page cache")
		}
		pages = cache.NewMemoryPageCache(cfg.CacheMaxEntries)
		logger.Info("page cache backend", "backend", "memory", "max_entries", cfg.CacheMaxEntries)
	}

	hub := ws.NewHub(logger.With("component", "ws"))
	publishers := events.Multi{hub}
	if audit != nil {
		publishers = append(publishers, events.NewAuditPublisher(audit))
	}

	if cfg.NATSURL != "" {
		nc, err := events.ConnectNATS(cfg.NATSURL)
		if err != nil {
			logger.Fatal("failed to connect to nats", "url", cfg.NATSURL, "error", err)
		}
		defer nc.Drain()
		publishers = append(publishers, events.NewNATSPublisher(nc, cfg.NATSSubjectPrefix))
		checks["nats"] = func(context.Context) error {
			if s := nc.Status(); s != nats.CONNECTED {
				return fmt.Errorf("status %s", s)
			}
			return nil
		}
		logger.Info("publishing transaction events to nats", "prefix", cfg.NATSSubjectPrefix)
	}

	svc := service.NewTransactionService(store, pages,
		service.WithPublisher(publishers),
		service.WithLogger(logger.With("component", "transactions")),
		service.WithMaxPageSize(cfg.MaxPageSize),
	)

	deps := httpServer.Deps{
		Transactions:    svc,
		Health:          handlers.NewHealthHandler(cfg.AppVersion, checks),
		Hub:             hub,
		Redis:           redisClient,
		AllowedOrigin:   cfg.AllowedOrigin,
		DefaultPageSize: cfg.DefaultPageSize,
		RateLimit:       cfg.APIRateLimit,
		RateWindow:      cfg.APIRateWindow,
	}
	if audit != nil {
		deps.Audit = audit
	}
	if cfg.JWTSecret != "" {
		deps.Auth = service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	} else {
		logger.Warn("JWT_SECRET not set, write endpoints are unauthenticated")
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: httpServer.NewRouter(deps),
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	hub.Close()

	logger.Info("server exited")
}
