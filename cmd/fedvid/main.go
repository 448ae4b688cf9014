package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/fedvid/fedvid/internal/config"
	"github.com/fedvid/fedvid/internal/db"
	dbRedis "github.com/fedvid/fedvid/internal/db/redis"
	logpkg "github.com/fedvid/fedvid/internal/logger"
	"github.com/fedvid/fedvid/internal/metrics"
	"github.com/fedvid/fedvid/internal/repository/detailcache"
	"github.com/fedvid/fedvid/internal/repository/partition"
	"github.com/fedvid/fedvid/internal/repository/similarity"
	chiTransport "github.com/fedvid/fedvid/internal/transport/chi"
	"github.com/fedvid/fedvid/internal/usecase/aggregate"
	"github.com/fedvid/fedvid/internal/usecase/crossmodal"
	"github.com/fedvid/fedvid/internal/version"
)

const cacheReadinessTimeout = 10 * time.Second

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	partitionNames := make([]string, 0, len(cfg.Partitions))
	for _, p := range cfg.Partitions {
		partitionNames = append(partitionNames, p.Name)
	}

	logger.Info("Starting fedvid API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("partitions", partitionNames),
	)

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Partition clients and the registry routing per-entity calls
	clients := make([]*partition.Client, 0, len(cfg.Partitions))
	for _, p := range cfg.Partitions {
		clients = append(clients, partition.New(p.Name, p.BaseURL, p.APIKey))
	}
	registry := partition.NewRegistry(clients...)

	// Detail fetcher, optionally cached in Redis
	var details aggregate.DetailFetcher = registry
	var store db.Store
	if len(cfg.Cache.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(context.Background(), cacheReadinessTimeout); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to detail cache", zap.Strings("addrs", cfg.Cache.Addrs))

		details = detailcache.New(
			registry, store,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.DetailCacheTotal, logger,
		)
	}

	// Session manager — one aggregation session per active user query
	reqTimeout := time.Duration(cfg.Search.RequestTimeoutSec) * time.Second
	sessionTTL := time.Duration(cfg.Search.SessionTTLSec) * time.Second
	manager := aggregate.NewManager(func() *aggregate.Session {
		return aggregate.NewSession(registry.Clients(), details, logger).
			WithRequestTimeout(reqTimeout)
	}, sessionTTL)

	// Cross-modal matching
	simClient := similarity.New(cfg.Similarity.BaseURL, cfg.Similarity.APIKey)
	matcher := crossmodal.New(simClient, simClient, registry, logger).
		WithMaxCandidates(cfg.Search.MaxCandidates)

	server := chiTransport.NewServer(manager, matcher, cfg.Search.PageSize, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiTransport.RequestLoggerMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Idle session sweeper
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case now := <-ticker.C:
				if n := manager.Sweep(now); n > 0 {
					logger.Debug("Swept idle sessions", zap.Int("count", n))
				}
			}
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
