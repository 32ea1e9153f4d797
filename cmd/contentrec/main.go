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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/contentrec/internal/config"
	dbRedis "github.com/kailas-cloud/contentrec/internal/db/redis"
	"github.com/kailas-cloud/contentrec/internal/domain/language"
	"github.com/kailas-cloud/contentrec/internal/domain/options"
	logpkg "github.com/kailas-cloud/contentrec/internal/logger"
	"github.com/kailas-cloud/contentrec/internal/metrics"
	modelrepo "github.com/kailas-cloud/contentrec/internal/repository/model"
	"github.com/kailas-cloud/contentrec/internal/text/tokenizer"
	chiTransport "github.com/kailas-cloud/contentrec/internal/transport/chi"
	healthuc "github.com/kailas-cloud/contentrec/internal/usecase/health"
	recuc "github.com/kailas-cloud/contentrec/internal/usecase/recommender"
	registryuc "github.com/kailas-cloud/contentrec/internal/usecase/registry"
	"github.com/kailas-cloud/contentrec/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	if err := config.LoadDotEnv(".env"); err != nil {
		panic("failed to load .env: " + err.Error())
	}
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting contentrec API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("language", string(cfg.Recommender.Language)),
	)

	// Valkey and Redis speak the same protocol; both go through rueidis.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	recMetrics, err := metrics.NewRecommender(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("Failed to register recommender metrics", zap.Error(err))
	}
	httpMetrics, err := metrics.NewHTTP(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("Failed to register HTTP metrics", zap.Error(err))
	}

	dict := tokenizer.Shared()
	dict.SetObserver(recMetrics)
	if cfg.Recommender.Language == language.Japanese {
		go warmDictionary(dict, logger)
	}

	registry, err := registryuc.New(
		modelrepo.New(store, cfg.Storage.KeyPrefix),
		cfg.Recommender,
		registryuc.WithLogger(logger),
		registryuc.WithMaxCached(cfg.Registry.MaxCachedModels),
		registryuc.WithRecommenderFactory(func(o options.Options) (*recuc.Service, error) {
			return recuc.New(o, recuc.WithLogger(logger), recuc.WithMetrics(recMetrics))
		}),
	)
	if err != nil {
		logger.Fatal("Failed to create model registry", zap.Error(err))
	}

	healthSvc := healthuc.New(store, dict)
	server := chiTransport.NewServer(registry, healthSvc, logger,
		chiTransport.WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
	)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(httpMetrics.Middleware())
	r.Mount("/", server.Handler())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// warmDictionary builds the morphological dictionary ahead of the first
// Japanese request. Failures are reported through /health.
func warmDictionary(dict *tokenizer.Loader, logger *zap.Logger) {
	started := time.Now()
	if err := dict.Init(context.Background()); err != nil {
		logger.Error("Dictionary initialization failed", zap.Error(err))
		return
	}
	logger.Info("Dictionary ready", zap.Duration("took", time.Since(started)))
}
