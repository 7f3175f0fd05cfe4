// cmd/portal-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"office-portal/internal/common/aws"
	"office-portal/internal/common/config"
	"office-portal/internal/common/database"
	"office-portal/internal/common/logger"
	"office-portal/internal/common/observability"
	"office-portal/internal/notify"
	"office-portal/internal/postal"
	"office-portal/internal/search"
	"office-portal/internal/server"
	"office-portal/internal/settings"
	"office-portal/internal/store"
	"office-portal/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting portal server...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		// The settings cache degrades to Postgres; run without Redis.
		zapLog.Warn("redis unavailable, running without cache", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Init Elasticsearch (optional) ---
	var searchSvc *search.Service
	if cfg.Search.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Warn("elasticsearch unavailable, search endpoints disabled", zap.Error(err))
		} else {
			searchSvc = search.NewService(esClient.Client, cfg.Search.Index, true, log)
			zapLog.Info("Elasticsearch connected successfully")
		}
	}

	// --- Init AWS clients (optional) ---
	var notifier *notify.Notifier
	if cfg.Integrations.AWS.SES.Enabled || cfg.Integrations.AWS.SNS.Enabled {
		var emailClient notify.EmailSender
		var topicClient notify.TopicPublisher

		if cfg.Integrations.AWS.SES.Enabled {
			sesClient, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
			if err != nil {
				zapLog.Fatal("ses client init failed", zap.Error(err))
			}
			emailClient = sesClient
		}
		if cfg.Integrations.AWS.SNS.Enabled {
			snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
			if err != nil {
				zapLog.Fatal("sns client init failed", zap.Error(err))
			}
			topicClient = snsClient
		}
		notifier = notify.NewNotifier(emailClient, topicClient, cfg.Integrations.AWS, log)
		zapLog.Info("AWS notification clients initialized")
	}

	// --- Load form registry ---
	formRegistry, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("form registry load failed", zap.Error(err), zap.String("path", cfg.Registry.Path))
	}
	zapLog.Info("Form registry loaded", zap.Strings("forms", formRegistry.Types()))

	// --- Apply schema ---
	if err := store.EnsureSchema(ctx, pg.DB); err != nil {
		zapLog.Fatal("schema init failed", zap.Error(err))
	}

	// --- Build services ---
	settingsStore := store.NewSettingsStore(pg.DB)
	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	var cache *redis.Client
	if redisClient != nil {
		cache = redisClient.Client
	}
	settingsSvc := settings.NewService(settingsStore, cache, cacheTTL, log)

	srv := server.New(server.Deps{
		DB:       pg.DB,
		Cache:    cache,
		Settings: settingsSvc,
		Notifier: notifier,
		Search:   searchSvc,
		Postal:   postal.NewClient(cfg.Integrations.Postal),
		Registry: formRegistry,
		Config:   cfg,
		Logger:   log,
		Obs:      obs,
	})

	// --- Metrics & pprof Server ---
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
		zapLog.Info("Metrics server listening", zap.String("addr", cfg.Server.MetricsAddr()))
		if err := http.ListenAndServe(cfg.Server.MetricsAddr(), mux); err != nil {
			zapLog.Error("Metrics server failed", zap.Error(err))
		}
	}()

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  time.Duration(cfg.Server.RequestTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("API server listening", zap.String("addr", cfg.Server.Addr()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("api server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down api server", zap.Error(err))
	}

	zapLog.Info("Portal server stopped")
}
