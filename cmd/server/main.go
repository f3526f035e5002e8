// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"somdev-backend/internal/analytics"
	"somdev-backend/internal/catalog"
	"somdev-backend/internal/chat"
	"somdev-backend/internal/common/config"
	"somdev-backend/internal/common/database"
	"somdev-backend/internal/common/logger"
	"somdev-backend/internal/common/observability"
	"somdev-backend/internal/notify"
	"somdev-backend/internal/server"
	"somdev-backend/internal/store"
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
			delay *= 2
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

	zapLog.Info("Starting backend...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	var docStore store.Store
	if err != nil {
		// A document cluster is not required for local development; the
		// memory store serves the same contract without persistence.
		zapLog.Warn("elasticsearch unavailable, falling back to in-memory store", zap.Error(err))
		docStore = store.NewMemoryStore()
	} else {
		zapLog.Info("Elasticsearch connected successfully")
		docStore = store.NewElasticsearchStore(esClient.Client, log)
	}

	// --- Init Redis (optional) ---
	var redisClient *database.RedisClient
	if cfg.Database.Redis.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, caching disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Init order notifier ---
	var notifier notify.Notifier = notify.Noop{}
	if cfg.Notifications.Email.Enabled {
		sesNotifier, err := notify.NewSESNotifierFromRegion(
			ctx,
			cfg.Notifications.AWS.Region,
			cfg.Notifications.Email.FromEmail,
			cfg.Notifications.Email.ToEmail,
			log,
		)
		if err != nil {
			zapLog.Warn("ses client init failed, order notifications disabled", zap.Error(err))
		} else {
			notifier = sesNotifier
			zapLog.Info("Order notifications enabled")
		}
	}

	// --- Wire components ---
	var reportCache analytics.ReportCache = analytics.NoopCache{}
	var seeder *catalog.Seeder
	if redisClient != nil {
		seeder = catalog.NewSeeder(docStore, redisClient.Client, log)
		reportCache = analytics.NewRedisCache(
			redisClient.Client,
			config.GetDuration(cfg.Database.Redis.CacheTTL),
			log,
		)
	} else {
		seeder = catalog.NewSeeder(docStore, nil, log)
	}

	reader := catalog.NewReader(docStore, seeder)
	recorder := analytics.NewRecorder(docStore, reportCache, notifier, log)
	aggregator := analytics.NewAggregator(docStore, reader, reportCache, log)
	responder := chat.NewResponder(docStore, reader, cfg.Chat, log)

	seeder.EnsureSeeded(ctx)

	handler := server.NewHandler(cfg, docStore, seeder, reader, recorder, aggregator, responder, log)
	srv := server.New(cfg, handler, obs, log)

	// --- Run until signaled ---
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	case sig := <-quit:
		zapLog.Info("Shutting down...", zap.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
