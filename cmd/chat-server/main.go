// cmd/chat-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"wealth-assistant/internal/chat/cache"
	"wealth-assistant/internal/chat/classifier"
	"wealth-assistant/internal/chat/dispatch"
	"wealth-assistant/internal/chat/extractor"
	"wealth-assistant/internal/chat/format"
	"wealth-assistant/internal/chat/orchestrator"
	"wealth-assistant/internal/common/config"
	"wealth-assistant/internal/common/database"
	"wealth-assistant/internal/common/logger"
	"wealth-assistant/internal/common/observability"
	"wealth-assistant/internal/genai"
	"wealth-assistant/internal/repository"
	"wealth-assistant/internal/server"
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

	zapLog.Info("Starting chat server...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New("chat-server")
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

	pingers := map[string]server.Pinger{"postgres": pg}

	// --- Init response cache ---
	var responseCache cache.ResponseCache
	if cfg.Cache.Backend == "redis" {
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
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")

		pingers["redis"] = redisClient
		responseCache = cache.NewRedis(
			redisClient.GetClient(),
			config.GetDuration(cfg.Cache.TTL),
			cfg.Cache.Prefix,
			log,
		)
	} else {
		responseCache = cache.NewMemory(config.GetDuration(cfg.Cache.TTL), cfg.Cache.Capacity)
	}

	// Start every run from a cold cache.
	responseCache.Clear(ctx)

	// --- Wire the pipeline ---
	completer := genai.NewClient(&genai.Config{
		BaseURL:     cfg.GenAI.BaseURL,
		APIKey:      cfg.GenAI.APIKey,
		Model:       cfg.GenAI.Model,
		Timeout:     config.GetDuration(cfg.GenAI.Timeout),
		MaxRetries:  cfg.GenAI.MaxRetries,
		MaxTokens:   cfg.GenAI.MaxTokens,
		Temperature: cfg.GenAI.Temperature,
	}, log)

	ext, err := extractor.New(log)
	if err != nil {
		zapLog.Fatal("extractor init failed", zap.Error(err))
	}

	o := orchestrator.New(
		responseCache,
		classifier.New(completer, cfg.Classifier.Granularity, log),
		ext,
		dispatch.New(repository.NewPostgres(pg.GetDB(), log), log),
		format.New(),
		completer,
		log,
	)

	srv := server.New(o, log, obs, pingers)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
