// cmd/worker-manager/main.go
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

	"go.uber.org/zap"

	"event-package-workers/internal/catalog"
	awsclients "event-package-workers/internal/common/aws"
	"event-package-workers/internal/common/camunda"
	"event-package-workers/internal/common/config"
	"event-package-workers/internal/common/database"
	"event-package-workers/internal/common/logger"
	"event-package-workers/internal/common/observability"
	"event-package-workers/internal/recommend"

	dpp "event-package-workers/internal/workers/planning/deliver-package-proposals"
	rep "event-package-workers/internal/workers/planning/recommend-event-packages"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
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

	zapLog, err := logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Service: cfg.App.Name,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	log.Info("Starting worker manager...", map[string]interface{}{
		"version":       cfg.App.Version,
		"environment":   cfg.App.Environment,
		"catalogSource": cfg.Recommendation.CatalogSource,
	})

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown(context.Background())

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(ctx, camunda.ClientConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("Zeebe client connected successfully", nil)

	// --- Catalog stores ---
	var conns *database.Connections
	err = retryWithBackoff(func() error {
		var err error
		conns, err = database.Open(ctx, cfg)
		return err
	}, 15, 2*time.Second, log, "catalog store connection")
	if err != nil {
		zapLog.Fatal("catalog stores failed after retries", zap.Error(err))
	}
	defer conns.Close()

	profiles, err := cfg.Recommendation.ProfileTable()
	if err != nil {
		zapLog.Fatal("invalid recommendation profiles", zap.Error(err))
	}
	provider, err := catalog.New(cfg.Recommendation, conns, log)
	if err != nil {
		zapLog.Fatal("catalog provider init failed", zap.Error(err))
	}

	registry := camunda.NewRegistry(log)

	// --- recommend-event-packages ---
	recommendCfg := config.GetWorkerConfig(cfg, rep.TaskType)
	if recommendCfg.Enabled {
		handler := rep.NewHandler(
			rep.LoadConfig(recommendCfg, cfg.Recommendation),
			recommend.NewEngine(profiles),
			provider,
			obs,
			log,
		)
		registry.Start(zeebe.GetClient(), rep.TaskType, recommendCfg, handler.Handle)
	}

	// --- deliver-package-proposals ---
	deliverCfg := config.GetWorkerConfig(cfg, dpp.TaskType)
	if deliverCfg.Enabled {
		aws, err := awsclients.NewClients(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws clients init failed", zap.Error(err))
		}
		handler := dpp.NewHandler(dpp.LoadConfig(deliverCfg, cfg.Notifications), aws.SES, aws.SNS, obs, log)
		registry.Start(zeebe.GetClient(), dpp.TaskType, deliverCfg, handler.Handle)
	}

	log.Info("workers registered", map[string]interface{}{"taskTypes": registry.TaskTypes()})

	// --- Health & Metrics Server ---
	srv := newHealthServer(cfg.App.HealthPort, []readinessCheck{
		{name: "zeebe", check: zeebe.HealthCheck},
		{name: "catalog", check: conns.Check},
	})
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutdown signal received, stopping workers...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	registry.Close(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping health server", map[string]interface{}{"error": err})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("Error closing Zeebe client", map[string]interface{}{"error": err})
	}

	log.Info("Worker manager stopped gracefully", nil)
}
