package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/BarkinBalci/measurement-relay/internal/config"
	"github.com/BarkinBalci/measurement-relay/internal/consumer"
	"github.com/BarkinBalci/measurement-relay/internal/dispatch"
	"github.com/BarkinBalci/measurement-relay/internal/logger"
	"github.com/BarkinBalci/measurement-relay/internal/measurement"
	"github.com/BarkinBalci/measurement-relay/internal/queue/sqs"
	"github.com/BarkinBalci/measurement-relay/internal/repository/hitstore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, "consumer")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting consumer service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("hit_store", cfg.HitStore.Driver),
		zap.Int("dispatch_workers", cfg.Consumer.DispatchWorkers),
		zap.Int("max_attempts", cfg.Consumer.MaxAttempts))

	ctx := context.Background()

	repo, err := hitstore.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open hit store", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error("Failed to close hit store", zap.Error(err))
		}
	}()

	// Initialize SQS client
	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	collector := measurement.NewCollector(
		measurement.WithEndpoint(cfg.Measurement.Endpoint),
		measurement.WithSearchInLocation(cfg.Measurement.LocationWithSearch),
	)
	dispatcher := dispatch.NewDispatcher(dispatch.NewHTTPSender(cfg.Dispatch, log), log)

	c := consumer.NewConsumer(cfg, sqsClient, collector, dispatcher, repo, log)

	// Start health check endpoint
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := repo.Ping(r.Context()); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})

		addr := ":" + cfg.Consumer.HealthCheckPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Consumer starting")

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if err := c.Start(consumerCtx); err != nil {
			log.Error("Consumer error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info("Shutting down consumer gracefully")
		cancel()
		<-stopped
	case <-stopped:
		log.Warn("Consumer pipeline stopped")
	}
}
