package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BarkinBalci/measurement-relay/docs"
	"github.com/BarkinBalci/measurement-relay/internal/config"
	"github.com/BarkinBalci/measurement-relay/internal/dispatch"
	"github.com/BarkinBalci/measurement-relay/internal/handler"
	"github.com/BarkinBalci/measurement-relay/internal/logger"
	"github.com/BarkinBalci/measurement-relay/internal/measurement"
	"github.com/BarkinBalci/measurement-relay/internal/queue"
	"github.com/BarkinBalci/measurement-relay/internal/queue/sqs"
	"github.com/BarkinBalci/measurement-relay/internal/repository/hitstore"
	"github.com/BarkinBalci/measurement-relay/internal/service"
)

// @title Measurement Relay API
// @version 1.0
// @description Translates vendor-neutral analytics events into GA4 Measurement Protocol hits.
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, "api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort),
		zap.String("mode", cfg.Service.Mode),
		zap.String("hit_store", cfg.HitStore.Driver))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	ctx := context.Background()

	collector := measurement.NewCollector(
		measurement.WithEndpoint(cfg.Measurement.Endpoint),
		measurement.WithSearchInLocation(cfg.Measurement.LocationWithSearch),
	)

	// Queue mode hands dispatch to the consumer
	var (
		publisher  queue.QueuePublisher
		dispatcher dispatch.HitDispatcher
	)
	if cfg.Service.Mode == config.ModeQueue {
		sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
		if err != nil {
			log.Fatal("Failed to create SQS client", zap.Error(err))
		}
		publisher = sqsClient
	} else {
		dispatcher = dispatch.NewDispatcher(dispatch.NewHTTPSender(cfg.Dispatch, log), log)
	}

	repo, err := hitstore.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open hit store", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error("Failed to close hit store", zap.Error(err))
		}
	}()

	eventService := service.NewEventService(collector, dispatcher, publisher, repo, cfg.Service.Mode, log)

	h := handler.NewHandler(eventService, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
