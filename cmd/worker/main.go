package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-storefront/internal/app/stores"
	ordersevents "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/events"
	ordersobs "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	platformkafka "github.com/Apurer/go-gin-storefront/internal/platform/kafka"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-gin-storefront/internal/platform/temporal"
	orderactivities "github.com/Apurer/go-gin-storefront/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/platform/temporal/workflows/orders"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()
	const serviceName = "storefront-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repos, cleanupStores := stores.Open(ctx, stores.Settings{
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
	}, logger)
	defer cleanupStores()
	if repos.DB == nil {
		logger.Warn("worker running against in-memory stores, orders will not be visible to the API")
	}

	orderOpts := []ordersapp.Option{
		ordersapp.WithIdempotencyStore(repos.Idempotency),
		ordersapp.WithLogger(logger),
	}
	if brokers := platformkafka.BrokersFromEnv(); len(brokers) > 0 {
		producer := platformkafka.NewProducer(brokers, envOrDefault("KAFKA_ORDER_TOPIC", "storefront.orders"), 0, logger)
		producer.Start(ctx)
		defer producer.Close()
		orderOpts = append(orderOpts, ordersapp.WithEventPublisher(ordersevents.NewPublisher(producer, serviceName)))
	}
	orderService := ordersobs.New(
		ordersapp.NewService(repos.Orders, orderOpts...),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	activities := orderactivities.NewActivities(orderService)

	namespace := envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace)
	temporalClient, err := platformtemporal.Dial(platformtemporal.DialOptions{
		Address:   envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: namespace,
		Tracer:    instruments.Tracer("temporal-worker"),
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
