package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	storefrontserver "github.com/Apurer/go-gin-storefront/go"
	"github.com/Apurer/go-gin-storefront/internal/app/stores"
	catalogobs "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	ordersevents "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/events"
	ordersobs "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	userobs "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/observability"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/token"
	userapp "github.com/Apurer/go-gin-storefront/internal/domains/users/application"
	platformkafka "github.com/Apurer/go-gin-storefront/internal/platform/kafka"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-gin-storefront/internal/platform/temporal"
)

const serviceName = "storefront-api"

// Run boots the storefront HTTP API and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repos, cleanupStores := stores.Open(ctx, stores.Settings{PostgresDSN: cfg.PostgresDSN, RedisAddr: cfg.RedisAddr}, logger)
	defer cleanupStores()

	orderOpts := []ordersapp.Option{
		ordersapp.WithIdempotencyStore(repos.Idempotency),
		ordersapp.WithLogger(logger),
	}
	if len(cfg.KafkaBrokers) > 0 {
		producer := platformkafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaOrderTopic, 0, logger)
		producer.Start(ctx)
		defer producer.Close()
		orderOpts = append(orderOpts, ordersapp.WithEventPublisher(ordersevents.NewPublisher(producer, serviceName)))
		logger.Info("order events published to kafka", slog.String("topic", cfg.KafkaOrderTopic))
	} else {
		logger.Warn("KAFKA_BROKERS not set, order events disabled")
	}

	orderService := ordersobs.New(
		ordersapp.NewService(repos.Orders, orderOpts...),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	catalogService := catalogobs.New(
		catalogapp.NewService(repos.Products, repos.Categories, catalogapp.WithProductReferences(repos.Orders)),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	codec, err := token.NewJWTCodec(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to configure session tokens: %w", err)
	}
	userService := userobs.New(
		userapp.NewService(repos.Users, repos.Sessions, codec, userapp.WithSessionTTL(cfg.SessionTTL)),
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if cfg.TemporalDisabled {
		logger.Warn("Temporal disabled via TEMPORAL_DISABLED, running inline checkout")
	} else if temporalClient, err := platformtemporal.Dial(platformtemporal.DialOptions{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Tracer:    instruments.Tracer("temporal-client"),
		Logger:    logger,
	}); err != nil {
		logger.Warn("Temporal workflows unavailable, running inline checkout", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	var checkoutLimit gin.HandlerFunc
	if repos.Redis != nil {
		checkoutLimit = storefrontserver.RedisRateLimit(repos.Redis, cfg.CheckoutRateLimit, cfg.CheckoutRateWindow,
			storefrontserver.WithRateLimitLogger(logger))
	}

	handlers := storefrontserver.ApiHandleFunctions{
		AuthAPI:       storefrontserver.NewAuthAPI(userService, cfg.SecureCookies),
		ProfileAPI:    storefrontserver.NewProfileAPI(userService),
		ProductAPI:    storefrontserver.NewProductAPI(catalogService),
		CategoryAPI:   storefrontserver.NewCategoryAPI(catalogService),
		OrderAPI:      storefrontserver.NewOrderAPI(orderService, orderWorkflows),
		HealthAPI:     storefrontserver.NewHealthAPI(),
		Auth:          storefrontserver.NewAuthMiddleware(userService),
		CheckoutLimit: checkoutLimit,
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), otelgin.Middleware(serviceName))
	storefrontserver.NewRouterWithGinEngine(router, handlers)

	return serve(ctx, &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}, logger)
}

// serve runs srv until ctx is done, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront API listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("storefront API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down storefront API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
