package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder",
		trace.WithAttributes(attribute.Int("order.item_count", len(input.Items)), attribute.Bool("order.guest", input.UserID == nil)))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int("order.item_count", len(input.Items)), slog.String("order.total", input.Total.String()))
	order, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, err)
		return nil, s.handleError(ctx, span, err, "failed to place order")
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	s.metrics.recordPlaced(ctx, order)
	s.logInfo(ctx, "order placed", slog.String("order.id", order.ID), slog.String("order.total", order.Total.String()))
	return order, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, status string) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateOrderStatus",
		trace.WithAttributes(attribute.String("order.id", orderID), attribute.String("order.status", status)))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.String("order.id", orderID), slog.String("status", status))
	order, err := s.inner.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", orderID))
	}
	s.metrics.recordStatusChanged(ctx, order.Status)
	s.logInfo(ctx, "order status updated", slog.String("order.id", order.ID), slog.String("status", string(order.Status)))
	return order, nil
}

func (s *Service) CancelOrder(ctx context.Context, orderID string, requesterID string) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.CancelOrder", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.String("order.id", orderID), slog.String("user.id", requesterID))
	order, err := s.inner.CancelOrder(ctx, orderID, requesterID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.String("order.id", orderID))
	}
	s.metrics.recordStatusChanged(ctx, order.Status)
	s.logInfo(ctx, "order cancelled", slog.String("order.id", order.ID))
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	order, err := s.inner.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", orderID))
	}
	return order, nil
}

func (s *Service) GetOrders(ctx context.Context, input types.ListOrdersInput) (*types.OrderPage, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrders",
		trace.WithAttributes(attribute.Int("page", input.Page), attribute.Int("limit", input.Limit), attribute.String("status", input.Status)))
	defer span.End()

	page, err := s.inner.GetOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int64("orders.total", page.TotalOrders))
	return page, nil
}

func (s *Service) ListUserOrders(ctx context.Context, userID string) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListUserOrders", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	orders, err := s.inner.ListUserOrders(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list user orders", slog.String("user.id", userID))
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

func (s *Service) Restock(ctx context.Context, productID string, quantity int) error {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Restock",
		trace.WithAttributes(attribute.String("product.id", productID), attribute.Int("quantity", quantity)))
	defer span.End()

	s.logInfo(ctx, "restocking product", slog.String("product.id", productID), slog.Int("quantity", quantity))
	if err := s.inner.Restock(ctx, productID, quantity); err != nil {
		return s.handleError(ctx, span, err, "failed to restock product", slog.String("product.id", productID))
	}
	s.metrics.recordRestocked(ctx, quantity)
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	level := slog.LevelError
	if isClientError(err) {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func isClientError(err error) bool {
	return errors.Is(err, application.ErrInvalidInput) ||
		errors.Is(err, application.ErrNotFound) ||
		errors.Is(err, application.ErrInsufficientStock) ||
		errors.Is(err, application.ErrUnauthorized) ||
		errors.Is(err, application.ErrInvalidTransition) ||
		errors.Is(err, application.ErrAlreadyCancelled) ||
		errors.Is(err, application.ErrIdempotencyConflict)
}

type serviceMetrics struct {
	ordersPlaced   metric.Int64Counter
	ordersRejected metric.Int64Counter
	statusChanges  metric.Int64Counter
	unitsReserved  metric.Int64Counter
	unitsRestocked metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Number of orders placed"))
	ordersRejected, _ := m.Int64Counter("orders.service.rejected", metric.WithDescription("Number of checkouts rejected"))
	statusChanges, _ := m.Int64Counter("orders.service.status_changed", metric.WithDescription("Number of order status changes"))
	unitsReserved, _ := m.Int64Counter("orders.inventory.units_reserved", metric.WithDescription("Stock units reserved by checkout"))
	unitsRestocked, _ := m.Int64Counter("orders.inventory.units_restocked", metric.WithDescription("Stock units added by restock"))
	return serviceMetrics{
		ordersPlaced:   ordersPlaced,
		ordersRejected: ordersRejected,
		statusChanges:  statusChanges,
		unitsReserved:  unitsReserved,
		unitsRestocked: unitsRestocked,
	}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, order *ordersdomain.Order) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
	if m.unitsReserved != nil {
		var units int64
		for _, d := range order.Demand() {
			units += int64(d.Quantity)
		}
		m.unitsReserved.Add(ctx, units)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, err error) {
	if m.ordersRejected == nil {
		return
	}
	reason := "error"
	switch {
	case errors.Is(err, application.ErrInsufficientStock):
		reason = "insufficient_stock"
	case errors.Is(err, application.ErrInvalidInput):
		reason = "invalid_input"
	case errors.Is(err, application.ErrNotFound):
		reason = "not_found"
	}
	m.ordersRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m serviceMetrics) recordStatusChanged(ctx context.Context, status ordersdomain.Status) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordRestocked(ctx context.Context, quantity int) {
	if m.unitsRestocked != nil {
		m.unitsRestocked.Add(ctx, int64(quantity))
	}
}

var _ ordersports.Service = (*Service)(nil)
