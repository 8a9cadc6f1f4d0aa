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

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) ListProducts(ctx context.Context, input types.ListProductsInput) (*types.ProductPage, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts",
		trace.WithAttributes(
			attribute.String("catalog.category_id", input.CategoryID),
			attribute.String("catalog.sort", input.SortBy),
			attribute.Int("page", input.PageNumber),
		))
	defer span.End()

	page, err := s.inner.ListProducts(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int64("products.total", page.TotalCount))
	return page, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	product, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product.id", id))
	}
	return product, nil
}

func (s *Service) CreateProduct(ctx context.Context, input types.CreateProductInput) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct",
		trace.WithAttributes(attribute.String("catalog.category_id", input.CategoryID)))
	defer span.End()

	s.logInfo(ctx, "creating product", slog.String("product.name", input.Name), slog.Int("product.stock", input.Stock))
	product, err := s.inner.CreateProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product")
	}
	span.SetAttributes(attribute.String("product.id", product.ID))
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "product created", slog.String("product.id", product.ID))
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, input types.UpdateProductInput) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(attribute.String("product.id", input.ID)))
	defer span.End()

	product, err := s.inner.UpdateProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.String("product.id", input.ID))
	}
	s.logInfo(ctx, "product updated", slog.String("product.id", product.ID))
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	if err := s.inner.DeleteProduct(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.String("product.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "product deleted", slog.String("product.id", id))
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListCategories")
	defer span.End()

	categories, err := s.inner.ListCategories(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list categories")
	}
	span.SetAttributes(attribute.Int("categories.count", len(categories)))
	return categories, nil
}

func (s *Service) GetCategory(ctx context.Context, id string) (*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetCategory", trace.WithAttributes(attribute.String("category.id", id)))
	defer span.End()

	category, err := s.inner.GetCategory(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load category", slog.String("category.id", id))
	}
	return category, nil
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateCategory")
	defer span.End()

	category, err := s.inner.CreateCategory(ctx, name)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create category")
	}
	s.logInfo(ctx, "category created", slog.String("category.id", category.ID), slog.String("category.name", category.Name))
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, name string) (*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateCategory", trace.WithAttributes(attribute.String("category.id", id)))
	defer span.End()

	category, err := s.inner.UpdateCategory(ctx, id, name)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update category", slog.String("category.id", id))
	}
	return category, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteCategory", trace.WithAttributes(attribute.String("category.id", id)))
	defer span.End()

	if err := s.inner.DeleteCategory(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete category", slog.String("category.id", id))
	}
	s.logInfo(ctx, "category deleted", slog.String("category.id", id))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		level := slog.LevelError
		if errors.Is(err, application.ErrInvalidInput) ||
			errors.Is(err, application.ErrNotFound) ||
			errors.Is(err, application.ErrCategoryInUse) ||
			errors.Is(err, application.ErrProductInUse) {
			level = slog.LevelWarn
		}
		s.logger.LogAttrs(ctx, level, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	productsCreated metric.Int64Counter
	productsDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("catalog.products.created", metric.WithDescription("Number of products created"))
	deleted, _ := m.Int64Counter("catalog.products.deleted", metric.WithDescription("Number of products deleted"))
	return serviceMetrics{productsCreated: created, productsDeleted: deleted}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.productsCreated != nil {
		m.productsCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.productsDeleted != nil {
		m.productsDeleted.Add(ctx, 1)
	}
}

var _ catalogports.Service = (*Service)(nil)
