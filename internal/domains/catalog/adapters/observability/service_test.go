package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
)

func TestService_TracesAndLogsNotFoundAsWarning(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	store := memory.NewStore()
	svc := New(application.NewService(store.Products(), store.Categories()),
		WithTracer(provider.Tracer("test")),
		WithLogger(logger),
	)

	_, err := svc.GetProduct(context.Background(), "missing")
	require.ErrorIs(t, err, application.ErrNotFound)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "CatalogService.GetProduct", spans[0].Name())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "missing", entry["product.id"])
}
