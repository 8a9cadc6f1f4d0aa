package orders

import (
	"strings"

	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/platform/temporal/sequences"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing checkouts.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput captures the checkout to run.
type OrderPlacementWorkflowInput struct {
	Command orderstypes.PlaceOrderInput
	TraceID string
}

// OrderPlacementWorkflow reserves stock and persists an order. Without a client
// key the workflow id becomes the idempotency key, so activity retries replay.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	command := input.Command
	if strings.TrimSpace(command.IdempotencyKey) == "" {
		command.IdempotencyKey = workflow.GetInfo(ctx).WorkflowExecution.ID
	}
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "items", len(command.Items))...)
	order, err := sequences.RunOrderPlacementSequence(ctx, command)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
