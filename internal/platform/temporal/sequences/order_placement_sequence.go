package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/go-gin-storefront/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the checkout activity with a bounded retry policy.
func RunOrderPlacementSequence(ctx workflow.Context, input orderstypes.PlaceOrderInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "items", len(input.Items))
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			NonRetryableErrorTypes: []string{
				orderactivities.ErrTypeInvalidInput,
				orderactivities.ErrTypeNotFound,
				orderactivities.ErrTypeInsufficientStock,
				orderactivities.ErrTypeIdempotencyConflict,
			},
		},
	}

	var order ordersdomain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.PlaceOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order placement sequence failed", "error", err)
		return nil, err
	}
	logger.Info("order placement sequence persisted", "orderId", order.ID)
	return &order, nil
}
