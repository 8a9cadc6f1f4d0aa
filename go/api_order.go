package storefrontserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/http/mapper"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// IdempotencyKeyHeader lets clients retry checkout without placing a second order.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 255

// OrderAPI wires HTTP transport with the orders bounded context service and workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. With nil workflows checkout calls the service directly.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /api/orders
// Places an order for a guest or the signed-in user.
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload orderhttpmapper.CreateOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{IdempotencyKeyHeader: "must be at most 255 characters"}))
		return
	}
	var userID *string
	if user, ok := CurrentUser(c); ok {
		id := user.ID
		userID = &id
	}
	order, err := api.placeOrder(c.Request.Context(), orderhttpmapper.ToPlaceOrderInput(payload, userID, key))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Envelope{Success: true, OrderID: order.ID, Result: orderhttpmapper.FromDomainOrder(order)})
}

func (api *OrderAPI) placeOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.PlaceOrder(ctx, input)
}

// Get /api/orders/mine
func (api *OrderAPI) ListMyOrders(c *gin.Context) {
	user, ok := requireCurrentUser(c)
	if !ok {
		return
	}
	orders, err := api.service.ListUserOrders(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

// Post /api/orders/:orderId/cancel
func (api *OrderAPI) CancelOrder(c *gin.Context) {
	user, ok := requireCurrentUser(c)
	if !ok {
		return
	}
	order, err := api.service.CancelOrder(c.Request.Context(), c.Param("orderId"), user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Get /api/admin/orders
func (api *OrderAPI) ListOrders(c *gin.Context) {
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	input := ordertypes.ListOrdersInput{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
		Status: strings.TrimSpace(c.Query("status")),
	}
	result, err := api.service.GetOrders(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, orderhttpmapper.FromOrderPage(result))
}

// Get /api/admin/orders/:orderId
func (api *OrderAPI) GetOrder(c *gin.Context) {
	order, err := api.service.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Patch /api/admin/orders/:orderId/status
// Failures other than not-found and validation carry a generic message.
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	var payload orderhttpmapper.UpdateStatus
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := api.service.UpdateOrderStatus(c.Request.Context(), c.Param("orderId"), payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, ordersapp.ErrNotFound), errors.Is(err, ordersapp.ErrInvalidInput):
			respondServiceError(c, err)
		case errors.Is(err, ordersapp.ErrInsufficientStock):
			respondProblem(c, apierrors.ErrInsufficientStock.WithDetail("failed to update order status"))
		default:
			respondProblem(c, apierrors.ErrInternal.WithDetail("failed to update order status"))
		}
		return
	}
	respondOK(c, http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Post /api/admin/products/:productId/restock
func (api *OrderAPI) RestockProduct(c *gin.Context) {
	var payload orderhttpmapper.Restock
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	if err := api.service.Restock(c.Request.Context(), c.Param("productId"), payload.Quantity); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "stock updated")
}
