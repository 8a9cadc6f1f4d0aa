package storefrontserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_GuestCheckoutReservesStock(t *testing.T) {
	s := newTestServer(t)
	productID := s.seedProduct(t, 2)

	rec := s.do(t, request{method: http.MethodPost, path: "/api/orders", body: checkoutBody(productID, 2, "20.00")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["orderId"])
	order := body["result"].(map[string]any)
	assert.Equal(t, "PENDING", order["status"])
	assert.Nil(t, order["userId"])
	assert.Equal(t, 0, s.stockOf(t, productID))

	rec = s.do(t, request{method: http.MethodPost, path: "/api/orders", body: checkoutBody(productID, 1, "10.00")})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	problem := decode(t, rec)
	assert.Equal(t, "INSUFFICIENT_STOCK", problem["code"])
	assert.Equal(t, false, problem["success"])
	assert.Equal(t, productID, problem["extensions"].(map[string]any)["productId"])
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestCreateOrder_Rejections(t *testing.T) {
	s := newTestServer(t)
	productID := s.seedProduct(t, 5)

	rec := s.do(t, request{method: http.MethodPost, path: "/api/orders", body: checkoutBody(productID, 1, "99.00")})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec)["code"])

	rec = s.do(t, request{method: http.MethodPost, path: "/api/orders", body: checkoutBody("ghost", 1, "10.00")})
	require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	assert.Equal(t, "NOT_FOUND", decode(t, rec)["code"])

	assert.Equal(t, 5, s.stockOf(t, productID))
}

func TestCreateOrder_IdempotencyKeyReplaysOrder(t *testing.T) {
	s := newTestServer(t)
	productID := s.seedProduct(t, 5)
	headers := map[string]string{IdempotencyKeyHeader: "cart-42"}

	first := s.do(t, request{method: http.MethodPost, path: "/api/orders", headers: headers, body: checkoutBody(productID, 2, "20.00")})
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := s.do(t, request{method: http.MethodPost, path: "/api/orders", headers: headers, body: checkoutBody(productID, 2, "20.00")})
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())
	assert.Equal(t, decode(t, first)["orderId"], decode(t, second)["orderId"])
	assert.Equal(t, 3, s.stockOf(t, productID))

	conflict := s.do(t, request{method: http.MethodPost, path: "/api/orders", headers: headers, body: checkoutBody(productID, 1, "10.00")})
	require.Equal(t, http.StatusConflict, conflict.Code, conflict.Body.String())
	assert.Equal(t, "IDEMPOTENCY_CONFLICT", decode(t, conflict)["code"])
	assert.Equal(t, 3, s.stockOf(t, productID))
}

func TestCancelOrder_OnlyOwnerMayCancel(t *testing.T) {
	s := newTestServer(t)
	productID := s.seedProduct(t, 3)
	owner := s.register(t, "Ada Lovelace", "ada@example.com")
	stranger := s.register(t, "Charles Babbage", "charles@example.com")

	rec := s.do(t, request{method: http.MethodPost, path: "/api/orders", token: owner, body: checkoutBody(productID, 2, "20.00")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	orderID := decode(t, rec)["orderId"].(string)
	assert.Equal(t, 1, s.stockOf(t, productID))

	rec = s.do(t, request{method: http.MethodPost, path: "/api/orders/" + orderID + "/cancel"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, request{method: http.MethodPost, path: "/api/orders/" + orderID + "/cancel", token: stranger})
	require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	assert.Equal(t, "UNAUTHORIZED", decode(t, rec)["code"])
	assert.Equal(t, 1, s.stockOf(t, productID))

	rec = s.do(t, request{method: http.MethodPost, path: "/api/orders/" + orderID + "/cancel", token: owner})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "CANCELLED", result(t, rec)["status"])
	assert.Equal(t, 3, s.stockOf(t, productID))

	rec = s.do(t, request{method: http.MethodPost, path: "/api/orders/" + orderID + "/cancel", token: owner})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, "ALREADY_CANCELLED", decode(t, rec)["code"])

	rec = s.do(t, request{method: http.MethodGet, path: "/api/orders/mine", token: owner})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	mine := decode(t, rec)["result"].([]any)
	require.Len(t, mine, 1)
	assert.Equal(t, orderID, mine[0].(map[string]any)["id"])

	rec = s.do(t, request{method: http.MethodGet, path: "/api/orders/mine", token: stranger})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decode(t, rec)["result"])
}

func TestUpdateOrderStatus_AdminLifecycle(t *testing.T) {
	s := newTestServer(t)
	productID := s.seedProduct(t, 2)
	owner := s.register(t, "Ada Lovelace", "ada@example.com")

	rec := s.do(t, request{method: http.MethodPost, path: "/api/orders", token: owner, body: checkoutBody(productID, 2, "20.00")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	orderID := decode(t, rec)["orderId"].(string)
	statusPath := "/api/admin/orders/" + orderID + "/status"

	rec = s.do(t, request{method: http.MethodPatch, path: statusPath, token: owner, body: map[string]any{"status": "SHIPPED"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, request{method: http.MethodPatch, path: statusPath, token: s.adminToken, body: map[string]any{"status": "SHIPPED"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "SHIPPED", result(t, rec)["status"])
	assert.Equal(t, 0, s.stockOf(t, productID))

	rec = s.do(t, request{method: http.MethodPost, path: "/api/orders/" + orderID + "/cancel", token: owner})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, "INVALID_TRANSITION", decode(t, rec)["code"])

	rec = s.do(t, request{method: http.MethodPatch, path: statusPath, token: s.adminToken, body: map[string]any{"status": "LOST"}})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = s.do(t, request{method: http.MethodPatch, path: "/api/admin/orders/missing/status", token: s.adminToken, body: map[string]any{"status": "SHIPPED"}})
	require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec = s.do(t, request{method: http.MethodPatch, path: statusPath, token: s.adminToken, body: map[string]any{"status": "CANCELLED"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, s.stockOf(t, productID))

	// Another buyer takes the released units, so reopening cannot be covered.
	rec = s.do(t, request{method: http.MethodPost, path: "/api/orders", body: checkoutBody(productID, 2, "20.00")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, request{method: http.MethodPatch, path: statusPath, token: s.adminToken, body: map[string]any{"status": "PENDING"}})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	problem := decode(t, rec)
	assert.Equal(t, "INSUFFICIENT_STOCK", problem["code"])
	assert.Equal(t, "failed to update order status", problem["detail"])
	assert.Equal(t, 0, s.stockOf(t, productID))
}

func TestAdminOrders_ListAndGet(t *testing.T) {
	s := newTestServer(t)
	productID := s.seedProduct(t, 10)
	for i := 0; i < 3; i++ {
		rec := s.do(t, request{method: http.MethodPost, path: "/api/orders", body: checkoutBody(productID, 1, "10.00")})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := s.do(t, request{method: http.MethodGet, path: "/api/admin/orders?page=2&limit=2", token: s.adminToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := result(t, rec)
	assert.EqualValues(t, 3, page["totalOrders"])
	assert.EqualValues(t, 2, page["totalPages"])
	require.Len(t, page["orders"], 1)
	orderID := page["orders"].([]any)[0].(map[string]any)["id"].(string)

	rec = s.do(t, request{method: http.MethodGet, path: "/api/admin/orders/" + orderID, token: s.adminToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, orderID, result(t, rec)["id"])

	rec = s.do(t, request{method: http.MethodGet, path: "/api/admin/orders?page=abc", token: s.adminToken})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, request{method: http.MethodGet, path: "/api/admin/orders"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRestockProduct(t *testing.T) {
	s := newTestServer(t)
	productID := s.seedProduct(t, 1)

	rec := s.do(t, request{method: http.MethodPost, path: "/api/admin/products/" + productID + "/restock", token: s.adminToken, body: map[string]any{"quantity": 4}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 5, s.stockOf(t, productID))

	rec = s.do(t, request{method: http.MethodPost, path: "/api/admin/products/" + productID + "/restock", token: s.adminToken, body: map[string]any{"quantity": 0}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, request{method: http.MethodPost, path: "/api/admin/products/ghost/restock", token: s.adminToken, body: map[string]any{"quantity": 1}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
