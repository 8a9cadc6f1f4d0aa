package storefrontserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducts_BrowseAndAdminCRUD(t *testing.T) {
	s := newTestServer(t)
	productID := s.seedProduct(t, 4)

	rec := s.do(t, request{method: http.MethodGet, path: "/api/products?search=KEYBOARD&sortBy=priceAsc&pageSize=5"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := result(t, rec)
	assert.EqualValues(t, 1, page["totalCount"])
	assert.EqualValues(t, 1, page["pageCount"])
	assert.EqualValues(t, 5, page["pageSize"])

	rec = s.do(t, request{method: http.MethodGet, path: "/api/products?sortBy=cheapest"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, request{method: http.MethodGet, path: "/api/products?pageNumber=two"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, request{method: http.MethodPut, path: "/api/admin/products/" + productID, token: s.adminToken, body: map[string]any{
		"name": "Silent keyboard", "price": "12.50", "stock": 99,
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := result(t, rec)
	assert.Equal(t, "Silent keyboard", updated["name"])
	assert.InDelta(t, 12.5, updated["price"], 0.0001)
	assert.EqualValues(t, 4, updated["stock"])

	rec = s.do(t, request{method: http.MethodPost, path: "/api/admin/products", token: s.adminToken, body: map[string]any{
		"name": "Orphan", "description": "No category on this one.", "price": "1.00", "categoryId": "nope",
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, request{method: http.MethodDelete, path: "/api/admin/products/" + productID, token: s.adminToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(t, request{method: http.MethodGet, path: "/api/products/" + productID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategories_DeleteBlockedWhileInUse(t *testing.T) {
	s := newTestServer(t)
	productID := s.seedProduct(t, 1)
	product := result(t, s.do(t, request{method: http.MethodGet, path: "/api/products/" + productID}))
	categoryID := product["categoryId"].(string)

	rec := s.do(t, request{method: http.MethodGet, path: "/api/categories"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode(t, rec)["result"], 1)

	rec = s.do(t, request{method: http.MethodPut, path: "/api/admin/categories/" + categoryID, token: s.adminToken, body: map[string]any{"name": "Keys"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Keys", result(t, rec)["name"])

	rec = s.do(t, request{method: http.MethodDelete, path: "/api/admin/categories/" + categoryID, token: s.adminToken})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, "CONFLICT", decode(t, rec)["code"])

	rec = s.do(t, request{method: http.MethodDelete, path: "/api/admin/products/" + productID, token: s.adminToken})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, request{method: http.MethodDelete, path: "/api/admin/categories/" + categoryID, token: s.adminToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(t, request{method: http.MethodGet, path: "/api/categories/" + categoryID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, request{method: http.MethodPost, path: "/api/admin/categories", token: s.adminToken, body: map[string]any{"name": "x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProducts_DeleteBlockedWhileOrdered(t *testing.T) {
	s := newTestServer(t)
	productID := s.seedProduct(t, 3)

	rec := s.do(t, request{method: http.MethodPost, path: "/api/orders", body: checkoutBody(productID, 1, "10.00")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, request{method: http.MethodDelete, path: "/api/admin/products/" + productID, token: s.adminToken})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, "CONFLICT", decode(t, rec)["code"])

	rec = s.do(t, request{method: http.MethodGet, path: "/api/products/" + productID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, result(t, rec)["stock"])
}
