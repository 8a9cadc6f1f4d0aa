package storefrontserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	ordersmemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	usermemory "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/memory"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/token"
	userapp "github.com/Apurer/go-gin-storefront/internal/domains/users/application"
	usertypes "github.com/Apurer/go-gin-storefront/internal/domains/users/application/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router     *gin.Engine
	users      *userapp.Service
	adminToken string
}

func newTestServer(t *testing.T, extra ...func(*ApiHandleFunctions)) *testServer {
	t.Helper()
	store := catalogmemory.NewStore()
	orderRepo := ordersmemory.NewRepository(store)
	catalogService := catalogapp.NewService(store.Products(), store.Categories(), catalogapp.WithProductReferences(orderRepo))
	orderService := ordersapp.NewService(orderRepo)
	codec, err := token.NewJWTCodec("test-secret")
	require.NoError(t, err)
	userService := userapp.NewService(usermemory.NewRepository(), usermemory.NewSessionStore(), codec)

	_, err = userService.EnsureAdmin(context.Background(), usertypes.RegisterInput{
		Name: "Store Admin", Email: "admin@example.com", Password: "admin-secret",
	})
	require.NoError(t, err)
	admin, err := userService.Login(context.Background(), "admin@example.com", "admin-secret")
	require.NoError(t, err)

	handlers := ApiHandleFunctions{
		AuthAPI:     NewAuthAPI(userService, false),
		ProfileAPI:  NewProfileAPI(userService),
		ProductAPI:  NewProductAPI(catalogService),
		CategoryAPI: NewCategoryAPI(catalogService),
		OrderAPI:    NewOrderAPI(orderService, nil),
		HealthAPI:   NewHealthAPI(),
		Auth:        NewAuthMiddleware(userService),
	}
	for _, fn := range extra {
		fn(&handlers)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	return &testServer{
		router:     NewRouterWithGinEngine(router, handlers),
		users:      userService,
		adminToken: admin.Token,
	}
}

type request struct {
	method  string
	path    string
	body    any
	token   string
	headers map[string]string
}

func (s *testServer) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if r.body != nil {
		var err error
		payload, err = json.Marshal(r.body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(r.method, r.path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals the response body into a generic map.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func result(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decode(t, rec)
	require.Equal(t, true, body["success"], rec.Body.String())
	res, ok := body["result"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	return res
}

// seedProduct creates a category and a product through the admin API.
func (s *testServer) seedProduct(t *testing.T, stock int) string {
	t.Helper()
	rec := s.do(t, request{method: http.MethodPost, path: "/api/admin/categories", token: s.adminToken, body: map[string]any{"name": "Keyboards"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	categoryID := result(t, rec)["id"].(string)

	rec = s.do(t, request{method: http.MethodPost, path: "/api/admin/products", token: s.adminToken, body: map[string]any{
		"name":        "Mechanical keyboard",
		"description": "Tactile switches and a steel plate.",
		"price":       "10.00",
		"categoryId":  categoryID,
		"stock":       stock,
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return result(t, rec)["id"].(string)
}

func (s *testServer) register(t *testing.T, name, email string) string {
	t.Helper()
	rec := s.do(t, request{method: http.MethodPost, path: "/api/auth/register", body: map[string]any{
		"name": name, "email": email, "password": "password1",
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return result(t, rec)["token"].(string)
}

func (s *testServer) stockOf(t *testing.T, productID string) int {
	t.Helper()
	rec := s.do(t, request{method: http.MethodGet, path: "/api/products/" + productID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return int(result(t, rec)["stock"].(float64))
}

func checkoutBody(productID string, quantity int, total string) map[string]any {
	return map[string]any{
		"name":    "Grace Hopper",
		"address": "1 Harbor Way",
		"email":   "grace@example.com",
		"phone":   "555-0100",
		"items":   []map[string]any{{"productId": productID, "quantity": quantity, "price": "10.00"}},
		"total":   total,
	}
}
