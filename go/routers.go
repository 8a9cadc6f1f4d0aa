package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// Middleware runs before HandlerFunc, in order.
	Middleware []gin.HandlerFunc
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the storefront routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := make([]gin.HandlerFunc, 0, len(route.Middleware)+1)
		for _, mw := range route.Middleware {
			if mw != nil {
				handlers = append(handlers, mw)
			}
		}
		handlers = append(handlers, route.HandlerFunc)
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, handlers...)
		case http.MethodPost:
			router.POST(route.Pattern, handlers...)
		case http.MethodPut:
			router.PUT(route.Pattern, handlers...)
		case http.MethodPatch:
			router.PATCH(route.Pattern, handlers...)
		case http.MethodDelete:
			router.DELETE(route.Pattern, handlers...)
		}
	}
	return router
}

// DefaultHandleFunc answers routes that have no implementation wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// ApiHandleFunctions bundles the handlers and middleware the router mounts.
type ApiHandleFunctions struct {
	AuthAPI     AuthAPI
	ProfileAPI  ProfileAPI
	ProductAPI  ProductAPI
	CategoryAPI CategoryAPI
	OrderAPI    OrderAPI
	HealthAPI   HealthAPI

	// Auth resolves the current user. A nil Auth treats every request as anonymous.
	Auth *AuthMiddleware
	// CheckoutLimit guards order creation. Nil disables rate limiting.
	CheckoutLimit gin.HandlerFunc
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	auth := handleFunctions.Auth
	optional := auth.Optional()
	user := auth.RequireUser()
	admin := auth.RequireAdmin()

	return []Route{
		{"Healthz", http.MethodGet, "/healthz", nil, handleFunctions.HealthAPI.Healthz},

		{"Register", http.MethodPost, "/api/auth/register", nil, handleFunctions.AuthAPI.Register},
		{"Login", http.MethodPost, "/api/auth/login", nil, handleFunctions.AuthAPI.Login},
		{"Logout", http.MethodPost, "/api/auth/logout", []gin.HandlerFunc{user}, handleFunctions.AuthAPI.Logout},

		{"GetProfile", http.MethodGet, "/api/profile", []gin.HandlerFunc{user}, handleFunctions.ProfileAPI.GetProfile},
		{"UpdateProfile", http.MethodPut, "/api/profile", []gin.HandlerFunc{user}, handleFunctions.ProfileAPI.UpdateProfile},

		{"ListProducts", http.MethodGet, "/api/products", nil, handleFunctions.ProductAPI.ListProducts},
		{"GetProduct", http.MethodGet, "/api/products/:productId", nil, handleFunctions.ProductAPI.GetProduct},
		{"CreateProduct", http.MethodPost, "/api/admin/products", []gin.HandlerFunc{admin}, handleFunctions.ProductAPI.CreateProduct},
		{"UpdateProduct", http.MethodPut, "/api/admin/products/:productId", []gin.HandlerFunc{admin}, handleFunctions.ProductAPI.UpdateProduct},
		{"DeleteProduct", http.MethodDelete, "/api/admin/products/:productId", []gin.HandlerFunc{admin}, handleFunctions.ProductAPI.DeleteProduct},
		{"RestockProduct", http.MethodPost, "/api/admin/products/:productId/restock", []gin.HandlerFunc{admin}, handleFunctions.OrderAPI.RestockProduct},

		{"ListCategories", http.MethodGet, "/api/categories", nil, handleFunctions.CategoryAPI.ListCategories},
		{"GetCategory", http.MethodGet, "/api/categories/:categoryId", nil, handleFunctions.CategoryAPI.GetCategory},
		{"CreateCategory", http.MethodPost, "/api/admin/categories", []gin.HandlerFunc{admin}, handleFunctions.CategoryAPI.CreateCategory},
		{"UpdateCategory", http.MethodPut, "/api/admin/categories/:categoryId", []gin.HandlerFunc{admin}, handleFunctions.CategoryAPI.UpdateCategory},
		{"DeleteCategory", http.MethodDelete, "/api/admin/categories/:categoryId", []gin.HandlerFunc{admin}, handleFunctions.CategoryAPI.DeleteCategory},

		{"CreateOrder", http.MethodPost, "/api/orders", []gin.HandlerFunc{optional, handleFunctions.CheckoutLimit}, handleFunctions.OrderAPI.CreateOrder},
		{"ListMyOrders", http.MethodGet, "/api/orders/mine", []gin.HandlerFunc{user}, handleFunctions.OrderAPI.ListMyOrders},
		{"CancelOrder", http.MethodPost, "/api/orders/:orderId/cancel", []gin.HandlerFunc{user}, handleFunctions.OrderAPI.CancelOrder},
		{"ListOrders", http.MethodGet, "/api/admin/orders", []gin.HandlerFunc{admin}, handleFunctions.OrderAPI.ListOrders},
		{"GetOrder", http.MethodGet, "/api/admin/orders/:orderId", []gin.HandlerFunc{admin}, handleFunctions.OrderAPI.GetOrder},
		{"UpdateOrderStatus", http.MethodPatch, "/api/admin/orders/:orderId/status", []gin.HandlerFunc{admin}, handleFunctions.OrderAPI.UpdateOrderStatus},
	}
}
