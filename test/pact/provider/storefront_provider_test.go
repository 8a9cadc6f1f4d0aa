//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	storefrontserver "github.com/Apurer/go-gin-storefront/go"
	catalogmemory "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	ordersmemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	ordersworkflows "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	usermemory "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/memory"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/token"
	userapp "github.com/Apurer/go-gin-storefront/internal/domains/users/application"
	pacttest "github.com/Apurer/go-gin-storefront/test/pact"
)

func TestStorefrontProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateProductInStock: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedProduct(t, 5)
			}
			return nil, nil
		},
		pacttest.StateProductLowStock: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedProduct(t, 1)
			}
			return nil, nil
		},
		pacttest.StateProductMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	catalog *catalogmemory.Store
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	catalog := catalogmemory.NewStore()
	orderRepo := ordersmemory.NewRepository(catalog)
	orderService := ordersapp.NewService(orderRepo)
	catalogService := catalogapp.NewService(catalog.Products(), catalog.Categories(), catalogapp.WithProductReferences(orderRepo))
	codec, err := token.NewJWTCodec("pact-secret")
	require.NoError(t, err)
	userService := userapp.NewService(usermemory.NewRepository(), usermemory.NewSessionStore(), codec)

	handlers := storefrontserver.ApiHandleFunctions{
		AuthAPI:     storefrontserver.NewAuthAPI(userService, false),
		ProfileAPI:  storefrontserver.NewProfileAPI(userService),
		ProductAPI:  storefrontserver.NewProductAPI(catalogService),
		CategoryAPI: storefrontserver.NewCategoryAPI(catalogService),
		OrderAPI:    storefrontserver.NewOrderAPI(orderService, ordersworkflows.NewInlineOrderWorkflows(orderService)),
		HealthAPI:   storefrontserver.NewHealthAPI(),
		Auth:        storefrontserver.NewAuthMiddleware(userService),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router = storefrontserver.NewRouterWithGinEngine(router, handlers)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{catalog: catalog, server: server}
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	_ = a.catalog.Products().Delete(ctx, pacttest.ExistingProductID)
	_ = a.catalog.Categories().Delete(ctx, pacttest.CategoryID)
}

func (a *contractProviderApp) seedProduct(t testing.TB, stock int) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	category, err := catalogdomain.NewCategory(pacttest.CategoryID, "Lighting", now)
	require.NoError(t, err)
	require.NoError(t, a.catalog.Categories().Create(ctx, category))

	product, err := catalogdomain.NewProduct(catalogdomain.NewProductParams{
		ID:         pacttest.ExistingProductID,
		Name:       pacttest.ProductName,
		Price:      decimal.RequireFromString(pacttest.ProductPrice),
		CategoryID: pacttest.CategoryID,
		Stock:      stock,
		CreatedAt:  now,
	})
	require.NoError(t, err)
	require.NoError(t, a.catalog.Products().Create(ctx, product))
}
