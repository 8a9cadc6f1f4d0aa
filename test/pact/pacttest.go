//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "storefront-api"
	ConsumerName = "storefront-web"

	StateProductInStock  = "product p-pact exists with 5 in stock"
	StateProductLowStock = "product p-pact exists with 1 in stock"
	StateProductMissing  = "no product with id p-missing"
)

const (
	ExistingProductID = "p-pact"
	MissingProductID  = "p-missing"
	CategoryID        = "c-pact"

	ProductName  = "Pact Desk Lamp"
	ProductPrice = "25.00"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleCheckoutPayload is a guest checkout for quantity units of the pact product.
func ExampleCheckoutPayload(quantity int, total string) map[string]any {
	return map[string]any{
		"name":    "Pact Shopper",
		"address": "1 Contract Road",
		"email":   "shopper@example.pact",
		"phone":   "555-0199",
		"items": []map[string]any{
			{"productId": ExistingProductID, "quantity": quantity, "price": ProductPrice},
		},
		"total": total,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
