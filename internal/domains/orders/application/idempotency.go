package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
)

type normalizedPlaceOrderInput struct {
	Name    string           `json:"name"`
	Address string           `json:"address"`
	Email   string           `json:"email"`
	Phone   string           `json:"phone"`
	UserID  string           `json:"userId"`
	Items   []normalizedItem `json:"items"`
	Total   string           `json:"total"`
}

type normalizedItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// FingerprintPlaceOrder hashes the checkout payload, excluding the idempotency key.
// Item order does not affect the fingerprint.
func FingerprintPlaceOrder(input types.PlaceOrderInput) (string, error) {
	payload, err := json.Marshal(normalizePlaceOrderInput(input))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func normalizePlaceOrderInput(input types.PlaceOrderInput) normalizedPlaceOrderInput {
	normalized := normalizedPlaceOrderInput{
		Name:    strings.TrimSpace(input.Name),
		Address: strings.TrimSpace(input.Address),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:   strings.TrimSpace(input.Phone),
		Total:   input.Total.String(),
		Items:   make([]normalizedItem, 0, len(input.Items)),
	}
	if input.UserID != nil {
		normalized.UserID = strings.TrimSpace(*input.UserID)
	}
	for _, item := range input.Items {
		normalized.Items = append(normalized.Items, normalizedItem{
			ProductID: strings.TrimSpace(item.ProductID),
			Quantity:  item.Quantity,
			Price:     item.Price.String(),
		})
	}
	sort.Slice(normalized.Items, func(i, j int) bool {
		a, b := normalized.Items[i], normalized.Items[j]
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		if a.Quantity != b.Quantity {
			return a.Quantity < b.Quantity
		}
		return a.Price < b.Price
	})
	return normalized
}
