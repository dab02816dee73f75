package service

import (
	"math"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// CartSummary is the priced view of a user's live cart.
type CartSummary struct {
	Items     []models.CartLine `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  float64           `json:"subtotal"`
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// SummarizeCart prices lines at the products' current prices.
func SummarizeCart(lines []models.CartLine) CartSummary {
	summary := CartSummary{Items: lines}
	if summary.Items == nil {
		summary.Items = []models.CartLine{}
	}

	var subtotal float64
	for _, l := range lines {
		subtotal += l.Total()
		summary.ItemCount += l.Quantity
	}
	summary.Subtotal = roundCents(subtotal)
	return summary
}

// OrderTotal is the priced breakdown of a placed order.
type OrderTotal struct {
	ItemCount int     `json:"item_count"`
	Subtotal  float64 `json:"subtotal"`
}

// CalculateOrderTotal prices an order's lines.
func CalculateOrderTotal(order *models.Order) OrderTotal {
	return OrderTotal{
		ItemCount: order.ItemCount(),
		Subtotal:  roundCents(order.Subtotal()),
	}
}
