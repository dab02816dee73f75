package models

import "time"

// OrderStatus is the lifecycle state of an order. Checkout always creates
// pending orders; later transitions belong to fulfilment.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ShippingSnapshot is the copy of a shipping address stored on an order.
type ShippingSnapshot struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Zipcode  string `json:"zipcode"`
}

type Order struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	TxRef     string           `json:"tx_ref"`
	Status    OrderStatus      `json:"status"`
	Shipping  ShippingSnapshot `json:"shipping"`
	Items     []OrderLine      `json:"items"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Subtotal sums the current product price of every line.
func (o *Order) Subtotal() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Total()
	}
	return total
}

// ItemCount sums line quantities.
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// NewPendingOrder builds an unsaved order carrying a snapshot of addr.
func NewPendingOrder(userID int64, txRef string, addr *ShippingAddress, now time.Time) *Order {
	return &Order{
		UserID:    userID,
		TxRef:     txRef,
		Status:    OrderStatusPending,
		Shipping:  addr.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
