package models

// LineItem is the product/quantity shape shared by cart and order lines.
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Total is the line's value at the product's current price.
func (l LineItem) Total() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// CartLine is a live, mutable selection that is not yet part of an order.
type CartLine struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"-"`
	LineItem
}

// OrderLine is a cart line that has been re-parented to an order.
type OrderLine struct {
	ID      int64 `json:"id"`
	OrderID int64 `json:"order_id"`
	LineItem
}

// ToOrderLine converts the cart line into its placed-order form. The row
// identity, product and quantity carry over unchanged.
func (c CartLine) ToOrderLine(orderID int64) OrderLine {
	return OrderLine{ID: c.ID, OrderID: orderID, LineItem: c.LineItem}
}

// ToggleOutcome describes what a cart toggle did to the line.
type ToggleOutcome string

const (
	ToggleCreated ToggleOutcome = "created"
	ToggleUpdated ToggleOutcome = "updated"
	ToggleRemoved ToggleOutcome = "removed"
)

// ToggleResult is returned by a cart toggle. Line is nil when removed.
type ToggleResult struct {
	Outcome ToggleOutcome `json:"outcome"`
	Line    *CartLine     `json:"item"`
}

// Message renders the outcome for API responses.
func (r ToggleResult) Message() string {
	switch r.Outcome {
	case ToggleCreated:
		return "Item Added To Cart"
	case ToggleRemoved:
		return "Item Removed From Cart"
	default:
		return "Item Updated In Cart"
	}
}
