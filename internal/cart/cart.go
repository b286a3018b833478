package cart

import (
	"github.com/shopspring/decimal"

	"github.com/farmlink/farm-market-backend/internal/product"
)

// Item is one product line in a user's cart.
type Item struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Cart is the client-facing cart shape. TotalItems and TotalPrice are
// always recomputed from Items, never patched incrementally.
type Cart struct {
	Items      []Item          `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// Totals recomputes derived fields from the item list.
func (c *Cart) Totals() {
	count := 0
	total := decimal.Zero
	for _, item := range c.Items {
		count += item.Quantity
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	c.TotalItems = count
	c.TotalPrice = total
}
