package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLineItem is one product entry in the cart. Display fields are a
// snapshot captured when the line was created and are never re-fetched,
// so a later catalog change does not affect an existing line.
type CartLineItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns Price * Quantity for this line.
func (l CartLineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the pre-checkout selection for one profile.
// At most one line exists per distinct ProductID.
type Cart struct {
	OwnerID   string         `json:"ownerId"`
	Items     []CartLineItem `json:"items"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// TotalItems is the sum of line quantities, recomputed on every call.
func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of line subtotals, recomputed on every call.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// FindLine returns the index of the line with the given id, or -1.
func (c Cart) FindLine(lineID string) int {
	for i, item := range c.Items {
		if item.ID == lineID {
			return i
		}
	}
	return -1
}

// FindProduct returns the index of the line holding the given product, or -1.
func (c Cart) FindProduct(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy decoupled from the live cart.
func (c Cart) Clone() Cart {
	out := c
	out.Items = make([]CartLineItem, len(c.Items))
	copy(out.Items, c.Items)
	return out
}
