package domain

import (
	"fmt"
	"time"
)

// CartEntry is a stored cart row. ProductID is a weak reference: the
// product may disappear without the entry being removed.
type CartEntry struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CartLine is a cart entry joined with the product it references.
type CartLine struct {
	CartID      string `json:"cart_id"`
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
}

// DanglingReference is a cart entry whose product no longer exists.
type DanglingReference struct {
	CartID    string `json:"cart_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type Cart struct {
	Items    []CartLine          `json:"items"`
	Total    int64               `json:"total"`
	Count    int                 `json:"count"`
	Dangling []DanglingReference `json:"dangling,omitempty"`
}

// NewCart builds the cart read model. Dangling references are kept out of
// the items, the total and the count.
func NewCart(lines []CartLine, dangling []DanglingReference) (Cart, error) {
	cart := Cart{
		Items:    make([]CartLine, 0, len(lines)),
		Dangling: dangling,
	}
	for _, line := range lines {
		subtotal, ok := lineAmount(line.Price, line.Quantity)
		if !ok {
			return Cart{}, fmt.Errorf("cart entry %s: %w", line.CartID, ErrAmountOverflow)
		}
		line.Subtotal = subtotal
		if cart.Total, ok = addAmount(cart.Total, subtotal); !ok {
			return Cart{}, ErrAmountOverflow
		}
		cart.Items = append(cart.Items, line)
	}
	cart.Count = len(cart.Items)
	return cart, nil
}

type AddResult string

const (
	AddResultCreated AddResult = "created"
	AddResultUpdated AddResult = "updated"
)

// AddOutcome reports how an add-to-cart call was applied.
type AddOutcome struct {
	CartID   string
	Quantity int
	Result   AddResult
}
