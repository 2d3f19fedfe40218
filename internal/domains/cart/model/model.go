package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one product/variant + quantity entry owned by a user.
// OrderID is null while the line sits in the cart; once an order is
// placed the line is stamped with the order ID and becomes an immutable
// historical purchase record.
type CartLine struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	VariantID  *uuid.UUID      `json:"variant_id,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"` // snapshot at add-time
	LineAmount decimal.Decimal `json:"line_amount"`
	OrderID    *uuid.UUID      `json:"order_id,omitempty"`
	Title      string          `json:"title"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// IsConfirmed reports whether the line already belongs to an order
func (l *CartLine) IsConfirmed() bool {
	return l.OrderID != nil
}

// CartResponse is the cart view for the checkout page.
// Subtotal is always derived from the lines, never stored.
type CartResponse struct {
	Lines    []CartLine      `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
