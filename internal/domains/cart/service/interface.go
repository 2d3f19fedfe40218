package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/cart/model"
)

// ServiceInterface is the cart ledger
type ServiceInterface interface {
	// AddLine creates a line or increments an existing one.
	// The unit price is snapshotted from the catalog at add-time.
	// Returns catalog NotFound errors for invalid product/variant.
	AddLine(ctx context.Context, userID uuid.UUID, req model.AddLineRequest) (*model.CartLine, error)

	// GetCart returns the open lines plus the derived subtotal
	GetCart(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error)

	// Subtotal derives the open-cart subtotal
	Subtotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	// Clear removes all open lines (used after failed placements or
	// on user request; successful placement reassigns instead)
	Clear(ctx context.Context, userID uuid.UUID) error
}
