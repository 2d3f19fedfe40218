package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/cart/model"
)

// RepositoryInterface defines data access for cart lines
type RepositoryInterface interface {
	// GetUnconfirmedLine finds the user's open line for a product/variant.
	// Returns: nil if not exists (don't treat as error)
	GetUnconfirmedLine(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) (*model.CartLine, error)

	// InsertLine creates a new cart line
	InsertLine(ctx context.Context, line *model.CartLine) error

	// UpdateLineQuantity sets quantity and recomputes line_amount.
	// Only touches lines with order_id IS NULL; confirmed lines are
	// immutable history.
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int, lineAmount decimal.Decimal) error

	// ListUnconfirmed returns the user's open cart lines
	ListUnconfirmed(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error)

	// SubtotalUnconfirmed derives the cart subtotal as
	// SUM(line_amount) over open lines. Never stored, to avoid drift.
	SubtotalUnconfirmed(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	// DeleteUnconfirmed clears the user's open cart lines
	DeleteUnconfirmed(ctx context.Context, userID uuid.UUID) error

	// LockUnconfirmedWithTx selects the user's open lines FOR UPDATE,
	// serializing concurrent checkouts of the same cart.
	LockUnconfirmedWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]model.CartLine, error)

	// ReassignToOrderWithTx stamps all open lines with the new order ID.
	// Must run in the same transaction as the order insert.
	ReassignToOrderWithTx(ctx context.Context, tx pgx.Tx, userID, orderID uuid.UUID) (int, error)
}
