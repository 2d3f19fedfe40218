package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"storefront-backend/internal/domains/stock/model"
)

// RepositoryInterface is the stock ledger: one counter per product/variant.
// No operation here ever increases stock.
type RepositoryInterface interface {
	// GetByProduct returns the current counter.
	// Returns model.ErrStockNotFound when no entry exists.
	GetByProduct(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*model.Stock, error)

	// Decrement atomically subtracts quantity, guarded server-side by
	// remaining stock >= quantity. Returns the new quantity.
	// Returns model.ErrInsufficientStock when the guard fails (no change).
	Decrement(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int) (int, error)

	// DecrementWithTx is Decrement inside a caller-owned transaction
	DecrementWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, variantID *uuid.UUID, quantity int) (int, error)
}
