package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domains/stock/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// GetByProduct implements RepositoryInterface.GetByProduct
func (r *postgresRepository) GetByProduct(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*model.Stock, error) {
	query := `
		SELECT id, product_id, variant_id, quantity, updated_at
		FROM stocks
		WHERE product_id = $1 AND variant_id IS NOT DISTINCT FROM $2
	`

	var s model.Stock
	err := r.pool.QueryRow(ctx, query, productID, variantID).Scan(
		&s.ID,
		&s.ProductID,
		&s.VariantID,
		&s.Quantity,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStockNotFound
		}
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}

	return &s, nil
}

// Decrement implements RepositoryInterface.Decrement.
// The quantity >= $3 guard in the WHERE clause makes the decrement
// conditional server-side, so concurrent fulfilments cannot drive the
// counter negative.
func (r *postgresRepository) Decrement(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int) (int, error) {
	return r.decrement(ctx, r.pool, productID, variantID, quantity)
}

// DecrementWithTx implements RepositoryInterface.DecrementWithTx
func (r *postgresRepository) DecrementWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, variantID *uuid.UUID, quantity int) (int, error) {
	return r.decrement(ctx, tx, productID, variantID, quantity)
}

// queryRower is satisfied by both *pgxpool.Pool and pgx.Tx
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *postgresRepository) decrement(ctx context.Context, q queryRower, productID uuid.UUID, variantID *uuid.UUID, quantity int) (int, error) {
	query := `
		UPDATE stocks
		SET quantity = quantity - $3,
		    updated_at = NOW()
		WHERE product_id = $1
		  AND variant_id IS NOT DISTINCT FROM $2
		  AND quantity >= $3
		RETURNING quantity
	`

	var newQuantity int
	err := q.QueryRow(ctx, query, productID, variantID, quantity).Scan(&newQuantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the entry does not exist or the guard failed;
			// distinguish so the caller can report precisely.
			if _, getErr := r.GetByProduct(ctx, productID, variantID); getErr != nil {
				return 0, getErr
			}
			return 0, model.ErrInsufficientStock
		}
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return newQuantity, nil
}
