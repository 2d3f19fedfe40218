package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domains/catalog/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// Resolve implements RepositoryInterface.Resolve
func (r *postgresRepository) Resolve(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*model.ResolvedItem, error) {
	if variantID != nil {
		query := `
			SELECT p.id, v.id, p.title, v.price, s.quantity
			FROM products p
			JOIN product_variants v ON v.product_id = p.id
			JOIN stocks s ON s.variant_id = v.id
			WHERE p.id = $1 AND v.id = $2 AND p.is_active = TRUE
		`

		var item model.ResolvedItem
		err := r.pool.QueryRow(ctx, query, productID, *variantID).Scan(
			&item.ProductID,
			&item.VariantID,
			&item.Title,
			&item.UnitPrice,
			&item.Stock,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, model.ErrVariantNotFound
			}
			return nil, fmt.Errorf("failed to resolve variant: %w", err)
		}
		return &item, nil
	}

	query := `
		SELECT p.id, p.title, p.price, s.quantity
		FROM products p
		JOIN stocks s ON s.product_id = p.id AND s.variant_id IS NULL
		WHERE p.id = $1 AND p.is_active = TRUE
	`

	var item model.ResolvedItem
	err := r.pool.QueryRow(ctx, query, productID).Scan(
		&item.ProductID,
		&item.Title,
		&item.UnitPrice,
		&item.Stock,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}
	return &item, nil
}
