package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domains/coupon/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// FindByCode implements RepositoryInterface.FindByCode
func (r *postgresRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `
		SELECT
			id, code, discount_type, value, is_active,
			expires_at, min_order_amount, usage_limit, usage_count,
			created_at, updated_at
		FROM coupons
		WHERE code = $1
	`

	var c model.Coupon
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&c.ID,
		&c.Code,
		&c.DiscountType,
		&c.Value,
		&c.IsActive,
		&c.ExpiresAt,
		&c.MinOrderAmount,
		&c.UsageLimit,
		&c.UsageCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find coupon: %w", err)
	}

	return &c, nil
}

// IncrementUsageWithTx implements RepositoryInterface.IncrementUsageWithTx
func (r *postgresRepository) IncrementUsageWithTx(ctx context.Context, tx pgx.Tx, code string) error {
	query := `
		UPDATE coupons
		SET usage_count = usage_count + 1,
		    updated_at = NOW()
		WHERE code = $1
		  AND (usage_limit IS NULL OR usage_count < usage_limit)
	`

	result, err := tx.Exec(ctx, query, code)
	if err != nil {
		return fmt.Errorf("failed to increment coupon usage: %w", err)
	}
	if result.RowsAffected() == 0 {
		// Guard rejected: the limit was hit between evaluation and here
		return model.ErrUsageLimitReached
	}

	return nil
}
