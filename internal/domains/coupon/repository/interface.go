package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"storefront-backend/internal/domains/coupon/model"
)

// RepositoryInterface defines data access for coupons
type RepositoryInterface interface {
	// FindByCode looks up a coupon by its case-sensitive code.
	// Returns: nil if not found (don't treat as error)
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)

	// IncrementUsageWithTx adds one use inside the caller's transaction.
	// The check and increment happen in a single conditional UPDATE
	// (usage_count < usage_limit checked server-side), so two concurrent
	// placements cannot both pass the limit.
	// Returns model.ErrUsageLimitReached when the guard rejects the row.
	IncrementUsageWithTx(ctx context.Context, tx pgx.Tx, code string) error
}
