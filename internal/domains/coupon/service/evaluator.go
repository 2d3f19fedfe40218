package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/coupon/model"
	"storefront-backend/internal/domains/coupon/repository"
)

// =====================================================
// COUPON EVALUATOR IMPLEMENTATION
// =====================================================
type couponService struct {
	couponRepo repository.RepositoryInterface
	now        func() time.Time
}

// NewCouponService creates a new coupon evaluator
func NewCouponService(couponRepo repository.RepositoryInterface) ServiceInterface {
	return &couponService{
		couponRepo: couponRepo,
		now:        time.Now,
	}
}

// Evaluate implements ServiceInterface.Evaluate
func (s *couponService) Evaluate(ctx context.Context, code string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	// Step 1: Coupon exists and is active
	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	if coupon == nil || !coupon.IsActive {
		return decimal.Zero, model.ErrInvalidCoupon
	}

	// Step 2: Expiry, if set, must be in the future
	if coupon.IsExpired(s.now()) {
		return decimal.Zero, model.ErrCouponExpired
	}

	// Step 3: Subtotal must reach the minimum, if set
	if coupon.MinOrderAmount != nil && subtotal.LessThan(*coupon.MinOrderAmount) {
		return decimal.Zero, model.ErrMinimumNotMet
	}

	// Step 4: Usage counter must be below the limit, if set
	if coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit {
		return decimal.Zero, model.ErrUsageLimitReached
	}

	return coupon.Discount(subtotal), nil
}
