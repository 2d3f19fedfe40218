package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/domains/coupon/model"
)

type mockCouponRepo struct {
	coupons map[string]*model.Coupon
}

func (m *mockCouponRepo) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return m.coupons[code], nil
}

func (m *mockCouponRepo) IncrementUsageWithTx(ctx context.Context, tx pgx.Tx, code string) error {
	return nil
}

func newEvaluator(coupons ...*model.Coupon) *couponService {
	repo := &mockCouponRepo{coupons: map[string]*model.Coupon{}}
	for _, c := range coupons {
		repo.coupons[c.Code] = c
	}
	return &couponService{
		couponRepo: repo,
		now:        func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) },
	}
}

func ptr[T any](v T) *T { return &v }

func TestEvaluate_FixedDiscount(t *testing.T) {
	svc := newEvaluator(&model.Coupon{
		Code:         "FLAT5",
		DiscountType: model.DiscountTypeFixed,
		Value:        decimal.NewFromInt(5),
		IsActive:     true,
	})

	discount, err := svc.Evaluate(context.Background(), "FLAT5", decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.True(t, discount.Equal(decimal.NewFromInt(5)), "got %s", discount)
}

func TestEvaluate_FixedDiscountCappedAtSubtotal(t *testing.T) {
	svc := newEvaluator(&model.Coupon{
		Code:         "FLAT50",
		DiscountType: model.DiscountTypeFixed,
		Value:        decimal.NewFromInt(50),
		IsActive:     true,
	})

	discount, err := svc.Evaluate(context.Background(), "FLAT50", decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.True(t, discount.Equal(decimal.NewFromInt(30)), "got %s", discount)
}

func TestEvaluate_PercentageDiscount(t *testing.T) {
	svc := newEvaluator(&model.Coupon{
		Code:         "SAVE10",
		DiscountType: model.DiscountTypePercentage,
		Value:        decimal.NewFromInt(10),
		IsActive:     true,
	})

	discount, err := svc.Evaluate(context.Background(), "SAVE10", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, discount.Equal(decimal.NewFromInt(10)), "got %s", discount)
}

func TestEvaluate_ValidationOrder(t *testing.T) {
	expired := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		coupon   *model.Coupon
		code     string
		subtotal decimal.Decimal
		wantErr  error
	}{
		{
			name:     "unknown code",
			coupon:   &model.Coupon{Code: "OTHER", IsActive: true},
			code:     "MISSING",
			subtotal: decimal.NewFromInt(100),
			wantErr:  model.ErrInvalidCoupon,
		},
		{
			name:     "inactive code",
			coupon:   &model.Coupon{Code: "OFF", IsActive: false},
			code:     "OFF",
			subtotal: decimal.NewFromInt(100),
			wantErr:  model.ErrInvalidCoupon,
		},
		{
			name: "expired beats minimum",
			coupon: &model.Coupon{
				Code:           "OLD",
				DiscountType:   model.DiscountTypeFixed,
				Value:          decimal.NewFromInt(5),
				IsActive:       true,
				ExpiresAt:      &expired,
				MinOrderAmount: ptr(decimal.NewFromInt(500)),
			},
			code:     "OLD",
			subtotal: decimal.NewFromInt(100),
			wantErr:  model.ErrCouponExpired,
		},
		{
			name: "below minimum",
			coupon: &model.Coupon{
				Code:           "FLAT5",
				DiscountType:   model.DiscountTypeFixed,
				Value:          decimal.NewFromInt(5),
				IsActive:       true,
				ExpiresAt:      &future,
				MinOrderAmount: ptr(decimal.NewFromInt(50)),
			},
			code:     "FLAT5",
			subtotal: decimal.NewFromInt(40),
			wantErr:  model.ErrMinimumNotMet,
		},
		{
			name: "usage limit reached",
			coupon: &model.Coupon{
				Code:         "LAST",
				DiscountType: model.DiscountTypeFixed,
				Value:        decimal.NewFromInt(5),
				IsActive:     true,
				UsageLimit:   ptr(10),
				UsageCount:   10,
			},
			code:     "LAST",
			subtotal: decimal.NewFromInt(100),
			wantErr:  model.ErrUsageLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newEvaluator(tt.coupon)
			_, err := svc.Evaluate(context.Background(), tt.code, tt.subtotal)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEvaluate_ExpiryBoundaryIsExclusive(t *testing.T) {
	// A coupon expiring exactly now is already expired
	exactlyNow := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := newEvaluator(&model.Coupon{
		Code:         "EDGE",
		DiscountType: model.DiscountTypeFixed,
		Value:        decimal.NewFromInt(5),
		IsActive:     true,
		ExpiresAt:    &exactlyNow,
	})

	_, err := svc.Evaluate(context.Background(), "EDGE", decimal.NewFromInt(100))
	assert.ErrorIs(t, err, model.ErrCouponExpired)
}
