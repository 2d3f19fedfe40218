package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeCouponInvalid      = "CPN001"
	ErrCodeCouponExpired      = "CPN002"
	ErrCodeCouponMinimum      = "CPN003"
	ErrCodeCouponLimitReached = "CPN004"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrInvalidCoupon     = errors.New("coupon does not exist or is not active")
	ErrCouponExpired     = errors.New("coupon has expired")
	ErrMinimumNotMet     = errors.New("order subtotal below coupon minimum")
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
)
