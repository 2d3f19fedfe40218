package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// DISCOUNT TYPE CONSTANTS
// =====================================================
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// =====================================================
// ENTITY: Coupon
// =====================================================
// Code is unique and case-sensitive. UsageCount must never exceed
// UsageLimit when a limit is set; the increment is guarded server-side.
type Coupon struct {
	ID             uuid.UUID        `json:"id"`
	Code           string           `json:"code"`
	DiscountType   string           `json:"discount_type"`
	Value          decimal.Decimal  `json:"value"`
	IsActive       bool             `json:"is_active"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
	UsageLimit     *int             `json:"usage_limit,omitempty"`
	UsageCount     int              `json:"usage_count"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// IsExpired checks the optional expiry against now
func (c *Coupon) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// Discount computes the discount for a subtotal.
// Fixed coupons are capped at the subtotal so the discount can never
// exceed what is being discounted.
func (c *Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	switch c.DiscountType {
	case DiscountTypeFixed:
		if c.Value.GreaterThan(subtotal) {
			return subtotal
		}
		return c.Value
	case DiscountTypePercentage:
		return subtotal.Mul(c.Value).Div(decimal.NewFromInt(100))
	}
	return decimal.Zero
}
