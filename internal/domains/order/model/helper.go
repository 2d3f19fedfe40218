package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// CALCULATION HELPERS
// =====================================================

// CalculateOrderTotal combines the frozen order amounts:
// total = subtotal + shipping − discount, clamped at zero.
// Called once at placement; a placed order is never recomputed.
func CalculateOrderTotal(subtotal, shippingFee, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Add(shippingFee).Sub(discount)
	if total.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return total
}

// GenerateOrderNumber produces a collision-resistant order number:
// ORD-YYYYMMDD-XXXXXXXX, the suffix taken from fresh UUID entropy.
// Callers retry on a unique-constraint conflict.
func GenerateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
