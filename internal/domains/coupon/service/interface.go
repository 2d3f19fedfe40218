package service

import (
	"context"

	"github.com/shopspring/decimal"
)

// ServiceInterface is the coupon evaluator consumed by the order pipeline
type ServiceInterface interface {
	// Evaluate validates a code against status, expiry, minimum order
	// amount and usage limit (short-circuiting in that order) and
	// returns the discount for the given subtotal.
	// Evaluate never mutates the usage counter; the order assembler
	// increments it only after the order is durably created.
	Evaluate(ctx context.Context, code string, subtotal decimal.Decimal) (decimal.Decimal, error)
}
