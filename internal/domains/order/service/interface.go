package service

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domains/order/model"
)

// ServiceInterface defines business logic for order assembly and lifecycle
type ServiceInterface interface {
	// PlaceOrder converts the user's open cart into an order in one
	// transaction: lock lines, price, insert, reassign lines,
	// increment coupon usage, record history. Stock is not touched
	// here; it is decremented on delivery.
	PlaceOrder(ctx context.Context, userID uuid.UUID, req *model.PlaceOrderRequest) (*model.PlaceOrderResponse, error)

	// PreviewTotal prices the current cart with the checkout context
	// applied, without placing anything
	PreviewTotal(ctx context.Context, userID uuid.UUID) (*model.TotalPreview, error)

	// ApplyCoupon validates the code against the current subtotal and,
	// if it passes, attaches it to the checkout context
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*model.TotalPreview, error)

	// RemoveCoupon detaches any coupon from the checkout context
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (*model.TotalPreview, error)

	// SelectShipping attaches an active shipping method to the
	// checkout context
	SelectShipping(ctx context.Context, userID uuid.UUID, methodID uuid.UUID) (*model.TotalPreview, error)

	// GetOrderByNumber loads an order with its lines. Non-admin
	// requesters may only read their own orders.
	GetOrderByNumber(ctx context.Context, requesterID uuid.UUID, isAdmin bool, orderNumber string) (*model.OrderDetail, error)

	// AdvanceStatus moves the order through the lifecycle state
	// machine. On the transition into delivered the purchased
	// quantities are decremented from stock; lines that cannot be
	// covered produce warnings, never a rollback.
	AdvanceStatus(ctx context.Context, orderID uuid.UUID, changedBy uuid.UUID, req *model.AdvanceStatusRequest) (*model.AdvanceResult, error)

	// ConfirmPayment records an external gateway confirmation
	ConfirmPayment(ctx context.Context, orderNumber string) error
}
