package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartModel "storefront-backend/internal/domains/cart/model"
)

// =====================================================
// ORDER STATUS CONSTANTS
// =====================================================
// Order status is the fulfillment state machine, distinct from payment
// status. new → processing → delivered; new|processing → cancelled.
// delivered and cancelled are terminal.
const (
	OrderStatusNew        = "new"
	OrderStatusProcessing = "processing"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// =====================================================
// ENTITY: Order
// =====================================================
// Total = Subtotal + ShippingFee − DiscountAmount, computed once at
// creation and never recomputed. DiscountAmount is a snapshot, not a
// reference to the live coupon row.
type Order struct {
	ID                   uuid.UUID       `json:"id"`
	OrderNumber          string          `json:"order_number"`
	UserID               uuid.UUID       `json:"user_id"`
	BillingName          string          `json:"billing_name"`
	BillingAddress       string          `json:"billing_address"`
	BillingPhone         string          `json:"billing_phone"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	ShippingFee          decimal.Decimal `json:"shipping_fee"`
	DiscountAmount       decimal.Decimal `json:"discount_amount"`
	Total                decimal.Decimal `json:"total"`
	CouponCode           *string         `json:"coupon_code,omitempty"`
	PaymentMethod        string          `json:"payment_method"`
	PaymentStatus        string          `json:"payment_status"`
	PaymentProofRef      *string         `json:"payment_proof_ref,omitempty"`
	TransferInstructions *string         `json:"transfer_instructions,omitempty"`
	Status               string          `json:"status"`
	PaidAt               *time.Time      `json:"paid_at,omitempty"`
	DeliveredAt          *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt          *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// IsTerminal reports whether no further status transition is possible
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// IsPaid checks the payment status
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == "paid"
}

// =====================================================
// ENTITY: OrderStatusHistory
// =====================================================
type OrderStatusHistory struct {
	ID         uuid.UUID  `json:"id"`
	OrderID    uuid.UUID  `json:"order_id"`
	FromStatus *string    `json:"from_status,omitempty"`
	ToStatus   string     `json:"to_status"`
	ChangedBy  *uuid.UUID `json:"changed_by,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	ChangedAt  time.Time  `json:"changed_at"`
}

// OrderDetail bundles an order with its purchased lines
type OrderDetail struct {
	Order Order                `json:"order"`
	Lines []cartModel.CartLine `json:"lines"`
}
