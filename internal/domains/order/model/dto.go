package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// ProofFile is an uploaded proof-of-payment image
type ProofFile struct {
	Data        []byte
	ContentType string
}

// PlaceOrderRequest is the validated checkout submission.
// Coupon and shipping selection come from the checkout context, not
// from this request, so the client cannot inject stale amounts.
type PlaceOrderRequest struct {
	BillingName    string `json:"billing_name" form:"billing_name"`
	BillingAddress string `json:"billing_address" form:"billing_address"`
	BillingPhone   string `json:"billing_phone" form:"billing_phone"`
	PaymentMethod  string `json:"payment_method" form:"payment_method"`

	Proof *ProofFile `json:"-" form:"-"`
}

func (req PlaceOrderRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.BillingName, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.BillingAddress, validation.Required, validation.Length(5, 500)),
		validation.Field(&req.BillingPhone, validation.Required, validation.Length(6, 20)),
		validation.Field(&req.PaymentMethod, validation.Required, validation.Length(2, 50)),
	)
}

// HasProof reports whether a proof image was submitted
func (req PlaceOrderRequest) HasProof() bool {
	return req.Proof != nil && len(req.Proof.Data) > 0
}

// PlaceOrderResponse is returned on successful placement.
// RedirectRequired signals the caller to send the shopper to the
// external payment flow before clearing checkout state.
type PlaceOrderResponse struct {
	OrderID              string          `json:"order_id"`
	OrderNumber          string          `json:"order_number"`
	Total                decimal.Decimal `json:"total"`
	Status               string          `json:"status"`
	PaymentStatus        string          `json:"payment_status"`
	RedirectRequired     bool            `json:"redirect_required"`
	RedirectURL          string          `json:"redirect_url,omitempty"`
	TransferInstructions *string         `json:"transfer_instructions,omitempty"`
}

// AdvanceStatusRequest moves an order through the lifecycle
type AdvanceStatusRequest struct {
	Status string  `json:"status"`
	Note   *string `json:"note,omitempty"`
}

func (req AdvanceStatusRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Status, validation.Required, validation.In(
			OrderStatusNew,
			OrderStatusProcessing,
			OrderStatusDelivered,
			OrderStatusCancelled,
		)),
	)
}

// StockWarning records a fulfillment line whose stock decrement was
// skipped for lack of inventory. Non-fatal: the transition proceeds
// and inventory is corrected out of band.
type StockWarning struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// AdvanceResult is the outcome of a status transition
type AdvanceResult struct {
	Order         *Order         `json:"order"`
	StockWarnings []StockWarning `json:"stock_warnings,omitempty"`
}

// TotalPreview is the live checkout-page total before submission
type TotalPreview struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	CouponCode  string          `json:"coupon_code,omitempty"`
}
