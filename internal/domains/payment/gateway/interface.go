package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// =====================================================
// GATEWAY INTERFACES
// =====================================================

// PaymentRequest is the input for creating a redirect payment flow
type PaymentRequest struct {
	OrderNumber string          // public order reference, echoed in the webhook
	Amount      decimal.Decimal // frozen order total
	Description string
}

// RedirectGateway integrates an instant, redirect-based payment
// provider. The URL is handed to the shopper; the provider confirms
// the capture asynchronously through a signed webhook.
type RedirectGateway interface {
	// CreatePaymentURL builds the external checkout URL for an order
	CreatePaymentURL(ctx context.Context, req PaymentRequest) (string, error)

	// VerifyWebhookSignature checks the provider's webhook signature
	// over the raw request body
	VerifyWebhookSignature(payload []byte, signature string) bool
}
