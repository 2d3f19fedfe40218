package service

import (
	"context"

	"storefront-backend/internal/domains/payment/model"
)

// ServiceInterface is the payment method resolver
type ServiceInterface interface {
	// Resolve classifies the requested method slug and enforces the
	// class's input requirements. hasProof reports whether the caller
	// uploaded a proof-of-payment image with the request.
	Resolve(ctx context.Context, methodSlug string, hasProof bool) (*model.Resolution, error)
}
