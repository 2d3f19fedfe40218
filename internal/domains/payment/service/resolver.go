package service

import (
	"context"
	"fmt"

	"storefront-backend/internal/domains/payment/model"
	"storefront-backend/internal/domains/payment/repository"
)

// =====================================================
// PAYMENT METHOD RESOLVER IMPLEMENTATION
// =====================================================
// The legacy flow scattered per-method string comparisons across
// several code paths. Here every slug is first classified into a
// model.Class, then a single exhaustive switch applies that class's
// validation rules.
type paymentService struct {
	gatewayRepo repository.RepositoryInterface
}

// NewPaymentService creates a new payment method resolver
func NewPaymentService(gatewayRepo repository.RepositoryInterface) ServiceInterface {
	return &paymentService{gatewayRepo: gatewayRepo}
}

// Resolve implements ServiceInterface.Resolve
func (s *paymentService) Resolve(ctx context.Context, methodSlug string, hasProof bool) (*model.Resolution, error) {
	class, gateway, err := s.classify(ctx, methodSlug)
	if err != nil {
		return nil, err
	}

	switch class {
	case model.ClassInstant:
		// Redirect-based gateway. Payment starts unpaid and is
		// confirmed by the gateway's webhook; the legacy behavior of
		// marking it paid before external confirmation was a
		// correctness gap, not a requirement.
		return &model.Resolution{
			Class:                model.ClassInstant,
			MethodSlug:           methodSlug,
			InitialPaymentStatus: model.PaymentStatusUnpaid,
			RequiresRedirect:     true,
		}, nil

	case model.ClassCOD:
		return &model.Resolution{
			Class:                model.ClassCOD,
			MethodSlug:           methodSlug,
			InitialPaymentStatus: model.PaymentStatusUnpaid,
			RequiresRedirect:     false,
		}, nil

	case model.ClassOffline:
		if gateway.RequireProof && !hasProof {
			return nil, model.ErrProofRequired
		}
		return &model.Resolution{
			Class:                model.ClassOffline,
			MethodSlug:           methodSlug,
			InitialPaymentStatus: model.PaymentStatusUnpaid,
			RequiresRedirect:     false,
			TransferInstructions: gateway.TransferInstructions,
		}, nil
	}

	return nil, fmt.Errorf("unhandled payment class %q for slug %q", class, methodSlug)
}

// classify maps a slug onto its payment class, consulting the gateway
// catalog for anything that is not a built-in slug.
func (s *paymentService) classify(ctx context.Context, methodSlug string) (model.Class, *model.Gateway, error) {
	switch methodSlug {
	case model.SlugPayPal:
		return model.ClassInstant, nil, nil
	case model.SlugCOD:
		return model.ClassCOD, nil, nil
	}

	gateway, err := s.gatewayRepo.GetBySlug(ctx, methodSlug)
	if err != nil {
		return 0, nil, err
	}
	if gateway == nil || !gateway.Enabled {
		return 0, nil, model.ErrUnknownOrDisabledGateway
	}

	// Admin-configured redirect gateways classify as instant too
	if gateway.Mode == model.ModeInstant {
		return model.ClassInstant, gateway, nil
	}
	return model.ClassOffline, gateway, nil
}
