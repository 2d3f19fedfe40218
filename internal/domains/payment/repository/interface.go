package repository

import (
	"context"

	"storefront-backend/internal/domains/payment/model"
)

// RepositoryInterface reads the gateway catalog
type RepositoryInterface interface {
	// GetBySlug looks up a configured gateway.
	// Returns: nil if not found (don't treat as error)
	GetBySlug(ctx context.Context, slug string) (*model.Gateway, error)

	// ListEnabled lists gateways selectable at checkout
	ListEnabled(ctx context.Context) ([]model.Gateway, error)
}
