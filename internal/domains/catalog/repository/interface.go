package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domains/catalog/model"
)

// RepositoryInterface resolves products/variants for the checkout path.
// Read-only from the order core's perspective.
type RepositoryInterface interface {
	// Resolve returns unit price + stock snapshot for a product (or
	// one of its variants when variantID is set).
	// Returns model.ErrProductNotFound / model.ErrVariantNotFound.
	Resolve(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*model.ResolvedItem, error)
}
