package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domains/shipping/model"
)

// RepositoryInterface resolves shipping methods; read-only for the order core
type RepositoryInterface interface {
	// GetByID returns model.ErrShippingMethodNotFound when absent or inactive
	GetByID(ctx context.Context, id uuid.UUID) (*model.Method, error)

	// ListActive lists selectable methods for the checkout page
	ListActive(ctx context.Context) ([]model.Method, error)
}
