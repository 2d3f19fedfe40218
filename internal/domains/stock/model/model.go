package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrStockNotFound     = errors.New("stock entry not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Stock is the available-quantity counter for a product, or for a
// variant when the product has variants (variant_id set).
// This subsystem only ever decrements; restocking is external.
type Stock struct {
	ID        uuid.UUID  `json:"id"`
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity"`
	UpdatedAt time.Time  `json:"updated_at"`
}
