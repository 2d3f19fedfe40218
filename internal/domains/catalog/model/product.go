package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("product variant not found")
)

// Product is a sellable catalog entry
type Product struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Slug      string          `json:"slug"`
	Price     decimal.Decimal `json:"price"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Variant is an optional concrete variation of a product (size, color).
// When a product has variants, price and stock live on the variant.
type Variant struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// ResolvedItem is what checkout needs about a product/variant:
// the current unit price and an available-stock snapshot.
type ResolvedItem struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Title     string
	UnitPrice decimal.Decimal
	Stock     int
}
