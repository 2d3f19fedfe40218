package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// AddLineRequest adds (or increments) a cart line
type AddLineRequest struct {
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id,omitempty"`
	Quantity  int     `json:"quantity"`
}

func (req AddLineRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ProductID, validation.Required, is.UUIDv4),
		validation.Field(&req.VariantID, is.UUIDv4),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1), validation.Max(MaxQuantityPerLine)),
	)
}
