package model

import "errors"

const (
	ErrCodeCartProductNotFound = "CRT001"
	ErrCodeCartInvalidQuantity = "CRT002"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrLineConfirmed   = errors.New("cart line already belongs to an order")
)

// MaxQuantityPerLine caps a single line's quantity
const MaxQuantityPerLine = 100
