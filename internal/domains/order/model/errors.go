package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeOrderNotFound       = "ORD001"
	ErrCodeEmptyCart           = "ORD002"
	ErrCodeInvalidTransition   = "ORD003"
	ErrCodeUnauthorized        = "ORD004"
	ErrCodeInvalidOrder        = "ORD005"
	ErrCodeOrderNumberConflict = "ORD006"
	ErrCodeGatewayUnavailable  = "ORD007"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrUnauthorized        = errors.New("unauthorized access")
	ErrOrderNumberConflict = errors.New("order number already exists")
	ErrGatewayUnavailable  = errors.New("payment gateway call failed")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type OrderError struct {
	Code    string
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// NewOrderError creates a new OrderError
func NewOrderError(code, message string, err error) *OrderError {
	return &OrderError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
