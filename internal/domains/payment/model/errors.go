package model

import "errors"

const (
	ErrCodeUnknownGateway    = "PAY001"
	ErrCodeProofRequired     = "PAY002"
	ErrCodeProofUploadFailed = "PAY003"
)

var (
	ErrUnknownOrDisabledGateway = errors.New("payment gateway unknown or disabled")
	ErrProofRequired            = errors.New("proof of payment required for this gateway")
	ErrProofUploadFailed        = errors.New("failed to store proof of payment")
)
