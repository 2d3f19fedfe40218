package model

import (
	"time"

	"github.com/google/uuid"
)

// =====================================================
// WELL-KNOWN GATEWAY SLUGS
// =====================================================
const (
	SlugPayPal = "paypal"
	SlugCOD    = "cod"
)

// Gateway modes
const (
	ModeInstant = "instant" // redirect-based, confirmed by webhook
	ModeOffline = "offline" // manual transfer, optionally proof-based
)

// =====================================================
// PAYMENT STATUS CONSTANTS
// =====================================================
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Gateway is an admin-managed payment acceptance method.
// Read-only from the order core's perspective.
type Gateway struct {
	ID                   uuid.UUID         `json:"id"`
	Slug                 string            `json:"slug"`
	Name                 string            `json:"name"`
	Enabled              bool              `json:"enabled"`
	Mode                 string            `json:"mode"`
	Credentials          map[string]string `json:"-"`
	TransferInstructions *string           `json:"transfer_instructions,omitempty"`
	RequireProof         bool              `json:"require_proof"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}
