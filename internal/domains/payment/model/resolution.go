package model

// Class is the payment method classification. Every gateway falls into
// exactly one class and each class owns its validation rules; the
// resolver matches exhaustively on this type so a new class cannot
// silently skip a required check.
type Class int

const (
	// ClassInstant is a redirect-based gateway; payment is confirmed
	// by an external webhook, never optimistically.
	ClassInstant Class = iota

	// ClassCOD is cash on delivery: no credentials, no proof.
	ClassCOD

	// ClassOffline is a manual-transfer gateway that may demand an
	// uploaded proof-of-payment image.
	ClassOffline
)

func (c Class) String() string {
	switch c {
	case ClassInstant:
		return "instant"
	case ClassCOD:
		return "cod"
	case ClassOffline:
		return "offline"
	}
	return "unknown"
}

// Resolution is the resolver's verdict for a requested payment method
type Resolution struct {
	Class                Class
	MethodSlug           string
	InitialPaymentStatus string
	RequiresRedirect     bool
	TransferInstructions *string
}
