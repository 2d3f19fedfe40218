package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateOrderTotal(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		shipping int64
		discount int64
		want     int64
	}{
		{"no adjustments", 100, 0, 0, 100},
		{"shipping added", 100, 10, 0, 110},
		{"discount subtracted", 100, 10, 10, 100},
		{"discount equals charge", 50, 0, 50, 0},
		{"never negative", 10, 0, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateOrderTotal(
				decimal.NewFromInt(tt.subtotal),
				decimal.NewFromInt(tt.shipping),
				decimal.NewFromInt(tt.discount),
			)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s want %d", got, tt.want)
		})
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)

	number := GenerateOrderNumber(now)
	assert.Regexp(t, `^ORD-20250615-[0-9A-F]{8}$`, number)

	// The suffix comes from fresh entropy each call
	assert.NotEqual(t, number, GenerateOrderNumber(now))
}

func TestOrderIsTerminal(t *testing.T) {
	assert.False(t, (&Order{Status: OrderStatusNew}).IsTerminal())
	assert.False(t, (&Order{Status: OrderStatusProcessing}).IsTerminal())
	assert.True(t, (&Order{Status: OrderStatusDelivered}).IsTerminal())
	assert.True(t, (&Order{Status: OrderStatusCancelled}).IsTerminal())
}
