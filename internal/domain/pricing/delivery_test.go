// internal/domain/pricing/delivery_test.go
package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCharge_India(t *testing.T) {
	calc := NewDeliveryCalculator(nil)

	tests := []struct {
		name     string
		subtotal string
		want     string
	}{
		{"small order", "100", "99"},
		{"just under first boundary", "499.99", "99"},
		{"boundary moves to next slab", "500", "59"},
		{"mid slab", "999.99", "59"},
		{"free delivery from 1000", "1000", "0"},
		{"large order", "250000", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Charge(decimal.RequireFromString(tt.subtotal), CountryIndia)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestCharge_InternationalDefaults(t *testing.T) {
	calc := NewDeliveryCalculator(nil)

	tests := []struct {
		name     string
		subtotal string
		want     string
	}{
		{"small order", "1000", "4178.62"},
		{"just under first threshold", "4177.77", "4178.62"},
		{"first threshold moves to next slab", "4177.78", "3342.90"},
		{"mid slab", "10000", "3342.90"},
		{"just under second threshold", "16713.64", "3342.90"},
		{"free delivery from second threshold", "16713.65", "0"},
		{"large order", "99999", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Charge(decimal.RequireFromString(tt.subtotal), "USA")
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestCharge_NonPositiveSubtotal(t *testing.T) {
	calc := NewDeliveryCalculator(nil)

	assert.True(t, calc.Charge(decimal.Zero, CountryIndia).IsZero())
	assert.True(t, calc.Charge(decimal.RequireFromString("-10"), "USA").IsZero())
}
