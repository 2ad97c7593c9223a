// internal/domain/pricing/engine_test.go
package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/pharmacy-backend/internal/domain/catalog"
	"github.com/your-org/pharmacy-backend/internal/domain/currency"
)

func TestNewContext_Defaults(t *testing.T) {
	ctx := NewContext("", "")
	assert.Equal(t, CountryIndia, ctx.Country)
	assert.Equal(t, CurrencyINR, ctx.Currency)

	ctx = NewContext("usa", "usd")
	assert.Equal(t, "USA", ctx.Country)
	assert.Equal(t, "USD", ctx.Currency)
}

func TestCatalogRule_Adjust(t *testing.T) {
	engine := NewEngine(CatalogRule)
	base := decimal.RequireFromString("100")

	tests := []struct {
		name    string
		country string
		margin  float64
		want    string
	}{
		{"domestic discount", CountryIndia, 25, "88"},
		{"bangladesh flat override", "BANGLADESH", 7, "120"},
		{"nepal flat override", "NEPAL", 50, "120"},
		{"other country uses variant margin", "USA", 10, "110"},
		{"zero margin passes through", "USA", 0, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Adjust(base, tt.margin, tt.country)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestCheckoutRule_Adjust(t *testing.T) {
	engine := NewEngine(CheckoutRule)
	base := decimal.RequireFromString("1000")

	// Domestic prices pass through unchanged at checkout
	got := engine.Adjust(base, 25, CountryIndia)
	assert.True(t, got.Equal(base), "got %s", got)

	// Everyone else pays the variant margin
	got = engine.Adjust(base, 10, "USA")
	assert.True(t, got.Equal(decimal.RequireFromString("1100")), "got %s", got)
}

func TestConvert_INRIdentity(t *testing.T) {
	engine := NewEngine(CheckoutRule)
	ctx := NewContext("India", "INR")

	amount, symbol, err := engine.Convert(decimal.RequireFromString("123.456"), ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "123.46", amount.StringFixed(2))
	assert.Equal(t, "₹", symbol)
}

func TestConvert_MissingRate(t *testing.T) {
	engine := NewEngine(CheckoutRule)
	ctx := NewContext("USA", "USD")

	_, _, err := engine.Convert(decimal.RequireFromString("100"), ctx, nil)
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)

	// A rate for a different currency does not count
	wrong := &currency.ExchangeRate{Currency: "EUR", Rate: decimal.RequireFromString("0.011"), Symbol: "€"}
	_, _, err = engine.Convert(decimal.RequireFromString("100"), ctx, wrong)
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestConvert_RateAndRounding(t *testing.T) {
	engine := NewEngine(CheckoutRule)
	ctx := NewContext("USA", "USD")
	rate := &currency.ExchangeRate{Currency: "USD", Rate: decimal.RequireFromString("0.012"), Symbol: "$"}

	amount, symbol, err := engine.Convert(decimal.RequireFromString("4178.62"), ctx, rate)
	require.NoError(t, err)
	assert.Equal(t, "50.14", amount.StringFixed(2))
	assert.Equal(t, "$", symbol)
}

func TestConvert_AEDUsesLiteralCode(t *testing.T) {
	engine := NewEngine(CheckoutRule)
	ctx := NewContext("UAE", "AED")
	rate := &currency.ExchangeRate{Currency: "AED", Rate: decimal.RequireFromString("0.044"), Symbol: "د.إ"}

	_, symbol, err := engine.Convert(decimal.RequireFromString("100"), ctx, rate)
	require.NoError(t, err)
	assert.Equal(t, "AED", symbol)
}

func TestPriceVariant(t *testing.T) {
	engine := NewEngine(CatalogRule)
	v := &catalog.Variant{
		ID:        1,
		SKU:       "MED-000001-V1",
		PackSize:  "15 tablets",
		Price:     decimal.RequireFromString("100"),
		SalePrice: decimal.RequireFromString("80"),
		Margin:    10,
	}

	priced, err := engine.PriceVariant(v, NewContext("India", "INR"), nil)
	require.NoError(t, err)
	assert.Equal(t, "88.00", priced.Price)
	assert.Equal(t, "70.40", priced.SalePrice)
	assert.Equal(t, "₹", priced.Symbol)

	rate := &currency.ExchangeRate{Currency: "USD", Rate: decimal.RequireFromString("0.012"), Symbol: "$"}
	priced, err = engine.PriceVariant(v, NewContext("USA", "USD"), rate)
	require.NoError(t, err)
	// 100 * 1.10 * 0.012 and 80 * 1.10 * 0.012
	assert.Equal(t, "1.32", priced.Price)
	assert.Equal(t, "1.06", priced.SalePrice)
	assert.Equal(t, "$", priced.Symbol)
}
