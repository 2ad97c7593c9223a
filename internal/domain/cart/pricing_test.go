// internal/domain/cart/pricing_test.go
package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/pharmacy-backend/internal/domain/catalog"
	"github.com/your-org/pharmacy-backend/internal/domain/currency"
	"github.com/your-org/pharmacy-backend/internal/domain/pricing"
)

type stubRateSource struct {
	rates map[string]*currency.ExchangeRate
}

func (s *stubRateSource) FindByCurrency(_ context.Context, code string) (*currency.ExchangeRate, error) {
	if rate, ok := s.rates[code]; ok {
		return rate, nil
	}
	return nil, currency.ErrRateNotFound
}

func usdRateSource() *stubRateSource {
	return &stubRateSource{rates: map[string]*currency.ExchangeRate{
		"USD": {Currency: "USD", Rate: decimal.RequireFromString("0.012"), Symbol: "$"},
	}}
}

func pricedTestCart(t *testing.T) *Cart {
	t.Helper()

	p := &catalog.Product{ID: 3, Name: "Cetirizine 10mg", Slug: "cetirizine-10mg", IsVisible: true}
	v := &catalog.Variant{
		ID:               30,
		ProductID:        3,
		SKU:              "MED-000003-V1",
		PackSize:         "10 tablets",
		Price:            decimal.RequireFromString("1000.00"),
		Margin:           10,
		IsStockAvailable: true,
		MinOrderQuantity: 1,
		MaxOrderQuantity: 20,
	}

	c := &Cart{ID: 1, UserID: 1, Status: CartStatusActive}
	require.NoError(t, c.UpsertLine(p, v, 2))
	return c
}

func TestPriceCart_DomesticINR(t *testing.T) {
	svc := NewPricingService(usdRateSource(), pricing.NewDeliveryCalculator(nil))
	c := pricedTestCart(t)

	priced, err := svc.PriceCart(context.Background(), c, pricing.NewContext("India", "INR"))
	require.NoError(t, err)

	assert.Equal(t, "INR", priced.Currency)
	assert.Equal(t, "₹", priced.Symbol)
	require.Len(t, priced.Items, 1)
	assert.Equal(t, "1000.00", priced.Items[0].UnitPrice)
	assert.Equal(t, "2000.00", priced.Items[0].LineTotal)
	assert.Equal(t, "2000.00", priced.TotalPrice)
	assert.Equal(t, "0.00", priced.DeliveryCharge)
	assert.Equal(t, "2000.00", priced.TotalCartPrice)
}

func TestPriceCart_InternationalUSD(t *testing.T) {
	svc := NewPricingService(usdRateSource(), pricing.NewDeliveryCalculator(nil))
	c := pricedTestCart(t)

	priced, err := svc.PriceCart(context.Background(), c, pricing.NewContext("USA", "USD"))
	require.NoError(t, err)

	assert.Equal(t, "USD", priced.Currency)
	assert.Equal(t, "$", priced.Symbol)
	require.Len(t, priced.Items, 1)
	// base 1000 with a 10% margin, converted at 0.012
	assert.Equal(t, "13.20", priced.Items[0].UnitPrice)
	assert.Equal(t, "26.40", priced.Items[0].LineTotal)
	assert.Equal(t, "26.40", priced.TotalPrice)
	// INR subtotal 2200 falls in the first default slab
	assert.Equal(t, "50.14", priced.DeliveryCharge)
	assert.Equal(t, "76.54", priced.TotalCartPrice)
	assert.True(t, priced.GrandTotal.Equal(decimal.RequireFromString("76.54")))
}

func TestPriceCart_UnsupportedCurrency(t *testing.T) {
	svc := NewPricingService(usdRateSource(), pricing.NewDeliveryCalculator(nil))
	c := pricedTestCart(t)

	_, err := svc.PriceCart(context.Background(), c, pricing.NewContext("Germany", "CHF"))
	assert.ErrorIs(t, err, pricing.ErrUnsupportedCurrency)
}

func TestPriceCart_EmptyCart(t *testing.T) {
	svc := NewPricingService(usdRateSource(), pricing.NewDeliveryCalculator(nil))
	c := &Cart{ID: 2, UserID: 2, Status: CartStatusActive}

	priced, err := svc.PriceCart(context.Background(), c, pricing.NewContext("India", "INR"))
	require.NoError(t, err)

	assert.Empty(t, priced.Items)
	assert.Equal(t, "0.00", priced.TotalPrice)
	assert.Equal(t, "0.00", priced.DeliveryCharge)
	assert.Equal(t, "0.00", priced.TotalCartPrice)
}
