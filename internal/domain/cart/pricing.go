// internal/domain/cart/pricing.go
package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/your-org/pharmacy-backend/internal/domain/currency"
	"github.com/your-org/pharmacy-backend/internal/domain/pricing"
)

// RateSource resolves exchange rates for pricing. Satisfied by
// currency.Service.
type RateSource interface {
	FindByCurrency(ctx context.Context, code string) (*currency.ExchangeRate, error)
}

// PricedLine is a cart line with display prices in the requested currency
type PricedLine struct {
	LineID               uint   `json:"line_id"`
	ProductID            uint   `json:"product_id"`
	VariantID            uint   `json:"variant_id"`
	Name                 string `json:"name"`
	PackSize             string `json:"pack_size"`
	Quantity             int    `json:"quantity"`
	UnitPrice            string `json:"unit_price"`
	LineTotal            string `json:"line_total"`
	RequiresPrescription bool   `json:"requires_prescription"`
}

// PricedCart is a cart priced for one country/currency context. TotalPrice
// is the item subtotal; TotalCartPrice is subtotal plus delivery charge.
// All amounts are fixed 2-decimal strings in the target currency.
type PricedCart struct {
	CartID         uint         `json:"cart_id"`
	Country        string       `json:"country"`
	Currency       string       `json:"currency"`
	Symbol         string       `json:"symbol"`
	Items          []PricedLine `json:"items"`
	TotalPrice     string       `json:"total_price"`
	DeliveryCharge string       `json:"delivery_charge"`
	TotalCartPrice string       `json:"total_cart_price"`

	// GrandTotal is TotalCartPrice as a decimal, for gateway amount math
	GrandTotal decimal.Decimal `json:"-"`
}

// PricingService computes cart totals on demand from snapshot base values
// and the current exchange rate. It is invoked on every cart read and write;
// nothing is cached.
type PricingService struct {
	engine   *pricing.Engine
	delivery *pricing.DeliveryCalculator
	rates    RateSource
}

// NewPricingService creates a cart pricing service using the checkout
// adjustment rule.
func NewPricingService(rates RateSource, delivery *pricing.DeliveryCalculator) *PricingService {
	return &PricingService{
		engine:   pricing.NewEngine(pricing.CheckoutRule),
		delivery: delivery,
		rates:    rates,
	}
}

// PriceCart prices every line from its snapshot, computes the INR subtotal,
// derives the delivery charge, and converts everything once into the target
// currency.
func (s *PricingService) PriceCart(ctx context.Context, c *Cart, pctx pricing.Context) (*PricedCart, error) {
	rate, err := s.resolveRate(ctx, pctx)
	if err != nil {
		return nil, err
	}

	subtotalINR := decimal.Zero
	items := make([]PricedLine, 0, len(c.Lines))

	for i := range c.Lines {
		line := &c.Lines[i]
		snap := line.VariantSnapshot

		unitINR := s.engine.Adjust(snap.EffectiveBase(), snap.Margin, pctx.Country)
		lineINR := unitINR.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotalINR = subtotalINR.Add(lineINR)

		unitPrice, _, err := s.engine.Convert(unitINR, pctx, rate)
		if err != nil {
			return nil, err
		}
		lineTotal, _, err := s.engine.Convert(lineINR, pctx, rate)
		if err != nil {
			return nil, err
		}

		items = append(items, PricedLine{
			LineID:               line.ID,
			ProductID:            line.ProductID,
			VariantID:            line.VariantID,
			Name:                 line.ProductSnapshot.Name,
			PackSize:             snap.PackSize,
			Quantity:             line.Quantity,
			UnitPrice:            unitPrice.StringFixed(2),
			LineTotal:            lineTotal.StringFixed(2),
			RequiresPrescription: line.ProductSnapshot.IsPrescriptionRequired,
		})
	}

	chargeINR := s.delivery.Charge(subtotalINR, pctx.Country)

	totalPrice, symbol, err := s.engine.Convert(subtotalINR, pctx, rate)
	if err != nil {
		return nil, err
	}
	deliveryCharge, _, err := s.engine.Convert(chargeINR, pctx, rate)
	if err != nil {
		return nil, err
	}

	grandTotal := totalPrice.Add(deliveryCharge)

	return &PricedCart{
		CartID:         c.ID,
		Country:        pctx.Country,
		Currency:       pctx.Currency,
		Symbol:         symbol,
		Items:          items,
		TotalPrice:     totalPrice.StringFixed(2),
		DeliveryCharge: deliveryCharge.StringFixed(2),
		TotalCartPrice: grandTotal.StringFixed(2),
		GrandTotal:     grandTotal,
	}, nil
}

// resolveRate fetches the exchange rate, mapping a missing row to the
// pricing engine's nil-rate handling so the caller sees one error type.
func (s *PricingService) resolveRate(ctx context.Context, pctx pricing.Context) (*currency.ExchangeRate, error) {
	if pctx.Currency == pricing.CurrencyINR {
		return currency.INR(), nil
	}

	rate, err := s.rates.FindByCurrency(ctx, pctx.Currency)
	if err != nil {
		if errors.Is(err, currency.ErrRateNotFound) {
			return nil, pricing.ErrUnsupportedCurrency
		}
		return nil, err
	}
	return rate, nil
}
