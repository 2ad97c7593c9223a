// internal/domain/pricing/engine.go
package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/pharmacy-backend/internal/domain/catalog"
	"github.com/your-org/pharmacy-backend/internal/domain/currency"
)

const (
	// CountryIndia is the domestic market; India-base prices need no margin
	CountryIndia = "INDIA"
	// CurrencyINR is the base currency all catalog prices are stored in
	CurrencyINR = "INR"
)

// ErrUnsupportedCurrency is returned when pricing is requested in a currency
// that has no stored exchange rate. Caller-correctable, so it maps to a
// validation failure rather than a not-found.
var ErrUnsupportedCurrency = errors.New("currency not supported")

// Context carries the country/currency pair every price is computed for
type Context struct {
	Country  string
	Currency string
}

// NewContext normalizes raw country/currency input, defaulting to the
// domestic market.
func NewContext(country, curr string) Context {
	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		country = CountryIndia
	}
	curr = strings.ToUpper(strings.TrimSpace(curr))
	if curr == "" {
		curr = CurrencyINR
	}
	return Context{Country: country, Currency: curr}
}

// IsDomestic reports whether the context targets the Indian market
func (c Context) IsDomestic() bool {
	return c.Country == CountryIndia
}

// Rule describes how an India-base INR price is adjusted for a country before
// currency conversion. The catalog-browse and checkout paths historically
// diverged; both are expressed as rows of this one table.
type Rule struct {
	// DomesticAdjustPercent is applied when the country is INDIA.
	// Negative values are discounts.
	DomesticAdjustPercent float64
	// FlatMarginOverride replaces the per-variant margin for listed countries
	FlatMarginOverride map[string]float64
}

// CatalogRule is the catalog-browse adjustment: 12% domestic discount and a
// flat 20% markup for Bangladesh and Nepal overriding the per-variant margin.
var CatalogRule = Rule{
	DomesticAdjustPercent: -12,
	FlatMarginOverride: map[string]float64{
		"BANGLADESH": 20,
		"NEPAL":      20,
	},
}

// CheckoutRule is the cart/checkout adjustment: domestic prices pass through
// unchanged and every other country gets the per-variant margin.
var CheckoutRule = Rule{}

// PricedVariant is a variant priced for a country/currency context
type PricedVariant struct {
	VariantID uint            `json:"variant_id"`
	SKU       string          `json:"sku"`
	PackSize  string          `json:"pack_size"`
	Price     string          `json:"price"`
	SalePrice string          `json:"sale_price"`
	Symbol    string          `json:"symbol"`
	Amount    decimal.Decimal `json:"-"`
}

// Engine converts India-base variant prices into customer-facing prices.
// It is pure computation; exchange rates are resolved by the caller.
type Engine struct {
	rule Rule
}

// NewEngine creates a pricing engine bound to one adjustment rule
func NewEngine(rule Rule) *Engine {
	return &Engine{rule: rule}
}

// Adjust applies the country adjustment to an INR base amount
func (e *Engine) Adjust(baseINR decimal.Decimal, marginPercent float64, country string) decimal.Decimal {
	percent := marginPercent
	if country == CountryIndia {
		percent = e.rule.DomesticAdjustPercent
	} else if override, ok := e.rule.FlatMarginOverride[country]; ok {
		percent = override
	}

	if percent == 0 {
		return baseINR
	}

	factor := decimal.NewFromFloat(1 + percent/100)
	return baseINR.Mul(factor)
}

// Convert converts an INR amount into the context currency, rounded half-up
// to 2 decimals, and returns the display symbol. The rate may be nil, which
// fails with ErrUnsupportedCurrency for any currency other than INR.
func (e *Engine) Convert(amountINR decimal.Decimal, ctx Context, rate *currency.ExchangeRate) (decimal.Decimal, string, error) {
	if ctx.Currency == CurrencyINR {
		return amountINR.Round(2), currency.INR().Symbol, nil
	}

	if rate == nil || rate.Currency != ctx.Currency {
		return decimal.Zero, "", ErrUnsupportedCurrency
	}

	symbol := rate.Symbol
	// The literal code reads better than the native symbol for dirham
	if ctx.Currency == "AED" {
		symbol = "AED"
	}

	return amountINR.Mul(rate.Rate).Round(2), symbol, nil
}

// PriceVariant produces the customer-facing price and sale price for a
// variant in the given context.
func (e *Engine) PriceVariant(v *catalog.Variant, ctx Context, rate *currency.ExchangeRate) (*PricedVariant, error) {
	price, symbol, err := e.Convert(e.Adjust(v.Price, v.Margin, ctx.Country), ctx, rate)
	if err != nil {
		return nil, err
	}

	salePrice, _, err := e.Convert(e.Adjust(v.EffectiveBase(), v.Margin, ctx.Country), ctx, rate)
	if err != nil {
		return nil, err
	}

	return &PricedVariant{
		VariantID: v.ID,
		SKU:       v.SKU,
		PackSize:  v.PackSize,
		Price:     price.StringFixed(2),
		SalePrice: salePrice.StringFixed(2),
		Symbol:    symbol,
		Amount:    salePrice,
	}, nil
}
