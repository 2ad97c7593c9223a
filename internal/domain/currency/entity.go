// internal/domain/currency/entity.go
package currency

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate maps a currency code to its INR conversion rate and display
// symbol. Rows are refreshed on a fixed schedule from the external rate feed
// and treated as read-only by pricing.
type ExchangeRate struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Currency    string          `gorm:"uniqueIndex;not null;size:3" json:"currency"`
	Rate        decimal.Decimal `gorm:"type:numeric(18,8);not null" json:"rate"`
	Symbol      string          `gorm:"not null;size:8" json:"symbol"`
	LastUpdated time.Time       `json:"last_updated"`
}

// TableName overrides the table name
func (ExchangeRate) TableName() string {
	return "exchange_rates"
}

// INR is the identity rate for the base currency. It has no database row.
func INR() *ExchangeRate {
	return &ExchangeRate{
		Currency: "INR",
		Rate:     decimal.NewFromInt(1),
		Symbol:   "₹",
	}
}
