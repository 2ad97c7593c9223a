// internal/domain/pricing/delivery.go
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DeliveryCharge is one slab of a per-country piecewise step function from
// INR subtotal to delivery fee. MaxAmount zero means the slab is open-ended.
type DeliveryCharge struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Country   string          `gorm:"not null;index;size:64" json:"country"`
	MinAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"min_amount"`
	MaxAmount decimal.Decimal `gorm:"type:numeric(12,2)" json:"max_amount"`
	Charge    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"charge"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName overrides the table name
func (DeliveryCharge) TableName() string {
	return "delivery_charges"
}

// slab is a resolved charge band. Subtotal s matches when min <= s < max,
// with a zero max meaning no upper bound.
type slab struct {
	min    decimal.Decimal
	max    decimal.Decimal
	charge decimal.Decimal
}

func newSlab(min, max, charge string) slab {
	return slab{
		min:    decimal.RequireFromString(min),
		max:    decimal.RequireFromString(max),
		charge: decimal.RequireFromString(charge),
	}
}

// indiaSlabs is the domestic fee schedule. It is deliberately baked in rather
// than loaded from delivery_charges.
var indiaSlabs = []slab{
	newSlab("0", "500", "99"),
	newSlab("500", "1000", "59"),
	newSlab("1000", "0", "0"),
}

// defaultIntlSlabs applies to any country without rows in delivery_charges.
// The 4177.78 and 16713.65 thresholds are exact; do not "fix" them.
var defaultIntlSlabs = []slab{
	newSlab("0", "4177.78", "4178.62"),
	newSlab("4177.78", "16713.65", "3342.90"),
	newSlab("16713.65", "0", "0"),
}

// DeliveryCalculator maps an INR subtotal and destination country to a
// delivery fee in INR.
type DeliveryCalculator struct {
	db  *gorm.DB
	log *logrus.Entry
}

// NewDeliveryCalculator creates a delivery charge calculator. The database
// handle may be nil, in which case only the built-in schedules apply.
func NewDeliveryCalculator(db *gorm.DB) *DeliveryCalculator {
	return &DeliveryCalculator{
		db:  db,
		log: logrus.WithField("component", "delivery"),
	}
}

// Charge computes the INR delivery fee for an INR subtotal. A zero subtotal
// carries no charge.
func (c *DeliveryCalculator) Charge(subtotalINR decimal.Decimal, country string) decimal.Decimal {
	if !subtotalINR.IsPositive() {
		return decimal.Zero
	}

	if country == CountryIndia {
		return chargeFor(subtotalINR, indiaSlabs)
	}

	return chargeFor(subtotalINR, c.slabsFor(country))
}

func (c *DeliveryCalculator) slabsFor(country string) []slab {
	if c.db == nil {
		return defaultIntlSlabs
	}

	var rows []DeliveryCharge
	err := c.db.Where("country = ?", country).Order("min_amount asc").Find(&rows).Error
	if err != nil {
		c.log.WithError(err).WithField("country", country).Warn("delivery charge lookup failed, using defaults")
		return defaultIntlSlabs
	}
	if len(rows) == 0 {
		return defaultIntlSlabs
	}

	slabs := make([]slab, len(rows))
	for i, row := range rows {
		slabs[i] = slab{min: row.MinAmount, max: row.MaxAmount, charge: row.Charge}
	}
	return slabs
}

func chargeFor(subtotal decimal.Decimal, slabs []slab) decimal.Decimal {
	for _, s := range slabs {
		if subtotal.LessThan(s.min) {
			continue
		}
		if s.max.IsZero() || subtotal.LessThan(s.max) {
			return s.charge
		}
	}
	return decimal.Zero
}
