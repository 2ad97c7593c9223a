// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog product with embedded purchasable variants
type Product struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	SKU                    string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name                   string         `gorm:"not null;size:255" json:"name"`
	Slug                   string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description            string         `gorm:"type:text" json:"description"`
	Manufacturer           string         `gorm:"size:255" json:"manufacturer"`
	Composition            string         `gorm:"size:500" json:"composition"`
	IsVisible              bool           `gorm:"default:true" json:"is_visible"`
	IsPrescriptionRequired bool           `gorm:"default:false" json:"is_prescription_required"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Variants []Variant `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"variants,omitempty"`
}

// Variant represents a purchasable SKU of a product (pack size, price, stock flag).
// Price and SalePrice are India-base amounts in INR; Margin is the percentage
// markup applied for cross-border sales.
type Variant struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ProductID        uint            `gorm:"not null;index" json:"product_id"`
	SKU              string          `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	PackSize         string          `gorm:"not null;size:100" json:"pack_size"`
	Price            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	SalePrice        decimal.Decimal `gorm:"type:numeric(12,2)" json:"sale_price"`
	Margin           float64         `gorm:"default:0" json:"margin"`
	IsStockAvailable bool            `gorm:"default:true" json:"is_stock_available"`
	MinOrderQuantity int             `gorm:"default:1" json:"min_order_quantity"`
	MaxOrderQuantity int             `gorm:"default:10" json:"max_order_quantity"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

// SKUSequence is a database-backed counter used to allocate unique SKUs.
// An in-process counter is not safe across instances or restarts.
type SKUSequence struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:50" json:"name"`
	Value     int64     `gorm:"not null;default:0" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Product) TableName() string     { return "products" }
func (Variant) TableName() string     { return "product_variants" }
func (SKUSequence) TableName() string { return "sku_sequences" }

// FindVariant returns the embedded variant with the given id, or nil
func (p *Product) FindVariant(variantID uint) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// EffectiveBase returns the sale price when present and non-zero, else the price
func (v *Variant) EffectiveBase() decimal.Decimal {
	if v.SalePrice.IsPositive() {
		return v.SalePrice
	}
	return v.Price
}

// IsPurchasable reports whether the variant can be added to a cart
func (v *Variant) IsPurchasable() bool {
	return v.IsStockAvailable && v.Price.IsPositive()
}
