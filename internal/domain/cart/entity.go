// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/pharmacy-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

var (
	// ErrCartNotFound is returned when a user has no active cart
	ErrCartNotFound = errors.New("cart not found")
	// ErrLineNotFound is returned when a line item lookup fails
	ErrLineNotFound = errors.New("cart item not found")
	// ErrItemUnavailable is returned when the variant is out of stock,
	// unpriced, or the product is hidden
	ErrItemUnavailable = errors.New("item is not available for purchase")
	// ErrQuantityOutOfRange is returned when the quantity violates the
	// variant's order bounds
	ErrQuantityOutOfRange = errors.New("quantity outside allowed order range")
	// ErrDuplicateItem is returned by wishlist import when the pair is
	// already in the cart
	ErrDuplicateItem = errors.New("item already in cart")
)

// CartStatus tracks whether a cart is still being assembled or has already
// been turned into an order.
type CartStatus string

const (
	CartStatusActive     CartStatus = "active"
	CartStatusCheckedOut CartStatus = "checked_out"
)

// Cart owns one user's line items. One cart per user, created lazily on
// first add.
type Cart struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	Status    CartStatus     `gorm:"not null;default:'active';size:20" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Lines []CartLine `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"lines"`
}

// ProductSnapshot is the denormalized product data captured when a line is
// added. It is authoritative for cart display; never re-fetched from the
// live catalog except during checkout re-validation.
type ProductSnapshot struct {
	Name                   string `gorm:"size:255" json:"name"`
	Slug                   string `gorm:"size:255" json:"slug"`
	IsVisible              bool   `json:"is_visible"`
	IsPrescriptionRequired bool   `json:"is_prescription_required"`
}

// VariantSnapshot is the denormalized variant data captured at add-time.
// Price and SalePrice are India-base INR amounts.
type VariantSnapshot struct {
	SKU              string          `gorm:"size:100" json:"sku"`
	PackSize         string          `gorm:"size:100" json:"pack_size"`
	Price            decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	SalePrice        decimal.Decimal `gorm:"type:numeric(12,2)" json:"sale_price"`
	Margin           float64         `json:"margin"`
	IsStockAvailable bool            `json:"is_stock_available"`
	MinOrderQuantity int             `json:"min_order_quantity"`
	MaxOrderQuantity int             `json:"max_order_quantity"`
}

// CartLine is one (product, variant) pair in a cart. The pair is unique
// within a cart; re-adding overwrites the quantity.
type CartLine struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CartID    uint `gorm:"not null;index;uniqueIndex:idx_cart_product_variant" json:"cart_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_product_variant" json:"product_id"`
	VariantID uint `gorm:"not null;uniqueIndex:idx_cart_product_variant" json:"variant_id"`
	Quantity  int  `gorm:"not null" json:"quantity"`

	ProductSnapshot ProductSnapshot `gorm:"embedded;embeddedPrefix:product_" json:"product"`
	VariantSnapshot VariantSnapshot `gorm:"embedded;embeddedPrefix:variant_" json:"variant"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartLine) TableName() string { return "cart_lines" }

// EffectiveBase returns the snapshot sale price when non-zero, else the price
func (s VariantSnapshot) EffectiveBase() decimal.Decimal {
	if s.SalePrice.IsPositive() {
		return s.SalePrice
	}
	return s.Price
}

// UpsertLine adds a line for the (product, variant) pair or overwrites the
// quantity of the existing line. Snapshots are captured once at add-time;
// a quantity overwrite does not refresh them.
func (c *Cart) UpsertLine(p *catalog.Product, v *catalog.Variant, quantity int) error {
	if !v.IsPurchasable() || !p.IsVisible {
		return ErrItemUnavailable
	}
	if quantity < v.MinOrderQuantity || quantity > v.MaxOrderQuantity {
		return ErrQuantityOutOfRange
	}

	if line := c.findLine(p.ID, v.ID); line != nil {
		line.Quantity = quantity
		return nil
	}

	c.Lines = append(c.Lines, newLine(c.ID, p, v, quantity))
	return nil
}

// AddLine appends a new line and refuses to touch an existing pair. Used by
// wishlist import, where a silent overwrite would be surprising.
func (c *Cart) AddLine(p *catalog.Product, v *catalog.Variant, quantity int) error {
	if c.findLine(p.ID, v.ID) != nil {
		return ErrDuplicateItem
	}
	return c.UpsertLine(p, v, quantity)
}

// RemoveLine deletes the line with the given id
func (c *Cart) RemoveLine(lineID uint) error {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// RequiresPrescription reports whether any line's snapshot needs a
// prescription upload at checkout.
func (c *Cart) RequiresPrescription() bool {
	for i := range c.Lines {
		if c.Lines[i].ProductSnapshot.IsPrescriptionRequired {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the cart has no line items
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) findLine(productID, variantID uint) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].VariantID == variantID {
			return &c.Lines[i]
		}
	}
	return nil
}

func newLine(cartID uint, p *catalog.Product, v *catalog.Variant, quantity int) CartLine {
	return CartLine{
		CartID:    cartID,
		ProductID: p.ID,
		VariantID: v.ID,
		Quantity:  quantity,
		ProductSnapshot: ProductSnapshot{
			Name:                   p.Name,
			Slug:                   p.Slug,
			IsVisible:              p.IsVisible,
			IsPrescriptionRequired: p.IsPrescriptionRequired,
		},
		VariantSnapshot: VariantSnapshot{
			SKU:              v.SKU,
			PackSize:         v.PackSize,
			Price:            v.Price,
			SalePrice:        v.SalePrice,
			Margin:           v.Margin,
			IsStockAvailable: v.IsStockAvailable,
			MinOrderQuantity: v.MinOrderQuantity,
			MaxOrderQuantity: v.MaxOrderQuantity,
		},
	}
}
