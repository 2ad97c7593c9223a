package wishlist

import (
	"time"

	"gorm.io/gorm"
)

// WishlistItem represents a saved (product, variant) pair for a user
type WishlistItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index;uniqueIndex:idx_wishlist_pair" json:"user_id"`
	ProductID uint           `gorm:"not null;uniqueIndex:idx_wishlist_pair" json:"product_id"`
	VariantID uint           `gorm:"not null;uniqueIndex:idx_wishlist_pair" json:"variant_id"`
	AddedAt   time.Time      `json:"added_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (WishlistItem) TableName() string {
	return "wishlist_items"
}
