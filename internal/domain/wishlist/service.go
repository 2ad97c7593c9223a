package wishlist

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/pharmacy-backend/internal/config"
	"github.com/your-org/pharmacy-backend/internal/domain/cart"
	"github.com/your-org/pharmacy-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

var (
	// ErrWishlistNotFound is returned when a user has no wishlist at all
	ErrWishlistNotFound = errors.New("wishlist not found")
	// ErrWishlistItemNotFound is returned when the pair is not in the wishlist
	ErrWishlistItemNotFound = errors.New("item not found in wishlist")
	// ErrAlreadyInWishlist is returned on a duplicate add
	ErrAlreadyInWishlist = errors.New("item already exists in wishlist")
)

// Service handles wishlist business logic
type Service struct {
	db             *gorm.DB
	config         *config.Config
	catalogService *catalog.Service
	cartService    *cart.Service
}

// NewService creates a new wishlist service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:             db,
		config:         cfg,
		catalogService: catalog.NewService(db, cfg),
		cartService:    cart.NewService(db, cfg),
	}
}

// AddToWishlistRequest represents add to wishlist request
type AddToWishlistRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id" binding:"required"`
}

// ImportToCartRequest identifies the wishlist pair to move into the cart
type ImportToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id" binding:"required"`
}

// List retrieves all wishlist items for a user, newest first
func (s *Service) List(userID uint) ([]WishlistItem, error) {
	var items []WishlistItem
	err := s.db.Where("user_id = ?", userID).Order("added_at desc").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve wishlist: %w", err)
	}
	return items, nil
}

// Add saves a (product, variant) pair after validating it against the catalog
func (s *Service) Add(userID uint, req *AddToWishlistRequest) (*WishlistItem, error) {
	if _, _, err := s.catalogService.FindVariant(req.ProductID, req.VariantID); err != nil {
		return nil, err
	}

	var existing WishlistItem
	err := s.db.Where("user_id = ? AND product_id = ? AND variant_id = ?",
		userID, req.ProductID, req.VariantID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyInWishlist
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check wishlist: %w", err)
	}

	item := WishlistItem{
		UserID:    userID,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		AddedAt:   time.Now().UTC(),
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to add item to wishlist: %w", err)
	}

	return &item, nil
}

// Remove deletes one wishlist item owned by the user
func (s *Service) Remove(userID, itemID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", itemID, userID).Delete(&WishlistItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWishlistItemNotFound
	}
	return nil
}

// ImportToCart moves a wishlist pair into the cart with the variant's minimum
// order quantity. Fails when the pair is already in the cart; the wishlist
// entry is only removed once the cart add succeeded.
func (s *Service) ImportToCart(userID uint, req *ImportToCartRequest) (*cart.Cart, error) {
	var count int64
	if err := s.db.Model(&WishlistItem{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check wishlist: %w", err)
	}
	if count == 0 {
		return nil, ErrWishlistNotFound
	}

	var item WishlistItem
	err := s.db.Where("user_id = ? AND product_id = ? AND variant_id = ?",
		userID, req.ProductID, req.VariantID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWishlistItemNotFound
		}
		return nil, fmt.Errorf("failed to retrieve wishlist item: %w", err)
	}

	c, err := s.cartService.ImportItem(userID, req.ProductID, req.VariantID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(&WishlistItem{}, item.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to remove imported wishlist item: %w", err)
	}

	return c, nil
}
