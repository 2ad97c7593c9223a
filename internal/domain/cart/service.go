// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"

	"github.com/your-org/pharmacy-backend/internal/config"
	"github.com/your-org/pharmacy-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// Service handles cart business logic. The cart document is read-modify-
// written without transactions; concurrent adds for one user are last-write-
// wins, which quantity-overwrite semantics tolerate.
type Service struct {
	db             *gorm.DB
	config         *config.Config
	catalogService *catalog.Service
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:             db,
		config:         cfg,
		catalogService: catalog.NewService(db, cfg),
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// GetActiveCart retrieves the user's active cart with its lines
func (s *Service) GetActiveCart(userID uint) (*Cart, error) {
	var c Cart
	err := s.db.Preload("Lines").Where("user_id = ?", userID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	if c.Status != CartStatusActive {
		return nil, ErrCartNotFound
	}

	return &c, nil
}

// AddOrUpdateItem validates the product/variant against the live catalog and
// adds a line or overwrites the quantity of the existing (product, variant)
// pair. Validation precedes every persisting write.
func (s *Service) AddOrUpdateItem(userID uint, req *AddToCartRequest) (*Cart, error) {
	prod, variant, err := s.catalogService.FindVariant(req.ProductID, req.VariantID)
	if err != nil {
		return nil, err
	}

	c, err := s.cartForMutation(userID)
	if err != nil {
		return nil, err
	}

	if err := c.UpsertLine(prod, variant, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.persist(c); err != nil {
		return nil, err
	}

	return c, nil
}

// ImportItem adds a (product, variant) pair with the variant's minimum order
// quantity. Unlike AddOrUpdateItem it refuses pairs already in the cart.
func (s *Service) ImportItem(userID, productID, variantID uint) (*Cart, error) {
	prod, variant, err := s.catalogService.FindVariant(productID, variantID)
	if err != nil {
		return nil, err
	}

	c, err := s.cartForMutation(userID)
	if err != nil {
		return nil, err
	}

	quantity := variant.MinOrderQuantity
	if quantity < 1 {
		quantity = 1
	}

	if err := c.AddLine(prod, variant, quantity); err != nil {
		return nil, err
	}

	if err := s.persist(c); err != nil {
		return nil, err
	}

	return c, nil
}

// RemoveItem removes one line from the user's active cart
func (s *Service) RemoveItem(userID, lineID uint) (*Cart, error) {
	c, err := s.GetActiveCart(userID)
	if err != nil {
		return nil, err
	}

	if err := c.RemoveLine(lineID); err != nil {
		return nil, err
	}

	if err := s.db.Delete(&CartLine{}, "id = ? AND cart_id = ?", lineID, c.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return c, nil
}

// Clear deletes the cart document entirely
func (s *Service) Clear(userID uint) error {
	c, err := s.GetActiveCart(userID)
	if err != nil {
		return err
	}

	return s.deleteCart(c)
}

// MarkCheckedOut flags the cart as turned into an order. The next mutation
// for this user starts a fresh cart.
func (s *Service) MarkCheckedOut(c *Cart) error {
	c.Status = CartStatusCheckedOut
	if err := s.db.Model(&Cart{}).Where("id = ?", c.ID).Update("status", CartStatusCheckedOut).Error; err != nil {
		return fmt.Errorf("failed to mark cart checked out: %w", err)
	}
	return nil
}

// Private helpers

// cartForMutation returns the user's cart ready to receive a mutation,
// creating one lazily on first add. A checked-out cart is recycled into a
// fresh empty active cart.
func (s *Service) cartForMutation(userID uint) (*Cart, error) {
	var c Cart
	err := s.db.Preload("Lines").Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = Cart{UserID: userID, Status: CartStatusActive}
		if err := s.db.Create(&c).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return &c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	if c.Status == CartStatusCheckedOut {
		if err := s.db.Delete(&CartLine{}, "cart_id = ?", c.ID).Error; err != nil {
			return nil, fmt.Errorf("failed to reset checked-out cart: %w", err)
		}
		c.Lines = nil
		c.Status = CartStatusActive
		if err := s.db.Model(&Cart{}).Where("id = ?", c.ID).Update("status", CartStatusActive).Error; err != nil {
			return nil, fmt.Errorf("failed to reactivate cart: %w", err)
		}
	}

	return &c, nil
}

func (s *Service) persist(c *Cart) error {
	err := s.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(c).Error
	if err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (s *Service) deleteCart(c *Cart) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&CartLine{}, "cart_id = ?", c.ID).Error; err != nil {
			return fmt.Errorf("failed to delete cart lines: %w", err)
		}
		if err := tx.Unscoped().Delete(&Cart{}, c.ID).Error; err != nil {
			return fmt.Errorf("failed to delete cart: %w", err)
		}
		return nil
	})
}
