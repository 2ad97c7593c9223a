// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/your-org/pharmacy-backend/internal/config"
)

// Service handles order business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// Create persists a freshly built order with its items
func (s *Service) Create(ctx context.Context, o *Order) error {
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID returns an order with items, enforcing ownership
func (s *Service) GetByID(ctx context.Context, userID, orderID uint) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if o.UserID != userID {
		return nil, ErrOrderNotOwned
	}
	return &o, nil
}

// ListByUser returns the user's orders, newest first
func (s *Service) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]Order, int64, error) {
	var (
		orders []Order
		total  int64
	)

	q := s.db.WithContext(ctx).Model(&Order{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	err := q.Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// FindByGatewayOrderID locates the order a payment callback refers to
func (s *Service) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("payment_gateway_order_id = ?", gatewayOrderID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by gateway id: %w", err)
	}
	return &o, nil
}

// Save persists any in-memory state change made through the entity methods
func (s *Service) Save(ctx context.Context, o *Order) error {
	if err := s.db.WithContext(ctx).Save(o).Error; err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

// AdminUpdate lets back office set status and tracking link on any order
func (s *Service) AdminUpdate(ctx context.Context, orderID uint, status OrderStatus, trackingLink string) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	updates := map[string]interface{}{}
	if status != "" {
		if _, err := ParseStatus(string(status)); err != nil {
			return nil, err
		}
		updates["status"] = status
	}
	if trackingLink != "" {
		updates["tracking_link"] = trackingLink
	}
	if len(updates) == 0 {
		return &o, nil
	}

	if err := s.db.WithContext(ctx).Model(&o).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return &o, nil
}
