// internal/domain/order/entity.go
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrOrderNotFound is returned when an order lookup fails
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNotOwned is returned when a user reads someone else's order
	ErrOrderNotOwned = errors.New("order does not belong to user")
	// ErrOrderClosed is returned when a terminal order is asked to change state
	ErrOrderClosed = errors.New("order is in a terminal state")
	// ErrInvalidStatus is returned for an unknown status value
	ErrInvalidStatus = errors.New("invalid order status")
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
)

// ParseStatus validates a raw status value
func ParseStatus(raw string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusCompleted:
		return OrderStatusCompleted, nil
	case OrderStatusFailed:
		return OrderStatusFailed, nil
	default:
		return "", ErrInvalidStatus
	}
}

// ShippingAddress holds the shipping and contact fields captured at checkout
type ShippingAddress struct {
	Name         string `gorm:"size:255" json:"name"`
	Email        string `gorm:"size:255" json:"email"`
	Phone        string `gorm:"size:20" json:"phone"`
	AddressLine1 string `gorm:"size:255" json:"address_line1"`
	AddressLine2 string `gorm:"size:255" json:"address_line2"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:100" json:"state"`
	PostalCode   string `gorm:"size:20" json:"postal_code"`
	Country      string `gorm:"size:64" json:"country"`
}

// Payment holds the gateway references for an order. GatewayOrderID is set
// at creation; PaymentID and Signature arrive with the verified callback.
type Payment struct {
	GatewayOrderID string `gorm:"size:100;index" json:"order_id"`
	PaymentID      string `gorm:"size:100" json:"payment_id"`
	Signature      string `gorm:"size:255" json:"signature"`
}

// Order is the priced snapshot of a cart at checkout time. TotalPrice is the
// item subtotal, TotalCartPrice the grand total charged to the gateway, both
// in the order currency. Completed and Failed are terminal.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`

	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	Currency       string          `gorm:"size:3;default:'INR'" json:"currency"`
	TotalPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	DeliveryCharge decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"delivery_charge"`
	TotalCartPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_cart_price"`

	Status  OrderStatus `gorm:"not null;default:'pending';size:20" json:"status"`
	Payment Payment     `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`

	PrescriptionURL string `gorm:"size:500" json:"prescription_url,omitempty"`
	PassportURL     string `gorm:"size:500" json:"passport_url,omitempty"`
	TrackingLink    string `gorm:"size:500" json:"tracking_link,omitempty"`

	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem references the purchased pair and quantity. Display pricing is
// recoverable from the order totals; line items are deliberately unpriced.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	VariantID uint      `gorm:"not null" json:"variant_id"`
	Name      string    `gorm:"size:255" json:"name"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// NewOrderNumber generates a unique receipt-style order number
func NewOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s",
		time.Now().UTC().Format("20060102"),
		strings.ToUpper(uuid.New().String()[:8]))
}

// IsTerminal reports whether the order can no longer change payment state
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusFailed
}

// MarkCompleted records the verified payment and completes the order.
// Calling it again with the same payment id is a no-op, which keeps
// redelivered gateway callbacks harmless.
func (o *Order) MarkCompleted(paymentID, signature string) error {
	if o.Status == OrderStatusCompleted {
		if o.Payment.PaymentID == paymentID {
			return nil
		}
		return ErrOrderClosed
	}
	if o.Status == OrderStatusFailed {
		return ErrOrderClosed
	}

	now := time.Now().UTC()
	o.Payment.PaymentID = paymentID
	o.Payment.Signature = signature
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	return nil
}

// MarkFailed moves a pending order to the failed terminal state
func (o *Order) MarkFailed() error {
	if o.Status == OrderStatusCompleted {
		return ErrOrderClosed
	}
	o.Status = OrderStatusFailed
	return nil
}
