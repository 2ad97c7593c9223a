// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/your-org/pharmacy-backend/internal/domain/cart"
	"github.com/your-org/pharmacy-backend/internal/domain/order"
	"github.com/your-org/pharmacy-backend/internal/domain/payment"
	"github.com/your-org/pharmacy-backend/internal/domain/pricing"
	"github.com/your-org/pharmacy-backend/internal/domain/upload"
)

var (
	// ErrEmptyCart is returned when checkout starts with no items
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPrescriptionRequired is returned when a prescription item lacks its upload
	ErrPrescriptionRequired = errors.New("prescription upload required")
	// ErrPassportRequired is returned when the passport upload is missing
	ErrPassportRequired = errors.New("passport upload required")
)

// CartSource provides the active cart and its state transitions
type CartSource interface {
	GetActiveCart(userID uint) (*cart.Cart, error)
	MarkCheckedOut(c *cart.Cart) error
}

// Pricer prices a cart for a country and currency context
type Pricer interface {
	PriceCart(ctx context.Context, c *cart.Cart, pctx pricing.Context) (*cart.PricedCart, error)
}

// Gateway creates payment-gateway orders and verifies callbacks
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*payment.GatewayOrder, error)
	VerifySignature(gatewayOrderID, paymentID, signature string) error
	KeyID() string
}

// Uploader stores checkout documents
type Uploader interface {
	SaveImage(ctx context.Context, userID uint, kind upload.FileKind, header *multipart.FileHeader) (*upload.UploadedFile, error)
}

// OrderStore persists and looks up orders
type OrderStore interface {
	Create(ctx context.Context, o *order.Order) error
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*order.Order, error)
	Save(ctx context.Context, o *order.Order) error
}

// CreateOrderRequest carries the checkout form fields
type CreateOrderRequest struct {
	Country  string `form:"country"`
	Currency string `form:"currency"`
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Phone    string `form:"phone" binding:"required"`
	Address1 string `form:"address_line1" binding:"required"`
	Address2 string `form:"address_line2"`
	City     string `form:"city" binding:"required"`
	State    string `form:"state"`
	PostCode string `form:"postal_code" binding:"required"`

	Prescription *multipart.FileHeader `form:"-"`
	Passport     *multipart.FileHeader `form:"-"`
}

// CheckoutResult is what the client needs to open the payment widget
type CheckoutResult struct {
	Order          *order.Order `json:"order"`
	GatewayOrderID string       `json:"gateway_order_id"`
	GatewayKeyID   string       `json:"gateway_key_id"`
	AmountMinor    int64        `json:"amount_minor"`
	Currency       string       `json:"currency"`
}

// ConfirmPaymentRequest carries the gateway callback fields
type ConfirmPaymentRequest struct {
	GatewayOrderID string `json:"razorpay_order_id" binding:"required"`
	PaymentID      string `json:"razorpay_payment_id" binding:"required"`
	Signature      string `json:"razorpay_signature" binding:"required"`
}

// Service orchestrates cart pricing, document uploads, gateway order
// creation and payment confirmation.
type Service struct {
	carts   CartSource
	pricer  Pricer
	gateway Gateway
	uploads Uploader
	orders  OrderStore
	log     *logrus.Entry
}

// NewService creates a checkout service
func NewService(carts CartSource, pricer Pricer, gateway Gateway, uploads Uploader, orders OrderStore) *Service {
	return &Service{
		carts:   carts,
		pricer:  pricer,
		gateway: gateway,
		uploads: uploads,
		orders:  orders,
		log:     logrus.WithField("component", "checkout"),
	}
}

// CreateOrder runs the checkout pipeline for the user's active cart. The
// passport document is always required; a prescription is required whenever
// any cart line was flagged prescription-only when it was added.
func (s *Service) CreateOrder(ctx context.Context, userID uint, req *CreateOrderRequest) (*CheckoutResult, error) {
	activeCart, err := s.carts.GetActiveCart(userID)
	if err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if activeCart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	pctx := pricing.NewContext(req.Country, req.Currency)
	priced, err := s.pricer.PriceCart(ctx, activeCart, pctx)
	if err != nil {
		return nil, err
	}

	if activeCart.RequiresPrescription() && req.Prescription == nil {
		return nil, ErrPrescriptionRequired
	}
	if req.Passport == nil {
		return nil, ErrPassportRequired
	}

	var prescriptionURL string
	if req.Prescription != nil {
		stored, err := s.uploads.SaveImage(ctx, userID, upload.FileKindPrescription, req.Prescription)
		if err != nil {
			return nil, err
		}
		prescriptionURL = stored.URL
	}
	passportStored, err := s.uploads.SaveImage(ctx, userID, upload.FileKindPassport, req.Passport)
	if err != nil {
		return nil, err
	}

	orderNumber := order.NewOrderNumber()
	amountMinor := minorUnits(priced.GrandTotal)

	gatewayOrder, err := s.gateway.CreateOrder(ctx, amountMinor, priced.Currency, orderNumber)
	if err != nil {
		return nil, err
	}

	o := &order.Order{
		OrderNumber: orderNumber,
		UserID:      userID,
		ShippingAddress: order.ShippingAddress{
			Name:         req.Name,
			Email:        req.Email,
			Phone:        req.Phone,
			AddressLine1: req.Address1,
			AddressLine2: req.Address2,
			City:         req.City,
			State:        req.State,
			PostalCode:   req.PostCode,
			Country:      priced.Country,
		},
		Currency:        priced.Currency,
		TotalPrice:      decimal.RequireFromString(priced.TotalPrice),
		DeliveryCharge:  decimal.RequireFromString(priced.DeliveryCharge),
		TotalCartPrice:  decimal.RequireFromString(priced.TotalCartPrice),
		Status:          order.OrderStatusPending,
		Payment:         order.Payment{GatewayOrderID: gatewayOrder.ID},
		PrescriptionURL: prescriptionURL,
		PassportURL:     passportStored.URL,
	}
	for _, line := range activeCart.Lines {
		o.Items = append(o.Items, order.OrderItem{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Name:      line.ProductSnapshot.Name,
			Quantity:  line.Quantity,
		})
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	if err := s.carts.MarkCheckedOut(activeCart); err != nil {
		return nil, fmt.Errorf("failed to close cart: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_number":     o.OrderNumber,
		"gateway_order_id": gatewayOrder.ID,
		"currency":         o.Currency,
		"amount_minor":     amountMinor,
	}).Info("Checkout order created")

	return &CheckoutResult{
		Order:          o,
		GatewayOrderID: gatewayOrder.ID,
		GatewayKeyID:   s.gateway.KeyID(),
		AmountMinor:    amountMinor,
		Currency:       priced.Currency,
	}, nil
}

// ConfirmPayment verifies a gateway callback and completes the order.
// Redelivered callbacks for an already completed order succeed without
// touching it again.
func (s *Service) ConfirmPayment(ctx context.Context, req *ConfirmPaymentRequest) (*order.Order, error) {
	if err := s.gateway.VerifySignature(req.GatewayOrderID, req.PaymentID, req.Signature); err != nil {
		return nil, err
	}

	o, err := s.orders.FindByGatewayOrderID(ctx, req.GatewayOrderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			s.log.WithField("gateway_order_id", req.GatewayOrderID).
				Error("Payment callback for unknown order")
		}
		return nil, err
	}

	if err := o.MarkCompleted(req.PaymentID, req.Signature); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"payment_id":   req.PaymentID,
	}).Info("Payment confirmed")
	return o, nil
}

// minorUnits converts a major-unit amount to the gateway's smallest unit
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
