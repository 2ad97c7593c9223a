// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/pharmacy-backend/internal/config"
	"github.com/your-org/pharmacy-backend/internal/domain/cart"
	"github.com/your-org/pharmacy-backend/internal/domain/checkout"
	"github.com/your-org/pharmacy-backend/internal/domain/currency"
	"github.com/your-org/pharmacy-backend/internal/domain/order"
	"github.com/your-org/pharmacy-backend/internal/domain/payment"
	"github.com/your-org/pharmacy-backend/internal/domain/pricing"
	"github.com/your-org/pharmacy-backend/internal/domain/upload"
	"github.com/your-org/pharmacy-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout and payment callback endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	config          *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CheckoutHandler {
	cartService := cart.NewService(db, cfg)
	pricingService := cart.NewPricingService(currency.NewService(db, redisClient, cfg), pricing.NewDeliveryCalculator(db))

	return &CheckoutHandler{
		checkoutService: checkout.NewService(
			cartService,
			pricingService,
			payment.NewClient(cfg),
			upload.NewService(db, cfg),
			order.NewService(db, cfg),
		),
		config: cfg,
	}
}

// CreateOrder handles POST /checkout/order. The request is multipart: the
// shipping form fields plus the passport image and, when the cart holds a
// prescription item, the prescription image.
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req checkout.CreateOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if file, err := c.FormFile("prescription"); err == nil {
		req.Prescription = file
	}
	if file, err := c.FormFile("passport"); err == nil {
		req.Passport = file
	}

	result, err := h.checkoutService.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order created successfully",
		"data":    result,
	})
}

// PaymentCallback handles POST /checkout/payment-callback with the gateway's
// signed payment confirmation.
func (h *CheckoutHandler) PaymentCallback(c *gin.Context) {
	var req checkout.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	confirmed, err := h.checkoutService.ConfirmPayment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment confirmed successfully",
		"data":    confirmed,
	})
}
