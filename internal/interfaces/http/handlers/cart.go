// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/pharmacy-backend/internal/config"
	"github.com/your-org/pharmacy-backend/internal/domain/cart"
	"github.com/your-org/pharmacy-backend/internal/domain/currency"
	"github.com/your-org/pharmacy-backend/internal/domain/pricing"
	"github.com/your-org/pharmacy-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService    *cart.Service
	pricingService *cart.PricingService
	config         *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService:    cart.NewService(db, cfg),
		pricingService: cart.NewPricingService(currency.NewService(db, redisClient, cfg), pricing.NewDeliveryCalculator(db)),
		config:         cfg,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	pctx := pricing.NewContext(pricingContext(c))

	activeCart, err := h.cartService.GetActiveCart(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	priced, err := h.pricingService.PriceCart(c.Request.Context(), activeCart, pctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    priced,
	})
}

// AddToCart handles POST /cart/items. Re-adding an existing product/variant
// pair overwrites its quantity.
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	pctx := pricing.NewContext(pricingContext(c))

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.cartService.AddOrUpdateItem(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	priced, err := h.pricingService.PriceCart(c.Request.Context(), updated, pctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    priced,
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	pctx := pricing.NewContext(pricingContext(c))

	lineID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cart item ID",
		})
		return
	}

	updated, err := h.cartService.RemoveItem(userID, uint(lineID))
	if err != nil {
		respondError(c, err)
		return
	}

	priced, err := h.pricingService.PriceCart(c.Request.Context(), updated, pctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    priced,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	if err := h.cartService.Clear(userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}
