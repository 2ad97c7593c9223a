// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/pharmacy-backend/internal/config"
	"github.com/your-org/pharmacy-backend/internal/domain/wishlist"
	"github.com/your-org/pharmacy-backend/internal/interfaces/http/middleware"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlistService *wishlist.Service
	config          *config.Config
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(db *gorm.DB, cfg *config.Config) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlist.NewService(db, cfg),
		config:          cfg,
	}
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	items, err := h.wishlistService.List(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist retrieved successfully",
		"data": gin.H{
			"items": items,
			"count": len(items),
		},
	})
}

// AddToWishlist handles POST /wishlist/items
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req wishlist.AddToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.wishlistService.Add(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to wishlist successfully",
		"data":    item,
	})
}

// RemoveFromWishlist handles DELETE /wishlist/items/:id
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid wishlist item ID",
		})
		return
	}

	if err := h.wishlistService.Remove(userID, uint(itemID)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from wishlist successfully",
	})
}

// ImportToCart handles POST /wishlist/import. The wishlist entry is removed
// only after the item lands in the cart.
func (h *WishlistHandler) ImportToCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req wishlist.ImportToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updatedCart, err := h.wishlistService.ImportToCart(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item moved to cart successfully",
		"data":    updatedCart,
	})
}
