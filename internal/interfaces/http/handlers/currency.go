// internal/interfaces/http/handlers/currency.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/pharmacy-backend/internal/config"
	"github.com/your-org/pharmacy-backend/internal/domain/currency"
)

// CurrencyHandler handles currency endpoints
type CurrencyHandler struct {
	currencyService *currency.Service
	config          *config.Config
}

// NewCurrencyHandler creates a new currency handler
func NewCurrencyHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CurrencyHandler {
	return &CurrencyHandler{
		currencyService: currency.NewService(db, redisClient, cfg),
		config:          cfg,
	}
}

// ListCurrencies handles GET /currencies
func (h *CurrencyHandler) ListCurrencies(c *gin.Context) {
	rates, err := h.currencyService.Supported(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Currencies retrieved successfully",
		"data":    rates,
	})
}
