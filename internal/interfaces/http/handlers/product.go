// internal/interfaces/http/handlers/product.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/pharmacy-backend/internal/config"
	"github.com/your-org/pharmacy-backend/internal/domain/catalog"
	"github.com/your-org/pharmacy-backend/internal/domain/currency"
	"github.com/your-org/pharmacy-backend/internal/domain/pricing"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	catalogService  *catalog.Service
	currencyService *currency.Service
	engine          *pricing.Engine
	config          *config.Config
}

// NewProductHandler creates a new product handler
func NewProductHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *ProductHandler {
	return &ProductHandler{
		catalogService:  catalog.NewService(db, cfg),
		currencyService: currency.NewService(db, redisClient, cfg),
		engine:          pricing.NewEngine(pricing.CatalogRule),
		config:          cfg,
	}
}

// productResponse is a product with its variants priced for the caller
type productResponse struct {
	ID                     uint                     `json:"id"`
	SKU                    string                   `json:"sku"`
	Name                   string                   `json:"name"`
	Slug                   string                   `json:"slug"`
	Description            string                   `json:"description"`
	Manufacturer           string                   `json:"manufacturer"`
	Composition            string                   `json:"composition"`
	IsPrescriptionRequired bool                     `json:"is_prescription_required"`
	Currency               string                   `json:"currency"`
	Variants               []*pricing.PricedVariant `json:"variants"`
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	country, cur := pricingContext(c)
	pctx := pricing.NewContext(country, cur)

	product, err := h.catalogService.FindProductByID(uint(productID))
	if err != nil {
		respondError(c, err)
		return
	}
	if !product.IsVisible {
		respondError(c, catalog.ErrProductNotFound)
		return
	}

	rate, err := h.resolveRate(c, pctx)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := productResponse{
		ID:                     product.ID,
		SKU:                    product.SKU,
		Name:                   product.Name,
		Slug:                   product.Slug,
		Description:            product.Description,
		Manufacturer:           product.Manufacturer,
		Composition:            product.Composition,
		IsPrescriptionRequired: product.IsPrescriptionRequired,
		Currency:               pctx.Currency,
	}

	for i := range product.Variants {
		priced, err := h.engine.PriceVariant(&product.Variants[i], pctx, rate)
		if err != nil {
			respondError(c, err)
			return
		}
		resp.Variants = append(resp.Variants, priced)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    resp,
	})
}

// resolveRate looks up the exchange rate for non-INR contexts
func (h *ProductHandler) resolveRate(c *gin.Context, pctx pricing.Context) (*currency.ExchangeRate, error) {
	if pctx.Currency == pricing.CurrencyINR {
		return currency.INR(), nil
	}

	rate, err := h.currencyService.FindByCurrency(c.Request.Context(), pctx.Currency)
	if err != nil {
		if errors.Is(err, currency.ErrRateNotFound) {
			return nil, pricing.ErrUnsupportedCurrency
		}
		return nil, err
	}
	return rate, nil
}
