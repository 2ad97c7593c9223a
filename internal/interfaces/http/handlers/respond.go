// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/pharmacy-backend/internal/domain/cart"
	"github.com/your-org/pharmacy-backend/internal/domain/catalog"
	"github.com/your-org/pharmacy-backend/internal/domain/checkout"
	"github.com/your-org/pharmacy-backend/internal/domain/currency"
	"github.com/your-org/pharmacy-backend/internal/domain/order"
	"github.com/your-org/pharmacy-backend/internal/domain/payment"
	"github.com/your-org/pharmacy-backend/internal/domain/pricing"
	"github.com/your-org/pharmacy-backend/internal/domain/upload"
	"github.com/your-org/pharmacy-backend/internal/domain/wishlist"
)

// respondError maps domain errors onto HTTP status codes. Unknown errors
// become a generic 500 so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrVariantNotFound),
		errors.Is(err, cart.ErrCartNotFound),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, wishlist.ErrWishlistNotFound),
		errors.Is(err, wishlist.ErrWishlistItemNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, currency.ErrRateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, order.ErrOrderNotOwned):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, pricing.ErrUnsupportedCurrency),
		errors.Is(err, cart.ErrItemUnavailable),
		errors.Is(err, cart.ErrQuantityOutOfRange),
		errors.Is(err, cart.ErrDuplicateItem),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrPrescriptionRequired),
		errors.Is(err, checkout.ErrPassportRequired),
		errors.Is(err, upload.ErrInvalidFileType),
		errors.Is(err, upload.ErrFileTooLarge),
		errors.Is(err, payment.ErrSignatureMismatch),
		errors.Is(err, order.ErrOrderClosed),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, wishlist.ErrAlreadyInWishlist):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, payment.ErrGatewayUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable"})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// pricingContext reads the country and currency query parameters
func pricingContext(c *gin.Context) (country, cur string) {
	return c.Query("country"), c.Query("currency")
}
