// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/pharmacy-backend/internal/config"
	"github.com/your-org/pharmacy-backend/internal/interfaces/http/handlers"
	"github.com/your-org/pharmacy-backend/internal/interfaces/http/middleware"
)

// SetupRoutes wires every API route group onto the router
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, redisClient, cfg)
	currencyHandler := handlers.NewCurrencyHandler(db, redisClient, cfg)
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg)
	wishlistHandler := handlers.NewWishlistHandler(db, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(db, redisClient, cfg)
	orderHandler := handlers.NewOrderHandler(db, cfg)

	// Public catalog browsing, priced per the country/currency query params
	products := rg.Group("/products")
	products.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		products.GET("/:id", productHandler.GetProduct)
	}

	// Supported currencies for storefront pickers
	rg.GET("/currencies", currencyHandler.ListCurrencies)

	// Cart routes require authentication; one cart per user
	cart := rg.Group("/cart")
	cart.Use(middleware.AuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddToCart)
		cart.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cart.DELETE("", cartHandler.ClearCart)
	}

	// Wishlist routes
	wishlist := rg.Group("/wishlist")
	wishlist.Use(middleware.AuthMiddleware(cfg))
	{
		wishlist.GET("", wishlistHandler.GetWishlist)
		wishlist.POST("/items", wishlistHandler.AddToWishlist)
		wishlist.DELETE("/items/:id", wishlistHandler.RemoveFromWishlist)
		wishlist.POST("/import", wishlistHandler.ImportToCart)
	}

	// Checkout routes
	checkout := rg.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware(cfg))
	{
		checkout.POST("/order", checkoutHandler.CreateOrder)
	}

	// Payment callback carries its own HMAC verification
	rg.POST("/checkout/payment-callback", checkoutHandler.PaymentCallback)

	// Order routes
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/invoice", orderHandler.DownloadInvoice)
	}

	// Admin routes
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.PATCH("/orders/:id", orderHandler.AdminUpdateOrder)
	}
}
