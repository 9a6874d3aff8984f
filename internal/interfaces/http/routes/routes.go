// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/config"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/builder"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/cart"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/catalog"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/checkout"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/order"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/payment"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/user"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/interfaces/http/handlers"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/interfaces/http/middleware"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/pkg/auth"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/pkg/pdf"
)

// SetupRoutes wires services to handlers and registers all API routes
// under the given group.
func SetupRoutes(api *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	// Shared services.
	catalogStore := catalog.NewStore(catalog.NewRepository(db), cfg.Store.CatalogReload)
	cartService := cart.NewService(catalogStore, cart.NewRedisPersistence(redisClient, cfg.Store.CartTTL))
	builderService := builder.NewService(catalogStore, cartService)
	orderRepo := order.NewRepository(db)
	checkoutService := checkout.NewService(cartService, orderRepo, payment.NewClient(cfg.Payment), cfg.Payment)
	userService := user.NewService(db, auth.NewJWTManager(cfg), auth.NewPasswordManager(cfg))

	// Handlers.
	catalogHandler := handlers.NewCatalogHandler(catalogStore)
	cartHandler := handlers.NewCartHandler(cartService)
	builderHandler := handlers.NewBuilderHandler(builderService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	orderHandler := handlers.NewOrderHandler(orderRepo, pdf.NewService(cfg))
	authHandler := handlers.NewAuthHandler(userService)
	adminHandler := handlers.NewAdminHandler(catalog.NewService(db, catalogStore))

	// Public catalog.
	api.GET("/categories", catalogHandler.GetCategories)
	api.GET("/products", catalogHandler.GetProducts)
	api.GET("/products/:id", catalogHandler.GetProduct)

	// Auth.
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.GET("/me", middleware.AuthMiddleware(cfg), authHandler.Profile)
	}

	// Session-scoped storefront routes. The cart cookie identifies the
	// visitor; auth is optional and only enriches order history.
	session := api.Group("/")
	session.Use(middleware.CartSession(), middleware.OptionalAuthMiddleware(cfg))
	{
		cartGroup := session.Group("/cart")
		{
			cartGroup.GET("", cartHandler.GetCart)
			cartGroup.DELETE("", cartHandler.ClearCart)
			cartGroup.POST("/items", cartHandler.AddToCart)
			cartGroup.PUT("/items/:productId", cartHandler.UpdateQuantity)
			cartGroup.DELETE("/items/:productId", cartHandler.RemoveItem)
		}

		builderGroup := session.Group("/builder")
		{
			builderGroup.GET("", builderHandler.GetState)
			builderGroup.DELETE("", builderHandler.Clear)
			builderGroup.GET("/restrictions", builderHandler.GetRestrictions)
			builderGroup.POST("/components", builderHandler.SelectComponent)
			builderGroup.POST("/components/increase", builderHandler.IncreaseQuantity)
			builderGroup.POST("/components/decrease", builderHandler.DecreaseQuantity)
			builderGroup.POST("/commit", builderHandler.Commit)
		}

		checkoutGroup := session.Group("/checkout")
		{
			checkoutGroup.POST("/session", checkoutHandler.CreateSession)
			checkoutGroup.GET("/result", checkoutHandler.HandleReturn)
		}

		ordersGroup := session.Group("/orders")
		{
			ordersGroup.GET("", orderHandler.ListOrders)
			ordersGroup.GET("/:number", orderHandler.GetOrder)
			ordersGroup.GET("/:number/invoice", orderHandler.DownloadInvoice)
		}
	}

	// Webhooks carry their own signature, no session or auth.
	api.POST("/webhooks/payment", checkoutHandler.HandleWebhook)

	// Admin catalog management.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
	{
		admin.POST("/products", adminHandler.CreateProduct)
		admin.PUT("/products/:id", adminHandler.UpdateProduct)
		admin.DELETE("/products/:id", adminHandler.DeleteProduct)
		admin.POST("/categories", adminHandler.CreateCategory)
		admin.PUT("/categories/:id", adminHandler.UpdateCategory)
		admin.DELETE("/categories/:id", adminHandler.DeleteCategory)
	}
}
