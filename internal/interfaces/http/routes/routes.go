// internal/interfaces/http/routes/routes.go
package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/tapecar-backend/internal/config"
	"github.com/your-org/tapecar-backend/internal/domain/cart"
	"github.com/your-org/tapecar-backend/internal/domain/catalog"
	"github.com/your-org/tapecar-backend/internal/domain/checkout"
	"github.com/your-org/tapecar-backend/internal/domain/freight"
	"github.com/your-org/tapecar-backend/internal/domain/order"
	"github.com/your-org/tapecar-backend/internal/domain/payment"
	"github.com/your-org/tapecar-backend/internal/domain/upload"
	"github.com/your-org/tapecar-backend/internal/interfaces/http/handlers"
	"github.com/your-org/tapecar-backend/internal/interfaces/http/middleware"
	"github.com/your-org/tapecar-backend/internal/pkg/email"
	"github.com/your-org/tapecar-backend/internal/pkg/pdf"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRoutes wires every service and mounts the public, webhook and
// admin route groups.
func SetupRoutes(rg *gin.RouterGroup, db *mongo.Database, redisClient *redis.Client, cfg *config.Config) {
	logger := newLogger(cfg)

	// Domain services
	catalogService := catalog.NewService(
		catalog.NewRepository(db.Collection("products")),
		catalog.NewRedisCache(redisClient, 15*time.Minute),
		logger,
	)
	cartService := cart.NewService(
		cart.NewRedisStorage(redisClient, cfg.Cart.TTL),
		catalogService,
	)
	freightService := freight.NewQuoteService(cfg, logger)
	orderService := order.NewService(
		order.NewRepository(db.Collection("orders")),
		logger,
	)
	paymentClient := payment.NewClient(&cfg.External.Payment, cfg.App.PublicURL)
	checkoutService := checkout.NewService(cartService, freightService, paymentClient, orderService, logger)
	uploadService := upload.NewService(cfg)
	emailService := email.NewEmailService(cfg, logger)
	pdfService := pdf.NewService(cfg)

	// Handlers
	productHandler := handlers.NewProductHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	webhookHandler := handlers.NewWebhookHandler(
		payment.NewWebhookVerifier(cfg.External.Payment.WebhookSecret),
		orderService,
		emailService,
		logger,
	)
	adminAuthHandler := handlers.NewAdminAuthHandler(cfg, logger)
	adminProductHandler := handlers.NewAdminProductHandler(catalogService)
	adminOrderHandler := handlers.NewAdminOrderHandler(orderService, pdfService)
	uploadHandler := handlers.NewUploadHandler(uploadService)

	// Public storefront
	products := rg.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
	}

	cartGroup := rg.Group("/cart")
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PUT("/items/:productId", cartHandler.UpdateCartItem)
		cartGroup.DELETE("/items/:productId", cartHandler.RemoveFromCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
	}

	checkoutGroup := rg.Group("/checkout")
	{
		checkoutGroup.POST("/freight", checkoutHandler.QuoteFreight)
		checkoutGroup.POST("", checkoutHandler.Submit)
	}

	// Provider callbacks
	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/payment", webhookHandler.HandlePaymentWebhook)
	}

	// Admin panel
	admin := rg.Group("/admin")
	{
		admin.POST("/login", adminAuthHandler.Login)

		gated := admin.Group("")
		gated.Use(middleware.AdminSessionMiddleware(cfg))
		{
			gated.POST("/logout", adminAuthHandler.Logout)

			adminProducts := gated.Group("/products")
			{
				adminProducts.GET("", adminProductHandler.ListProducts)
				adminProducts.GET("/:id", adminProductHandler.GetProduct)
				adminProducts.POST("", adminProductHandler.CreateProduct)
				adminProducts.PUT("/:id", adminProductHandler.UpdateProduct)
				adminProducts.DELETE("/:id", adminProductHandler.DeleteProduct)
			}

			adminOrders := gated.Group("/orders")
			{
				adminOrders.GET("", adminOrderHandler.ListOrders)
				adminOrders.GET("/:number", adminOrderHandler.GetOrder)
				adminOrders.PUT("/:number/status", adminOrderHandler.UpdateOrderStatus)
				adminOrders.GET("/:number/invoice", adminOrderHandler.DownloadInvoice)
			}

			gated.POST("/uploads", uploadHandler.UploadImage)
		}
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
