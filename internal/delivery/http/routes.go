package http

import (
	"github.com/gin-gonic/gin"
	"github.com/giftguide/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.POST("/cards/extract", handler.ExtractCards)

		modals := v1.Group("/modals")
		{
			modals.POST("", handler.CreateModal)
			modals.GET("/:id", handler.GetModal)
			modals.DELETE("/:id", handler.DeleteModal)
			modals.POST("/:id/open", handler.OpenModal)
			modals.POST("/:id/events", handler.DispatchEvent)
			modals.POST("/:id/submit", handler.SubmitModal)
		}

		v1.GET("/events/cart", handler.CartEvents)
	}

	return router
}
