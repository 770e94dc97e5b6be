package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"berrymarket/internal/app/marketplace/entity"
	"berrymarket/pkg/logger"
	"berrymarket/pkg/metrics"
)

// SetupRoutes собирает gin роутер со всеми маршрутами сервиса
func SetupRoutes(
	categoryHandler *CategoryHandler,
	productHandler *ProductHandler,
	reviewHandler *ReviewHandler,
	authHandler *AuthHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("marketplace"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300 * time.Second,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "marketplace",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authHandler.Me)
	}

	// Категории доступны без аутентификации
	categories := router.Group("/categories")
	{
		categories.GET("", categoryHandler.GetAllCategories)
		categories.POST("", categoryHandler.CreateCategory)
		categories.PUT("/:id", categoryHandler.UpdateCategory)
		categories.DELETE("/:id", categoryHandler.DeleteCategory)
	}

	products := router.Group("/products")
	{
		products.GET("", productHandler.GetAllProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/category/:category_id", productHandler.GetProductsByCategory)

		sellerOnly := products.Group("")
		sellerOnly.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole(entity.RoleSeller))
		{
			sellerOnly.POST("", productHandler.CreateProduct)
			sellerOnly.PUT("/:id", productHandler.UpdateProduct)
			sellerOnly.DELETE("/:id", productHandler.DeleteProduct)
		}
	}

	reviews := router.Group("/reviews")
	{
		reviews.GET("", reviewHandler.GetAllReviews)
		reviews.GET("/product/:product_id", reviewHandler.GetReviewsByProduct)

		reviews.POST("", authMiddleware.Authenticate(), authMiddleware.RequireRole(entity.RoleBuyer), reviewHandler.CreateReview)
		reviews.DELETE("/:id", authMiddleware.Authenticate(), authMiddleware.RequireRole(entity.RoleAdmin), reviewHandler.DeleteReview)
	}

	return router
}
