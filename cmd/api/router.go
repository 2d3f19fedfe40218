package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/shared/middleware"
	"storefront-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCartRoutes(v1, c)
		setupCheckoutRoutes(v1, c)
		setupShippingRoutes(v1, c)
		setupOrderRoutes(v1, c)
		setupAdminOrderRoutes(v1, c)
		setupWebhookRoutes(v1, c)
	}

	return router
}

// ========================================
// CART ROUTES
// ========================================
func setupCartRoutes(v1 *gin.RouterGroup, c *container.Container) {
	cart := v1.Group("/cart")
	cart.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		cart.GET("", c.CartHandler.GetCart)
		cart.POST("/items", c.CartHandler.AddLine)
		cart.DELETE("", c.CartHandler.Clear)
	}
}

// ========================================
// CHECKOUT ROUTES
// ========================================
func setupCheckoutRoutes(v1 *gin.RouterGroup, c *container.Container) {
	checkout := v1.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		checkout.GET("/total", c.OrderHandler.PreviewTotal)
		checkout.POST("/coupon", c.OrderHandler.ApplyCoupon)
		checkout.DELETE("/coupon", c.OrderHandler.RemoveCoupon)
		checkout.PUT("/shipping", c.OrderHandler.SelectShipping)
		checkout.POST("/orders", c.OrderHandler.PlaceOrder)
	}
}

// ========================================
// SHIPPING ROUTES
// ========================================
func setupShippingRoutes(v1 *gin.RouterGroup, c *container.Container) {
	shipping := v1.Group("/shipping")
	{
		shipping.GET("/methods", c.ShippingHandler.ListMethods)
	}
}

// ========================================
// ORDER ROUTES
// ========================================
func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	orders := v1.Group("/orders")
	orders.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		orders.GET("/:number", c.OrderHandler.GetOrder)
	}
}

// ========================================
// ADMIN ORDER ROUTES
// ========================================
func setupAdminOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin/orders")
	admin.Use(middleware.AuthMiddleware(c.Config.JWT.Secret), middleware.AdminMiddleware())
	{
		admin.PATCH("/:id/status", c.OrderHandler.AdvanceStatus)
	}
}

// ========================================
// WEBHOOK ROUTES
// ========================================
func setupWebhookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	webhooks := v1.Group("/webhooks")
	{
		webhooks.POST("/payment", c.OrderHandler.PaymentWebhook)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		dbStatus := "ok"
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			dbStatus = "down"
		}

		cacheStatus := "ok"
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			cacheStatus = "down"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":   dbStatus,
			"version":  c.Config.App.Version,
			"database": dbStatus,
			"cache":    cacheStatus,
		})
	}
}
