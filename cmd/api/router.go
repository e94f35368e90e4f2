package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gamestore-backend/internal/shared/middleware"
	"gamestore-backend/internal/shared/response"
	"gamestore-backend/pkg/container"
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

		setupCheckoutRoutes(v1, c)
		setupCouponRoutes(v1, c)
		setupOrderRoutes(v1, c)
		setupAdminCouponRoutes(v1, c)
	}

	return router
}

// ========================================
// CHECKOUT ROUTES
// ========================================
func setupCheckoutRoutes(v1 *gin.RouterGroup, c *container.Container) {
	checkout := v1.Group("/checkout")
	checkout.Use(middleware.Auth(c.JWTManager))
	{
		checkout.POST("", c.CheckoutHandler.CreateSession)
		checkout.PUT("/:id/pay", c.CheckoutHandler.MarkPaid)
		checkout.POST("/:id/finalize", c.CheckoutHandler.Finalize)
	}
}

// ========================================
// COUPON ROUTES (PUBLIC)
// ========================================
func setupCouponRoutes(v1 *gin.RouterGroup, c *container.Container) {
	coupons := v1.Group("/coupons")
	coupons.Use(middleware.Auth(c.JWTManager))
	{
		coupons.POST("/validate", c.CouponPublicHandler.ValidateCoupon)
	}
}

// ========================================
// ORDER ROUTES
// ========================================
func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	orders := v1.Group("/orders")
	orders.Use(middleware.Auth(c.JWTManager))
	{
		orders.GET("", c.OrderHandler.ListOrders)
		orders.GET("/:id", c.OrderHandler.GetOrder)
	}
}

// ========================================
// ADMIN COUPON ROUTES
// ========================================
func setupAdminCouponRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin/coupons")
	admin.Use(middleware.Auth(c.JWTManager), middleware.RequireAdmin())
	{
		admin.POST("", c.CouponAdminHandler.CreateCoupon)
		admin.GET("", c.CouponAdminHandler.ListCoupons)
		admin.GET("/:id", c.CouponAdminHandler.GetCoupon)
		admin.PUT("/:id", c.CouponAdminHandler.UpdateCoupon)
		admin.DELETE("/:id", c.CouponAdminHandler.DeleteCoupon)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "up"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			dbStatus = "down"
		}

		redisStatus := "up"
		if err := c.Cache.Ping(checkCtx); err != nil {
			redisStatus = "down"
		}

		status := http.StatusOK
		if dbStatus == "down" {
			status = http.StatusServiceUnavailable
		}

		response.Success(ctx, status, "WELCOME TO GAMESTORE API!", gin.H{
			"version":  c.Config.App.Version,
			"database": dbStatus,
			"redis":    redisStatus,
		})
	}
}
