package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minishop-next/internal/cache"
	"github.com/minishop-next/internal/config"
	adminhandlers "github.com/minishop-next/internal/http/handlers/admin"
	publichandlers "github.com/minishop-next/internal/http/handlers/public"
	"github.com/minishop-next/internal/http/response"
	"github.com/minishop-next/internal/logger"
	"github.com/minishop-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "minishop"
	}
	redisClient := cache.Client()
	loginRule := func(name string) RateLimitRule {
		return RateLimitRule{
			Prefix:        fmt.Sprintf("%s:rate:%s", redisPrefix, name),
			WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
			MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
			MessageKey:    "error.login_too_many",
		}
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", healthHandler(c))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/search", publicHandler.SearchProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/captcha", publicHandler.GetImageCaptcha)
		}

		auth := apiV1.Group("/auth")
		{
			auth.POST("/signup", publicHandler.UserSignup)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule("login"), KeyByIPAndJSONField("email")), publicHandler.UserLogin)
			auth.POST("/forgot-password", RateLimitMiddleware(redisClient, loginRule("forgot"), KeyByIPAndJSONField("email")), publicHandler.ForgotPassword)
			auth.POST("/reset-password", publicHandler.ResetPassword)
		}

		// 登录用户接口
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.POST("/auth/logout", publicHandler.UserLogout)

			user.GET("/cart", publicHandler.GetCart)
			user.DELETE("/cart", publicHandler.ClearCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PUT("/cart/items/:product_id", publicHandler.UpdateCartItem)
			user.DELETE("/cart/items/:product_id", publicHandler.DeleteCartItem)

			user.POST("/orders", publicHandler.Checkout)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.GET("/orders/:id/invoice", publicHandler.GetOrderInvoice)

			seller := user.Group("/seller/products")
			{
				seller.GET("", publicHandler.ListSellerProducts)
				seller.POST("", publicHandler.CreateSellerProduct)
				seller.GET("/count", publicHandler.CountSellerProducts)
				seller.POST("/import", publicHandler.ImportSellerProducts)
				seller.GET("/export", publicHandler.ExportSellerProducts)
				seller.GET("/:id", publicHandler.GetSellerProduct)
				seller.PUT("/:id", publicHandler.UpdateSellerProduct)
				seller.DELETE("/:id", publicHandler.DeleteSellerProduct)
			}
		}

		// 管理端接口
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule("admin_login"), KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			authed := admin.Group("")
			authed.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authed.GET("/me", adminHandler.GetCurrentAdmin)
				authed.PUT("/password", adminHandler.UpdateAdminPassword)
			}

			authorized := authed.Group("")
			authorized.Use(AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/products", adminHandler.ListProducts)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)
				authorized.GET("/orders", adminHandler.ListOrders)
				authorized.GET("/orders/:id", adminHandler.GetOrder)
				authorized.GET("/orders/:id/invoice", adminHandler.GetOrderInvoice)
				authorized.GET("/authz/roles", adminHandler.ListRoles)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAdminRoles)
			}
		}
	}

	return r
}

// healthHandler 检查数据库与 Redis 连通性
func healthHandler(c *provider.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := gin.H{"database": "ok", "redis": "disabled"}
		healthy := true
		if c.DB == nil {
			status["database"] = "unavailable"
			healthy = false
		} else if sqlDB, err := c.DB.DB(); err != nil || sqlDB.PingContext(ctx.Request.Context()) != nil {
			status["database"] = "unavailable"
			healthy = false
		}
		if cache.Enabled() {
			pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
			defer cancel()
			if err := cache.Ping(pingCtx); err != nil {
				status["redis"] = "unavailable"
				healthy = false
			} else {
				status["redis"] = "ok"
			}
		}
		if !healthy {
			response.ErrorWithData(ctx, response.CodeUnavailable, "unhealthy", status)
			return
		}
		response.Success(ctx, status)
	}
}
