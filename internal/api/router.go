package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theophile-senechal/unlock-app/internal/auth"
	"github.com/theophile-senechal/unlock-app/internal/config"
	"github.com/theophile-senechal/unlock-app/internal/handler"
	"github.com/theophile-senechal/unlock-app/internal/metrics"
	"github.com/theophile-senechal/unlock-app/internal/middleware"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, sessions *auth.Manager, authHandler *handler.AuthHandler, territory *handler.TerritoryHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Territory Conquest API is running",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// OAuth 登录流程
	r.GET("/auth", authHandler.Login)
	r.GET("/callback", authHandler.Callback)
	r.GET("/logout", authHandler.Logout)

	// API 路由组
	api := r.Group("/api")
	api.Use(sessions.Middleware())
	api.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateWindow))
	{
		api.GET("/stats_history", territory.GetStatsHistory)
		api.GET("/activities", territory.GetActivities)
	}

	return r
}
