package server

import (
	"corelinks/internal/handler"
	"corelinks/internal/handler/response"

	"corelinks/pkg/monitor"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewHTTPRouter 初始化并返回一个 Gin Engine
func NewHTTPRouter(actions *handler.ActionHandler) *gin.Engine {
	// 0. 初始化监控指标
	monitor.Init()

	// 1. 创建 Engine (使用默认中间件: Logger, Recovery)
	r := gin.Default()

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware()) // 监控埋点

	// 3. 注册基础路由
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler())) // 暴露给 Prometheus
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 4. 注册 API 路由组
	api := r.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			response.Success(c, gin.H{"pong": true})
		})

		api.POST("/actions", actions.Create)
		api.GET("/actions/:short_id", actions.Resolve)
		api.GET("/actions/:short_id/metadata", actions.Metadata)
		api.POST("/actions/:short_id/transaction", actions.BuildTransaction)
	}

	return r
}
