package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/moonbit0x/Aegis-API/internal/api/handlers"
	"github.com/moonbit0x/Aegis-API/internal/api/middleware"
	"github.com/moonbit0x/Aegis-API/internal/config"
	"github.com/moonbit0x/Aegis-API/internal/events"
	"github.com/moonbit0x/Aegis-API/internal/stats"
	"github.com/moonbit0x/Aegis-API/internal/token"
	"gorm.io/gorm"
)

// SetupRouter 配置路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 创建 Gin 引擎
	router := gin.Default()

	// CORS 配置
	router.Use(cors.Default())

	// 创建依赖
	repo := token.NewRepository(db)
	service := token.NewServiceWithCost(cfg.Auth.BcryptCost)
	eventService := events.NewService(db)
	issuer := token.NewIssuer(service, repo, eventService)
	requestCounter := stats.NewRequestCounter(0)

	// 请求计数在网关之前注册，处理链结束后按认证结论计数
	router.Use(middleware.RequestCounterMiddleware(requestCounter))

	// 认证网关：对配置前缀下的请求执行认证并发布结论，绝不自行拒绝
	router.Use(middleware.TokenGate(repo, service,
		middleware.GateByPathPrefix(cfg.Auth.GatedPathPrefix)))

	// 健康检查端点
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Aegis-API",
		})
	})

	// API 路由组
	apiGroup := router.Group("/api")
	{
		setupTokenRoutes(apiGroup, issuer, repo, eventService)
		setupStatsRoutes(apiGroup, db, requestCounter, eventService)
		setupDemoRoutes(apiGroup)
	}

	return router
}

// setupTokenRoutes 配置令牌管理路由
// 管理接口本身由同一套令牌协议保护，首个令牌通过 tokenctl 签发
func setupTokenRoutes(group *gin.RouterGroup, issuer *token.Issuer, repo *token.Repository, eventService *events.Service) {
	handler := handlers.NewTokenHandler(issuer, repo, eventService)

	tokens := group.Group("/tokens")
	tokens.Use(middleware.RequireAuthenticated(eventService))
	{
		tokens.POST("", handler.CreateToken)
		tokens.GET("", handler.ListTokens)
		tokens.GET("/:id", handler.GetToken)
		tokens.POST("/:id/hide", handler.HideToken)
		tokens.DELETE("/:id", handler.DeleteToken)
	}
}

// setupStatsRoutes 配置统计路由
func setupStatsRoutes(group *gin.RouterGroup, db *gorm.DB, requestCounter *stats.RequestCounter, eventService *events.Service) {
	handler := handlers.NewStatsHandler(db, requestCounter, eventService)

	statsGroup := group.Group("/stats")
	statsGroup.Use(middleware.RequireAuthenticated(eventService))
	{
		statsGroup.GET("", handler.GetStats)
	}
}

// setupDemoRoutes 配置示例路由
// whoami 只读取网关发布的结论，不强制认证，用于客户端自检凭证
func setupDemoRoutes(group *gin.RouterGroup) {
	group.GET("/demo/whoami", func(c *gin.Context) {
		verdict := middleware.VerdictFromContext(c)
		c.JSON(http.StatusOK, gin.H{
			"authenticated": verdict.Authenticated,
			"method":        verdict.Method,
			"valid_until":   verdict.ValidUntil.Format(time.RFC3339),
		})
	})
}
