package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/moonbit0x/Aegis-API/internal/auth"
	"github.com/moonbit0x/Aegis-API/internal/events"
	"github.com/moonbit0x/Aegis-API/internal/models"
)

// GatedFunc 判断请求是否需要认证标注
type GatedFunc func(c *gin.Context) bool

// GateAll 所有请求都需要认证标注
func GateAll(_ *gin.Context) bool {
	return true
}

// GateByPathPrefix 按路径前缀判断是否需要认证标注
func GateByPathPrefix(prefix string) GatedFunc {
	return func(c *gin.Context) bool {
		return strings.HasPrefix(c.Request.URL.Path, prefix)
	}
}

// TokenGate 令牌认证网关中间件
// 只负责标注：执行认证流程并把结论发布到请求上下文，绝不自行拒绝请求；
// 是否拒绝由下游的 RequireAuthenticated 或业务处理器决定
func TokenGate(finder auth.TokenFinder, checker auth.SecretChecker, gated GatedFunc) gin.HandlerFunc {
	if gated == nil {
		gated = GateAll
	}

	return func(c *gin.Context) {
		if !gated(c) {
			c.Next()
			return
		}

		// 每个请求使用全新的认证实例，不共享任何可变状态
		authentication := auth.NewAuthentication(finder, checker)

		if _, err := authentication.WithMethod(c.Request.Method); err != nil {
			// 方法不在允许列表内是集成层的编程错误，按 500 处理而非认证失败
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    "INVALID_METHOD",
					"message": "Request method is not supported by the API",
				},
			})
			c.Abort()
			return
		}

		if identifier := c.GetHeader(auth.HeaderNameIdentifier); identifier != "" {
			authentication.WithIdentifier(identifier)
		}
		if secret := c.GetHeader(auth.HeaderNameAuthorization); secret != "" {
			authentication.FromHeader(secret)
		}

		c.Set(auth.VerdictKey, authentication.Verdict())

		c.Next()
	}
}

// VerdictFromContext 读取网关发布的认证结论
// 网关未标注的请求返回未认证的默认结论
func VerdictFromContext(c *gin.Context) *auth.Verdict {
	value, exists := c.Get(auth.VerdictKey)
	if !exists {
		return auth.DefaultVerdict()
	}
	verdict, ok := value.(*auth.Verdict)
	if !ok {
		return auth.DefaultVerdict()
	}
	return verdict
}

// RequireAuthenticated 下游强制认证中间件
// 查询网关发布的结论，未认证的请求统一返回 403，不区分具体失败原因
// 每次拒绝记录一条 auth_rejected 审计事件，eventService 为 nil 时跳过
func RequireAuthenticated(eventService *events.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		verdict := VerdictFromContext(c)
		if !verdict.Authenticated {
			logRejection(eventService, c)
			c.JSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Access to requested resource is forbidden",
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// logRejection 记录拒绝审计事件，写入失败不阻断响应
func logRejection(eventService *events.Service, c *gin.Context) {
	if eventService == nil {
		return
	}
	err := eventService.LogWarning(models.EventTypeAuthRejected, "request rejected", map[string]interface{}{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	})
	if err != nil {
		log.Printf("⚠️ 审计事件写入失败: %v", err)
	}
}
