package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/moonbit0x/Aegis-API/internal/stats"
)

// RequestCounterMiddleware 请求计数中间件
// 在处理链结束后按认证结论计数，因此应在 TokenGate 之前注册
func RequestCounterMiddleware(counter *stats.RequestCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 先完成整条处理链，网关才有机会发布结论
		c.Next()

		counter.Increment(VerdictFromContext(c).Authenticated)
	}
}
