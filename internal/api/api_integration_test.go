package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/moonbit0x/Aegis-API/internal/auth"
	"github.com/moonbit0x/Aegis-API/internal/config"
	"github.com/moonbit0x/Aegis-API/internal/events"
	"github.com/moonbit0x/Aegis-API/internal/models"
	"github.com/moonbit0x/Aegis-API/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupIntegrationEnv 创建完整路由的测试环境并预签发一个令牌
func setupIntegrationEnv(t *testing.T) (*gin.Engine, *token.IssuedToken, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Token{}, &models.SystemEvent{}))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			BcryptCost:      bcrypt.MinCost,
			GatedPathPrefix: "/api",
		},
	}

	router := SetupRouter(db, cfg)

	// 首个令牌直接通过签发器创建（对应 tokenctl 的引导流程）
	service := token.NewServiceWithCost(bcrypt.MinCost)
	issuer := token.NewIssuer(service, token.NewRepository(db), events.NewService(db))
	issued, err := issuer.Issue("bootstrap", "integration test token")
	require.NoError(t, err)

	return router, issued, db
}

// authedRequest 构造带认证头的请求
func authedRequest(method, path string, body []byte, issued *token.IssuedToken) *http.Request {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	req.Header.Set(auth.HeaderNameIdentifier, issued.Record.Identifier)
	req.Header.Set(auth.HeaderNameAuthorization, issued.Secret)
	return req
}

// TestIntegration_HealthIsPublic 测试健康检查无需认证
func TestIntegration_HealthIsPublic(t *testing.T) {
	router, _, _ := setupIntegrationEnv(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}

// TestIntegration_WhoamiReflectsVerdict 测试 whoami 反映认证结论
func TestIntegration_WhoamiReflectsVerdict(t *testing.T) {
	router, issued, _ := setupIntegrationEnv(t)

	// 无凭证：标注为未认证但不拒绝
	req, _ := http.NewRequest("GET", "/api/demo/whoami", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var anonymous map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &anonymous))
	assert.Equal(t, false, anonymous["authenticated"])
	// 网关已标注方法，未认证只体现在 authenticated 字段上
	assert.Equal(t, "GET", anonymous["method"])

	// 有效凭证：认证通过
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest("GET", "/api/demo/whoami", nil, issued))

	require.Equal(t, http.StatusOK, resp.Code)
	var authenticated map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &authenticated))
	assert.Equal(t, true, authenticated["authenticated"])
	assert.Equal(t, "GET", authenticated["method"])
}

// TestIntegration_AdminRequiresAuth 测试管理接口的强制认证
func TestIntegration_AdminRequiresAuth(t *testing.T) {
	router, issued, _ := setupIntegrationEnv(t)

	// 未认证：403，响应不泄露失败原因
	req, _ := http.NewRequest("GET", "/api/tokens", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// 已认证：列表可用
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest("GET", "/api/tokens", nil, issued))
	assert.Equal(t, http.StatusOK, resp.Code)
}

// TestIntegration_IssueThenAuthenticate 测试通过管理接口签发的令牌立即可用
func TestIntegration_IssueThenAuthenticate(t *testing.T) {
	router, issued, _ := setupIntegrationEnv(t)

	body, _ := json.Marshal(gin.H{"name": "svc-new"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest("POST", "/api/tokens", body, issued))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var dto token.TokenDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dto))
	require.NotEmpty(t, dto.Identifier)
	require.NotEmpty(t, dto.Secret)

	// 新令牌立即可用于认证
	req, _ := http.NewRequest("GET", "/api/demo/whoami", nil)
	req.Header.Set(auth.HeaderNameIdentifier, dto.Identifier)
	req.Header.Set(auth.HeaderNameAuthorization, dto.Secret)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Equal(t, true, result["authenticated"])
}

// TestIntegration_WrongSecretRejected 测试错误 Secret 在完整链路中被拒绝
func TestIntegration_WrongSecretRejected(t *testing.T) {
	router, issued, _ := setupIntegrationEnv(t)

	req, _ := http.NewRequest("GET", "/api/tokens", nil)
	req.Header.Set(auth.HeaderNameIdentifier, issued.Record.Identifier)
	req.Header.Set(auth.HeaderNameAuthorization, "00000000-0000-4000-8000-000000000000")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

// TestIntegration_RejectionIsAudited 测试被拒绝的请求在完整链路中留下审计事件
func TestIntegration_RejectionIsAudited(t *testing.T) {
	router, _, db := setupIntegrationEnv(t)

	req, _ := http.NewRequest("GET", "/api/tokens", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusForbidden, resp.Code)

	var rejected []models.SystemEvent
	require.NoError(t, db.Where("type = ?", models.EventTypeAuthRejected).Find(&rejected).Error)
	require.Len(t, rejected, 1)
	assert.Equal(t, models.EventLevelWarning, rejected[0].Level)
	assert.Contains(t, rejected[0].Metadata, "/api/tokens")
}
