package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/moonbit0x/Aegis-API/internal/models"
	"github.com/moonbit0x/Aegis-API/internal/token"
)

const (
	// HeaderNameAuthorization 携带明文 Secret 的请求头（大小写不敏感）
	HeaderNameAuthorization = "application-authorization"
	// HeaderNameIdentifier 携带公开标识符的请求头
	HeaderNameIdentifier = "X-API-IDENTIFIER"
)

// ValidMethods 允许的 HTTP 方法列表
var ValidMethods = []string{
	"DELETE", "GET", "PATCH", "POST", "PUT",
	"UPDATE", "HEAD", "OPTIONS", "TRACE", "CONNECT",
}

// ErrInvalidMethod HTTP 方法不在允许列表内
// 这是调用方集成的编程错误，应当作请求处理失败（500 级别）而非认证失败
var ErrInvalidMethod = errors.New("unsupported http method")

// TokenFinder 按标识符查找令牌记录的最小存储契约
type TokenFinder interface {
	FindByIdentifier(identifier string) (*models.Token, error)
}

// SecretChecker 校验明文 Secret 与加盐哈希的最小凭证契约
type SecretChecker interface {
	Check(secret, hash string) bool
}

// Authentication 单次认证尝试的状态
// 每个请求使用全新实例，不跨请求共享
type Authentication struct {
	finder  TokenFinder
	checker SecretChecker

	identifier    string
	method        string
	record        *models.Token
	authenticated bool
	validUntil    time.Time
}

// NewAuthentication 创建认证实例，方法默认为 GET
func NewAuthentication(finder TokenFinder, checker SecretChecker) *Authentication {
	return &Authentication{
		finder:  finder,
		checker: checker,
		method:  "GET",
	}
}

// WithMethod 设置本次认证关联的 HTTP 方法
// 方法不在允许列表内时返回 ErrInvalidMethod
func (a *Authentication) WithMethod(method string) (*Authentication, error) {
	for _, valid := range ValidMethods {
		if method == valid {
			a.method = method
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidMethod, method)
}

// WithIdentifier 设置标识符并立即加载对应的令牌记录
// 查不到记录不在这里报错，统一推迟到 FromHeader 得出未认证结论
func (a *Authentication) WithIdentifier(identifier string) *Authentication {
	a.identifier = identifier
	record, err := a.finder.FindByIdentifier(identifier)
	if err != nil {
		a.record = nil
		return a
	}
	a.record = record
	return a
}

// ValidateHeaderName 校验认证请求头名称（大小写不敏感）
func (a *Authentication) ValidateHeaderName(name string) bool {
	return strings.ToLower(name) == HeaderNameAuthorization
}

// FromHeader 使用默认认证请求头名称执行校验
func (a *Authentication) FromHeader(secret string) *Authentication {
	return a.FromNamedHeader(secret, HeaderNameAuthorization)
}

// FromNamedHeader 核心校验流程
// 所有失败情形统一落到未认证结论，不泄露具体失败原因；
// 短路顺序: 空 Secret/标识符/头名称 → 记录缺失 → 过期或空哈希 → 哈希校验
func (a *Authentication) FromNamedHeader(secret, name string) *Authentication {
	if secret == "" || a.identifier == "" || !a.ValidateHeaderName(name) {
		a.authenticated = false
		return a
	}

	if a.record == nil {
		a.authenticated = false
		return a
	}

	now := time.Now()
	a.validUntil = a.record.ValidUntil

	if a.validUntil.Before(now) || a.record.Hash == "" {
		a.authenticated = false
		return a
	}

	a.authenticated = a.checker.Check(secret, a.record.Hash)
	return a
}

// IsAuthenticated 返回认证结论
func (a *Authentication) IsAuthenticated() bool {
	return a.authenticated
}

// Method 返回本次认证关联的 HTTP 方法
func (a *Authentication) Method() string {
	return a.method
}

// ValidUntil 返回匹配令牌的过期时间
// 从未认证成功时返回纪元起点哨兵值，保证恒小于当前时间
func (a *Authentication) ValidUntil() time.Time {
	if a.validUntil.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return a.validUntil
}

// Verdict 生成本次认证的结论快照
func (a *Authentication) Verdict() *Verdict {
	return &Verdict{
		Authenticated: a.authenticated,
		Method:        a.method,
		ValidUntil:    a.ValidUntil(),
	}
}

// 编译期检查 token.Repository / token.Service 满足存储与凭证契约
var (
	_ TokenFinder   = (*token.Repository)(nil)
	_ SecretChecker = (*token.Service)(nil)
)
