package auth

import (
	"fmt"
	"time"
)

const (
	// VerdictKey 请求上下文中发布认证结论使用的固定键名
	VerdictKey = "RestApiAuthenticated"
	// MethodNone 未经过认证流程时的方法哨兵值
	MethodNone = "none"

	// PropertyAuthenticated 结论属性名
	PropertyAuthenticated = "authenticated"
	// PropertyValidUntil 结论属性名
	PropertyValidUntil = "validUntil"
	// PropertyMethod 结论属性名
	PropertyMethod = "method"
)

// Verdict 单次请求的认证结论快照
// 随请求创建、随请求销毁，绝不跨请求共享
type Verdict struct {
	Authenticated bool
	Method        string
	ValidUntil    time.Time
}

// DefaultVerdict 返回未认证的默认结论
// 过期时间为纪元起点哨兵值，恒小于当前时间
func DefaultVerdict() *Verdict {
	return &Verdict{
		Authenticated: false,
		Method:        MethodNone,
		ValidUntil:    time.Unix(0, 0).UTC(),
	}
}

// Property 按名称读取结论属性
// 只允许固定的属性集合，查询其他键是错误
func (v *Verdict) Property(name string) (interface{}, error) {
	switch name {
	case PropertyAuthenticated:
		return v.Authenticated, nil
	case PropertyValidUntil:
		return v.ValidUntil, nil
	case PropertyMethod:
		return v.Method, nil
	default:
		return nil, fmt.Errorf("invalid verdict property %q", name)
	}
}
