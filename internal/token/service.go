package token

import (
	"encoding/hex"
	"fmt"

	"github.com/moonbit0x/Aegis-API/internal/crypto"
	"golang.org/x/crypto/bcrypt"
)

const (
	// SecretByteLength Secret 的原始熵字节数
	SecretByteLength = 16
	// IdentifierLength 标识符的十六进制字符长度
	IdentifierLength = 13
)

// Service 令牌凭证服务
// 负责 Secret/Identifier 的生成以及 Secret 哈希的计算和校验
type Service struct {
	cost int
}

// NewService 创建 Service 实例，使用 bcrypt 默认代价参数
func NewService() *Service {
	return NewServiceWithCost(bcrypt.DefaultCost)
}

// NewServiceWithCost 创建指定 bcrypt 代价参数的 Service 实例
func NewServiceWithCost(cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{cost: cost}
}

// GenerateSecret 生成高熵 Secret
// 取 16 个随机字节，强制 UUID v4 的版本位和变体位后按 8-4-4-4-12 分组渲染，
// 仅作为不透明的 Secret 格式使用
func (s *Service) GenerateSecret() (string, error) {
	bytes, err := crypto.RandomBytes(SecretByteLength)
	if err != nil {
		return "", err
	}

	// 版本位 0100（v4）与变体位 10
	bytes[6] = bytes[6]&0x0f | 0x40
	bytes[8] = bytes[8]&0x3f | 0x80

	return fmt.Sprintf("%s-%s-%s-%s-%s",
		hex.EncodeToString(bytes[0:4]),
		hex.EncodeToString(bytes[4:6]),
		hex.EncodeToString(bytes[6:8]),
		hex.EncodeToString(bytes[8:10]),
		hex.EncodeToString(bytes[10:16]),
	), nil
}

// GenerateIdentifier 生成公开的查找标识符
// 标识符不是机密，仅用作记录查找键
func (s *Service) GenerateIdentifier() (string, error) {
	return crypto.RandomHexString(IdentifierLength)
}

// Hash 计算 Secret 的加盐慢哈希
func (s *Service) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return "", fmt.Errorf("hashing secret: %w", err)
	}
	return string(hash), nil
}

// Check 校验明文 Secret 是否与加盐哈希匹配
// bcrypt 对摘要字节做恒定时间比较，不匹配和哈希格式错误一律返回 false
func (s *Service) Check(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
