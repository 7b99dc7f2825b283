package token

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/moonbit0x/Aegis-API/internal/events"
	"github.com/moonbit0x/Aegis-API/internal/models"
)

// maxIdentifierRetries 标识符碰撞时的最大重试次数
const maxIdentifierRetries = 5

var (
	// ErrInvalidName 令牌名称为空
	ErrInvalidName = errors.New("token name must not be empty")
)

// Issuer 令牌签发器
// 组合凭证服务与存储层，构建并持久化新的令牌记录
// 审计事件在签发器内记录，保证 HTTP 与 CLI 两条签发路径都留痕
type Issuer struct {
	service      *Service
	repo         *Repository
	eventService *events.Service
}

// NewIssuer 创建 Issuer 实例
// eventService 为 nil 时跳过审计记录
func NewIssuer(service *Service, repo *Repository, eventService *events.Service) *Issuer {
	return &Issuer{service: service, repo: repo, eventService: eventService}
}

// IssuedToken 签发结果
// Secret 只在签发时返回这一次，之后无法再取回
type IssuedToken struct {
	Record *models.Token
	Secret string
}

// Issue 签发新令牌
// 生成 Secret 和 Identifier，计算哈希，有效期为当前时间起一年
func (i *Issuer) Issue(name, description string) (*IssuedToken, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	secret, err := i.service.GenerateSecret()
	if err != nil {
		// 熵源失败是致命错误，不重试
		return nil, err
	}

	hash, err := i.service.Hash(secret)
	if err != nil {
		return nil, err
	}

	identifier, err := i.generateUniqueIdentifier()
	if err != nil {
		return nil, err
	}

	record := &models.Token{
		Identifier:  identifier,
		Hash:        hash,
		Name:        name,
		Description: description,
		ValidUntil:  time.Now().AddDate(1, 0, 0),
	}

	if err := i.repo.Create(record); err != nil {
		return nil, err
	}

	i.logIssued(record)

	return &IssuedToken{Record: record, Secret: secret}, nil
}

// logIssued 记录签发审计事件，写入失败不阻断签发流程
func (i *Issuer) logIssued(record *models.Token) {
	if i.eventService == nil {
		return
	}
	err := i.eventService.LogInfo(models.EventTypeTokenIssued, "token issued", map[string]interface{}{
		"id":         record.ID,
		"identifier": MaskIdentifier(record.Identifier),
		"name":       record.Name,
	})
	if err != nil {
		log.Printf("⚠️ 审计事件写入失败: %v", err)
	}
}

// generateUniqueIdentifier 生成未被占用的标识符
// 13 位十六进制的碰撞概率极低，命中时重新生成
func (i *Issuer) generateUniqueIdentifier() (string, error) {
	for attempt := 0; attempt < maxIdentifierRetries; attempt++ {
		identifier, err := i.service.GenerateIdentifier()
		if err != nil {
			return "", err
		}

		exists, err := i.repo.CheckIdentifierExists(identifier)
		if err != nil {
			return "", err
		}
		if !exists {
			return identifier, nil
		}
	}
	return "", ErrIdentifierExists
}
