package token

import (
	"time"

	"github.com/moonbit0x/Aegis-API/internal/models"
)

// CreateTokenRequest 签发令牌请求
type CreateTokenRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

// TokenDTO 令牌数据传输对象
// Secret 仅在签发响应中出现一次，哈希永远不对外暴露
type TokenDTO struct {
	ID                uint      `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Identifier        string    `json:"identifier,omitempty"` // 仅在签发时返回
	IdentifierDisplay string    `json:"identifier_display"`   // 脱敏显示
	Secret            string    `json:"secret,omitempty"`     // 仅在签发时返回
	Hidden            bool      `json:"hidden"`
	ValidUntil        time.Time `json:"valid_until"`
	CreatedAt         time.Time `json:"created_at"`
}

// ToTokenDTO 将令牌模型转换为 DTO
func ToTokenDTO(token *models.Token) *TokenDTO {
	return &TokenDTO{
		ID:                token.ID,
		Name:              token.Name,
		Description:       token.Description,
		IdentifierDisplay: MaskIdentifier(token.Identifier),
		Hidden:            token.Hidden,
		ValidUntil:        token.ValidUntil,
		CreatedAt:         token.CreatedAt,
	}
}

// ToIssuedTokenDTO 将签发结果转换为 DTO（包含完整 Identifier 和 Secret，仅此一次）
func ToIssuedTokenDTO(issued *IssuedToken) *TokenDTO {
	dto := ToTokenDTO(issued.Record)
	dto.Identifier = issued.Record.Identifier
	dto.Secret = issued.Secret
	return dto
}

// MaskIdentifier 脱敏显示标识符
// 格式: ****{最后4位}
func MaskIdentifier(identifier string) string {
	if len(identifier) < 8 {
		return "****"
	}
	return "****" + identifier[len(identifier)-4:]
}
