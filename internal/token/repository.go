package token

import (
	"errors"
	"strings"

	"github.com/moonbit0x/Aegis-API/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrTokenNotFound 令牌不存在
	ErrTokenNotFound = errors.New("token not found")
	// ErrIdentifierExists 标识符已存在
	ErrIdentifierExists = errors.New("token identifier already exists")
)

// Repository 令牌数据访问层
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建 Repository 实例
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create 创建令牌记录
// identifier 的唯一索引冲突会被转换为 ErrIdentifierExists，绝不静默覆盖
func (r *Repository) Create(token *models.Token) error {
	err := r.db.Select("Identifier", "Hash", "Name", "Description", "ValidUntil", "Hidden").
		Create(token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrIdentifierExists
		}
		return err
	}
	return nil
}

// FindByID 根据 ID 查找令牌
func (r *Repository) FindByID(id uint) (*models.Token, error) {
	var token models.Token
	err := r.db.First(&token, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// FindByIdentifier 根据标识符查找令牌
// 已禁用（hidden）的记录对查找不可见
func (r *Repository) FindByIdentifier(identifier string) (*models.Token, error) {
	var token models.Token
	err := r.db.Where("identifier = ? AND hidden = ?", identifier, false).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// FindAll 查找所有令牌
func (r *Repository) FindAll() ([]*models.Token, error) {
	var tokens []*models.Token
	err := r.db.Order("created_at DESC").Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// Hide 软禁用令牌
func (r *Repository) Hide(id uint) error {
	result := r.db.Model(&models.Token{}).Where("id = ?", id).Update("hidden", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// Delete 删除令牌
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&models.Token{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// CheckIdentifierExists 检查标识符是否已存在（包含已禁用的记录）
func (r *Repository) CheckIdentifierExists(identifier string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Token{}).Where("identifier = ?", identifier).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
