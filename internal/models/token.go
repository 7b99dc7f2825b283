package models

import "time"

// Token API 令牌记录
// 只保存 Secret 的 bcrypt 哈希，明文 Secret 仅在签发时返回一次
type Token struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Identifier  string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"identifier"`
	Hash        string    `gorm:"type:varchar(100);not null" json:"-"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ValidUntil  time.Time `gorm:"not null" json:"valid_until"`
	Hidden      bool      `gorm:"default:false;not null" json:"hidden"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Token) TableName() string {
	return "tokens"
}

// IsExpired 判断令牌在给定时间点是否已过期
func (t *Token) IsExpired(now time.Time) bool {
	return t.ValidUntil.Before(now)
}
