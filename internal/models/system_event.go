package models

import "time"

// SystemEvent 系统事件日志
// 用于记录令牌生命周期的重要事件，如签发、禁用、删除等
type SystemEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"type:varchar(50);not null;index" json:"type"` // token_issued, token_hidden, etc.
	Message   string    `gorm:"type:text;not null" json:"message"`
	Level     string    `gorm:"type:varchar(20);not null;default:'info'" json:"level"` // info, warning, error
	Metadata  string    `gorm:"type:json" json:"metadata,omitempty"`                   // 额外的元数据（JSON 格式）
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (SystemEvent) TableName() string {
	return "system_events"
}

// EventType 事件类型常量
const (
	EventTypeTokenIssued  = "token_issued"  // 令牌签发
	EventTypeTokenHidden  = "token_hidden"  // 令牌禁用
	EventTypeTokenDeleted = "token_deleted" // 令牌删除
	EventTypeAuthRejected = "auth_rejected" // 认证被拒绝
)

// EventLevel 事件级别常量
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)
