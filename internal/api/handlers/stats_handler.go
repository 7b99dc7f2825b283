package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moonbit0x/Aegis-API/internal/events"
	"github.com/moonbit0x/Aegis-API/internal/models"
	"github.com/moonbit0x/Aegis-API/internal/stats"
	"gorm.io/gorm"
)

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatsHandler 统计信息处理器
type StatsHandler struct {
	db             *gorm.DB
	requestCounter *stats.RequestCounter
	eventService   *events.Service
}

// NewStatsHandler 创建统计处理器
func NewStatsHandler(db *gorm.DB, requestCounter *stats.RequestCounter, eventService *events.Service) *StatsHandler {
	return &StatsHandler{
		db:             db,
		requestCounter: requestCounter,
		eventService:   eventService,
	}
}

// SystemStats 系统统计信息响应
type SystemStats struct {
	Tokens       TokenStats         `json:"tokens"`
	Requests     stats.RequestStats `json:"requests"`
	RecentEvents []Event            `json:"recent_events"`
}

// TokenStats 令牌统计
type TokenStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
	Hidden int64 `json:"hidden"`
}

// Event 事件日志
type Event struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Message   string `json:"message"`
}

// GetStats 获取系统统计信息
// @Summary 获取系统统计信息
// @Description 获取系统概览统计数据，包括令牌数量、请求统计、QPS 等
// @Tags Stats
// @Produce json
// @Success 200 {object} SystemStats
// @Router /api/stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	result := SystemStats{
		Requests: h.requestCounter.GetStats(),
	}

	// 令牌统计
	var total, hidden int64
	if err := h.db.Model(&models.Token{}).Count(&total).Error; err == nil {
		result.Tokens.Total = total
	}
	if err := h.db.Model(&models.Token{}).Where("hidden = ?", true).Count(&hidden).Error; err == nil {
		result.Tokens.Hidden = hidden
	}
	result.Tokens.Active = result.Tokens.Total - result.Tokens.Hidden

	// 最近事件
	if h.eventService != nil {
		if recent, err := h.eventService.GetRecentEvents(10); err == nil {
			result.RecentEvents = make([]Event, len(recent))
			for i, event := range recent {
				result.RecentEvents[i] = Event{
					Timestamp: event.CreatedAt.Format("2006-01-02 15:04:05"),
					Type:      event.Type,
					Message:   event.Message,
				}
			}
		}
	}

	c.JSON(http.StatusOK, result)
}
