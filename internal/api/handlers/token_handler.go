package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/moonbit0x/Aegis-API/internal/events"
	"github.com/moonbit0x/Aegis-API/internal/models"
	"github.com/moonbit0x/Aegis-API/internal/token"
)

// TokenHandler 令牌管理 HTTP 处理器
type TokenHandler struct {
	issuer       *token.Issuer
	repo         *token.Repository
	eventService *events.Service
}

// NewTokenHandler 创建 TokenHandler 实例
func NewTokenHandler(issuer *token.Issuer, repo *token.Repository, eventService *events.Service) *TokenHandler {
	return &TokenHandler{
		issuer:       issuer,
		repo:         repo,
		eventService: eventService,
	}
}

// CreateToken 签发令牌
// @Summary 签发令牌
// @Tags tokens
// @Accept json
// @Produce json
// @Param token body token.CreateTokenRequest true "令牌信息"
// @Success 201 {object} token.TokenDTO
// @Failure 400 {object} ErrorResponse
// @Router /api/tokens [post]
func (h *TokenHandler) CreateToken(c *gin.Context) {
	var req token.CreateTokenRequest

	// 绑定请求体
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request parameters",
				"details": err.Error(),
			},
		})
		return
	}

	// 签发审计事件由 Issuer 记录，HTTP 与 CLI 路径共用同一处留痕
	issued, err := h.issuer.Issue(req.Name, req.Description)
	if err != nil {
		h.handleTokenError(c, err)
		return
	}

	// 返回响应（包含完整 Identifier 和 Secret，仅此一次）
	c.JSON(http.StatusCreated, token.ToIssuedTokenDTO(issued))
}

// ListTokens 获取令牌列表
// @Summary 获取令牌列表
// @Tags tokens
// @Produce json
// @Success 200 {array} token.TokenDTO
// @Router /api/tokens [get]
func (h *TokenHandler) ListTokens(c *gin.Context) {
	tokens, err := h.repo.FindAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to retrieve tokens",
			},
		})
		return
	}

	// 转换为 DTO（标识符脱敏，不含 Secret 和哈希）
	dtos := make([]*token.TokenDTO, len(tokens))
	for i, tok := range tokens {
		dtos[i] = token.ToTokenDTO(tok)
	}

	c.JSON(http.StatusOK, dtos)
}

// GetToken 获取单个令牌元数据
// @Summary 获取单个令牌详情
// @Tags tokens
// @Produce json
// @Param id path int true "令牌 ID"
// @Success 200 {object} token.TokenDTO
// @Failure 404 {object} ErrorResponse
// @Router /api/tokens/{id} [get]
func (h *TokenHandler) GetToken(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	tok, err := h.repo.FindByID(id)
	if err != nil {
		h.handleTokenError(c, err)
		return
	}

	c.JSON(http.StatusOK, token.ToTokenDTO(tok))
}

// HideToken 软禁用令牌
// @Summary 软禁用令牌
// @Tags tokens
// @Param id path int true "令牌 ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Router /api/tokens/{id}/hide [post]
func (h *TokenHandler) HideToken(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.repo.Hide(id); err != nil {
		h.handleTokenError(c, err)
		return
	}

	h.logEventByID(models.EventTypeTokenHidden, "token hidden", id)

	c.Status(http.StatusNoContent)
}

// DeleteToken 删除令牌
// @Summary 删除令牌
// @Tags tokens
// @Param id path int true "令牌 ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Router /api/tokens/{id} [delete]
func (h *TokenHandler) DeleteToken(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(id); err != nil {
		h.handleTokenError(c, err)
		return
	}

	h.logEventByID(models.EventTypeTokenDeleted, "token deleted", id)

	c.Status(http.StatusNoContent)
}

// parseID 解析路径中的令牌 ID
func (h *TokenHandler) parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid token ID",
			},
		})
		return 0, false
	}
	return uint(id), true
}

// handleTokenError 处理令牌相关错误
func (h *TokenHandler) handleTokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, token.ErrInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_NAME",
				"message": "Token name must not be empty",
			},
		})
	case errors.Is(err, token.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "TOKEN_NOT_FOUND",
				"message": "Token not found",
			},
		})
	case errors.Is(err, token.ErrIdentifierExists):
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{
				"code":    "IDENTIFIER_CONFLICT",
				"message": "Token identifier already exists",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to process token operation",
			},
		})
	}
}

// logEventByID 按 ID 记录审计事件，失败只打日志不阻断主流程
func (h *TokenHandler) logEventByID(eventType, message string, id uint) {
	if h.eventService == nil {
		return
	}
	err := h.eventService.LogInfo(eventType, message, map[string]interface{}{"id": id})
	if err != nil {
		log.Printf("⚠️ 审计事件写入失败: %v", err)
	}
}
