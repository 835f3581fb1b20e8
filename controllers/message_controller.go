package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mayank2130/user-leagues/models"
	"github.com/mayank2130/user-leagues/utils"
)

// MessageController serves the tier-gated chat channels. Message lists
// are cached in Redis and invalidated when someone posts or a tier is
// removed, never left to expire silently while a channel is active.
type MessageController struct {
	db *gorm.DB
}

// NewMessageController creates a new controller instance.
func NewMessageController(db *gorm.DB) *MessageController {
	return &MessageController{db: db}
}

const messageListLimit = 50

func messageCachePrefix(tierID uint) string {
	return fmt.Sprintf("cache:tier:%d:messages:", tierID)
}

// ListMessages returns the newest messages in a tier channel. Members
// may only read channels their current tier has unlocked.
func (m *MessageController) ListMessages(ctx *gin.Context) {
	tierID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid tier id")
		return
	}

	tier, ok := m.authorizeTier(ctx, tierID)
	if !ok {
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	if pageSize > messageListLimit {
		pageSize = messageListLimit
	}
	cacheKey := fmt.Sprintf("%spage=%d:size=%d", messageCachePrefix(tier.ID), page, pageSize)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var messages []models.Message
	if err := m.db.Preload("Author", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "whop_id", "community_id")
	}).Where("tier_id = ?", tier.ID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&messages).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load messages")
		return
	}

	payload := utils.JSONResponse{
		Code:    0,
		Message: "success",
		Data:    gin.H{"messages": messages},
	}
	utils.CacheSetJSON(cacheKey, payload, 0)
	ctx.JSON(http.StatusOK, payload)
}

// SendMessage posts into a tier channel. Content is sanitized before
// storage; the channel's cached pages are dropped afterwards.
func (m *MessageController) SendMessage(ctx *gin.Context) {
	tierID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid tier id")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40052, "message cannot be empty")
		return
	}

	tier, ok := m.authorizeTier(ctx, tierID)
	if !ok {
		return
	}
	memberID, _ := getMemberID(ctx)

	message := models.Message{
		TierID:   tier.ID,
		AuthorID: memberID,
		Content:  content,
	}
	if err := m.db.Create(&message).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to send message")
		return
	}
	if err := m.db.Preload("Author", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "whop_id", "community_id")
	}).First(&message, message.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to load message")
		return
	}

	utils.InvalidateByPrefix(messageCachePrefix(tier.ID))
	utils.Success(ctx, gin.H{"message": message})
}

// authorizeTier loads the tier and checks the caller may use its
// channel: admins always, members only when their current tier order
// has reached the channel's order.
func (m *MessageController) authorizeTier(ctx *gin.Context, tierID uint) (*models.Tier, bool) {
	communityID, ok := getCommunityID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40150, "unauthorized")
		return nil, false
	}

	var tier models.Tier
	err := m.db.Joins("JOIN leagues ON leagues.id = tiers.league_id").
		Where("tiers.id = ? AND leagues.community_id = ?", tierID, communityID).
		First(&tier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40450, "tier not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to load tier")
		return nil, false
	}

	if isAdmin(ctx) {
		return &tier, true
	}

	memberID, _ := getMemberID(ctx)
	var member models.Member
	if err := m.db.Preload("CurrentTier").First(&member, memberID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to load member")
		return nil, false
	}
	if member.CurrentTier == nil || member.CurrentTier.Order < tier.Order {
		utils.Error(ctx, http.StatusForbidden, 40350, "tier not unlocked yet")
		return nil, false
	}
	return &tier, true
}
