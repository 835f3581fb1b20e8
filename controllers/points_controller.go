package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mayank2130/user-leagues/models"
	"github.com/mayank2130/user-leagues/scoring"
	"github.com/mayank2130/user-leagues/utils"
)

// PointsController exposes the scoring engine operations and the
// per-community points configuration.
type PointsController struct {
	db     *gorm.DB
	engine *scoring.Engine
}

// NewPointsController creates a new controller instance.
func NewPointsController(db *gorm.DB) *PointsController {
	return &PointsController{db: db, engine: scoring.NewEngine(db)}
}

// DailyCheckIn records today's check-in for the authenticated member.
func (p *PointsController) DailyCheckIn(ctx *gin.Context) {
	memberID, ok := getMemberID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	res, err := p.engine.RecordDailyCheckIn(memberID)
	if err != nil {
		p.rejectScoring(ctx, err)
		return
	}
	utils.Success(ctx, res)
}

// MessageRead awards points for reading a chat message, at most once
// per message per member.
func (p *PointsController) MessageRead(ctx *gin.Context) {
	memberID, ok := getMemberID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	var req struct {
		MessageID uint `json:"message_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	res, err := p.engine.RecordMessageRead(memberID, req.MessageID)
	if err != nil {
		p.rejectScoring(ctx, err)
		return
	}
	utils.Success(ctx, res)
}

// SessionTime awards the flat session value for a session of at least
// five minutes.
func (p *PointsController) SessionTime(ctx *gin.Context) {
	memberID, ok := getMemberID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	var req struct {
		Minutes int `json:"minutes" binding:"min=0"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	res, err := p.engine.RecordSessionTime(memberID, req.Minutes)
	if err != nil {
		p.rejectScoring(ctx, err)
		return
	}
	utils.Success(ctx, res)
}

// History returns the member's score history, newest first.
func (p *PointsController) History(ctx *gin.Context) {
	memberID, ok := getMemberID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	var entries []models.ScoreHistory
	var total int64
	query := p.db.Model(&models.ScoreHistory{}).Where("member_id = ?", memberID)
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to count history")
		return
	}
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&entries).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load history")
		return
	}

	utils.Success(ctx, gin.H{
		"items": entries,
		"pagination": gin.H{
			"page":      page,
			"page_size": pageSize,
			"total":     total,
		},
	})
}

// GetConfig returns the community's points configuration, creating the
// default row on first access. Admin only.
func (p *PointsController) GetConfig(ctx *gin.Context) {
	communityID, ok := getCommunityID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	cfg, err := scoring.EnsurePointsConfig(p.db, communityID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load points configuration")
		return
	}
	utils.Success(ctx, gin.H{"config": cfg})
}

// UpdateConfig stores admin overrides for the community's point
// values. Admin only.
func (p *PointsController) UpdateConfig(ctx *gin.Context) {
	communityID, ok := getCommunityID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	var req struct {
		DailyCheckIn    int `json:"daily_check_in" binding:"min=0"`
		MessageRead     int `json:"message_read" binding:"min=0"`
		SessionTime5Min int `json:"session_time_5_min" binding:"min=0"`
		Streak7Days     int `json:"streak_7_days" binding:"min=0"`
		Streak14Days    int `json:"streak_14_days" binding:"min=0"`
		Streak30Days    int `json:"streak_30_days" binding:"min=0"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	cfg, err := scoring.UpsertPointsConfig(p.db, models.PointsConfig{
		CommunityID:     communityID,
		DailyCheckIn:    req.DailyCheckIn,
		MessageRead:     req.MessageRead,
		SessionTime5Min: req.SessionTime5Min,
		Streak7Days:     req.Streak7Days,
		Streak14Days:    req.Streak14Days,
		Streak30Days:    req.Streak30Days,
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to update points configuration")
		return
	}
	utils.Success(ctx, gin.H{"config": cfg})
}

// rejectScoring maps engine rejections onto distinct business codes so
// the UI can explain why no points were awarded.
func (p *PointsController) rejectScoring(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, scoring.ErrMemberNotFound):
		utils.Error(ctx, http.StatusNotFound, 40420, "member not found")
	case errors.Is(err, scoring.ErrNoLeagueConfigured):
		utils.Error(ctx, http.StatusConflict, 40920, "no league configured for this community")
	case errors.Is(err, scoring.ErrAlreadyCheckedIn):
		utils.Error(ctx, http.StatusBadRequest, 40030, "already checked in today")
	case errors.Is(err, scoring.ErrAlreadyAwarded):
		utils.Error(ctx, http.StatusBadRequest, 40031, "points already awarded for this message")
	case errors.Is(err, scoring.ErrSessionTooShort):
		utils.Error(ctx, http.StatusBadRequest, 40032, "session must be at least 5 minutes")
	default:
		utils.Sugar.Errorf("scoring operation failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to record points")
	}
}
