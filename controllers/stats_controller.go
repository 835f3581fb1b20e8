package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mayank2130/user-leagues/models"
	"github.com/mayank2130/user-leagues/scoring"
	"github.com/mayank2130/user-leagues/utils"
)

// StatsController serves the admin dashboard counters.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new controller instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// Overview returns community-wide activity counters: member total,
// message total, points awarded today and members active today.
func (s *StatsController) Overview(ctx *gin.Context) {
	communityID, ok := getCommunityID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "unauthorized")
		return
	}
	midnight := scoring.Midnight(time.Now())

	var memberCount int64
	if err := s.db.Model(&models.Member{}).
		Where("community_id = ?", communityID).
		Count(&memberCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to load stats")
		return
	}

	var messageCount int64
	if err := s.db.Model(&models.Message{}).
		Joins("JOIN tiers ON tiers.id = messages.tier_id").
		Joins("JOIN leagues ON leagues.id = tiers.league_id").
		Where("leagues.community_id = ?", communityID).
		Count(&messageCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to load stats")
		return
	}

	var pointsToday int64
	if err := s.db.Model(&models.ScoreHistory{}).
		Joins("JOIN members ON members.id = score_histories.member_id").
		Where("members.community_id = ? AND score_histories.created_at >= ?", communityID, midnight).
		Select("COALESCE(SUM(score_histories.points), 0)").
		Scan(&pointsToday).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to load stats")
		return
	}

	var activeToday int64
	if err := s.db.Model(&models.Member{}).
		Where("community_id = ? AND last_active >= ?", communityID, midnight).
		Count(&activeToday).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to load stats")
		return
	}

	utils.Success(ctx, gin.H{
		"members":      memberCount,
		"messages":     messageCount,
		"points_today": pointsToday,
		"active_today": activeToday,
		"generated_at": time.Now(),
	})
}

// Leaderboard returns the community's members ranked by total score.
func (s *StatsController) Leaderboard(ctx *gin.Context) {
	communityID, ok := getCommunityID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "unauthorized")
		return
	}
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	var members []models.Member
	if err := s.db.Where("community_id = ?", communityID).
		Preload("CurrentTier").
		Order("total_score DESC, id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&members).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to load leaderboard")
		return
	}

	var total int64
	s.db.Model(&models.Member{}).Where("community_id = ?", communityID).Count(&total)

	utils.Success(ctx, gin.H{
		"members": members,
		"page":    page,
		"size":    pageSize,
		"total":   total,
	})
}
