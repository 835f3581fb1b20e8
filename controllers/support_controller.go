package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mayank2130/user-leagues/models"
	"github.com/mayank2130/user-leagues/utils"
)

// SupportController handles member tickets and feedback plus the admin
// inbox views (unread counts per tier, mark-as-viewed).
type SupportController struct {
	db *gorm.DB
}

// NewSupportController creates a new controller instance.
func NewSupportController(db *gorm.DB) *SupportController {
	return &SupportController{db: db}
}

// CreateTicket files a support ticket for the authenticated member.
func (s *SupportController) CreateTicket(ctx *gin.Context) {
	memberID, ok := getMemberID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "unauthorized")
		return
	}
	communityID, _ := getCommunityID(ctx)

	var req struct {
		TierID      *uint  `json:"tier_id"`
		Category    string `json:"category" binding:"required"`
		Priority    string `json:"priority" binding:"required"`
		Subject     string `json:"subject" binding:"required,min=1,max=255"`
		Description string `json:"description" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}
	if !contains(models.TicketCategories, req.Category) {
		utils.Error(ctx, http.StatusBadRequest, 40061, "invalid ticket category")
		return
	}
	if !contains(models.TicketPriorities, req.Priority) {
		utils.Error(ctx, http.StatusBadRequest, 40062, "invalid ticket priority")
		return
	}

	ticket := models.Ticket{
		MemberID:    memberID,
		CommunityID: communityID,
		TierID:      req.TierID,
		Category:    req.Category,
		Priority:    req.Priority,
		Subject:     utils.Sanitize(strings.TrimSpace(req.Subject)),
		Description: utils.Sanitize(req.Description),
		Status:      models.TicketOpen,
	}
	if err := s.db.Create(&ticket).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to create ticket")
		return
	}
	utils.Success(ctx, gin.H{"ticket": ticket})
}

// ListTickets returns the community's tickets (admin) or only the
// caller's own.
func (s *SupportController) ListTickets(ctx *gin.Context) {
	communityID, ok := getCommunityID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "unauthorized")
		return
	}

	query := s.db.Where("community_id = ?", communityID)
	if isAdmin(ctx) {
		query = query.Preload("Member", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "whop_id", "community_id")
		})
	} else {
		memberID, _ := getMemberID(ctx)
		query = query.Where("member_id = ?", memberID)
	}

	var tickets []models.Ticket
	if err := query.Order("created_at DESC").Find(&tickets).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load tickets")
		return
	}
	utils.Success(ctx, gin.H{"tickets": tickets})
}

// UpdateTicketStatus transitions a ticket through its lifecycle. Sets
// resolved-at when the ticket lands on resolved. Admin only.
func (s *SupportController) UpdateTicketStatus(ctx *gin.Context) {
	ticketID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40063, "invalid ticket id")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40064, "invalid request payload")
		return
	}
	switch req.Status {
	case models.TicketOpen, models.TicketInProgress, models.TicketResolved, models.TicketClosed:
	default:
		utils.Error(ctx, http.StatusBadRequest, 40065, "invalid ticket status")
		return
	}

	communityID, _ := getCommunityID(ctx)
	var ticket models.Ticket
	if err := s.db.Where("id = ? AND community_id = ?", ticketID, communityID).First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40460, "ticket not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to load ticket")
		return
	}

	ticket.Status = req.Status
	if req.Status == models.TicketResolved && ticket.ResolvedAt == nil {
		now := time.Now()
		ticket.ResolvedAt = &now
	}
	if err := s.db.Save(&ticket).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to update ticket")
		return
	}
	utils.Success(ctx, gin.H{"ticket": ticket})
}

// DeleteTicket removes a ticket. Admin only.
func (s *SupportController) DeleteTicket(ctx *gin.Context) {
	ticketID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40063, "invalid ticket id")
		return
	}
	communityID, _ := getCommunityID(ctx)
	res := s.db.Where("id = ? AND community_id = ?", ticketID, communityID).Delete(&models.Ticket{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to delete ticket")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40460, "ticket not found")
		return
	}
	utils.Success(ctx, gin.H{"deleted": true})
}

// CreateFeedback stores a member rating with optional comment.
func (s *SupportController) CreateFeedback(ctx *gin.Context) {
	memberID, ok := getMemberID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "unauthorized")
		return
	}
	communityID, _ := getCommunityID(ctx)

	var req struct {
		TierID   *uint  `json:"tier_id"`
		Category string `json:"category" binding:"required"`
		Rating   int    `json:"rating" binding:"required"`
		Content  string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40066, "invalid request payload")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		utils.Error(ctx, http.StatusBadRequest, 40067, "rating must be between 1 and 5")
		return
	}
	if !contains(models.FeedbackCategories, req.Category) {
		utils.Error(ctx, http.StatusBadRequest, 40068, "invalid feedback category")
		return
	}

	feedback := models.Feedback{
		MemberID:    memberID,
		CommunityID: communityID,
		TierID:      req.TierID,
		Category:    req.Category,
		Rating:      req.Rating,
		Content:     utils.Sanitize(req.Content),
	}
	if err := s.db.Create(&feedback).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50065, "failed to create feedback")
		return
	}
	utils.Success(ctx, gin.H{"feedback": feedback})
}

// ListFeedback returns the community's feedback (admin) or only the
// caller's own.
func (s *SupportController) ListFeedback(ctx *gin.Context) {
	communityID, ok := getCommunityID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "unauthorized")
		return
	}

	query := s.db.Where("community_id = ?", communityID)
	if isAdmin(ctx) {
		query = query.Preload("Member", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "whop_id", "community_id")
		})
	} else {
		memberID, _ := getMemberID(ctx)
		query = query.Where("member_id = ?", memberID)
	}

	var feedback []models.Feedback
	if err := query.Order("created_at DESC").Find(&feedback).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50066, "failed to load feedback")
		return
	}
	utils.Success(ctx, gin.H{"feedback": feedback})
}

// DeleteFeedback removes a feedback entry. Admin only.
func (s *SupportController) DeleteFeedback(ctx *gin.Context) {
	feedbackID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40069, "invalid feedback id")
		return
	}
	communityID, _ := getCommunityID(ctx)
	res := s.db.Where("id = ? AND community_id = ?", feedbackID, communityID).Delete(&models.Feedback{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50067, "failed to delete feedback")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40461, "feedback not found")
		return
	}
	utils.Success(ctx, gin.H{"deleted": true})
}

// UnreadCounts returns per-tier counts of tickets and feedback no
// admin has looked at yet. Tier-less entries count under "general".
func (s *SupportController) UnreadCounts(ctx *gin.Context) {
	communityID, ok := getCommunityID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "unauthorized")
		return
	}

	type bucket struct {
		Tickets  int64 `json:"tickets"`
		Feedback int64 `json:"feedback"`
	}
	counts := map[string]*bucket{}
	key := func(tierID *uint) string {
		if tierID == nil {
			return "general"
		}
		return strconv.FormatUint(uint64(*tierID), 10)
	}

	var tickets []models.Ticket
	if err := s.db.Select("tier_id").
		Where("community_id = ? AND viewed_by_admin = ?", communityID, false).
		Find(&tickets).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50068, "failed to count tickets")
		return
	}
	for _, t := range tickets {
		k := key(t.TierID)
		if counts[k] == nil {
			counts[k] = &bucket{}
		}
		counts[k].Tickets++
	}

	var feedback []models.Feedback
	if err := s.db.Select("tier_id").
		Where("community_id = ? AND viewed_by_admin = ?", communityID, false).
		Find(&feedback).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50069, "failed to count feedback")
		return
	}
	for _, f := range feedback {
		k := key(f.TierID)
		if counts[k] == nil {
			counts[k] = &bucket{}
		}
		counts[k].Feedback++
	}

	utils.Success(ctx, gin.H{"counts": counts})
}

// MarkTierViewed flags a tier's tickets and feedback (including
// tier-less ones) as seen by an admin.
func (s *SupportController) MarkTierViewed(ctx *gin.Context) {
	tierID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40044, "invalid tier id")
		return
	}
	communityID, _ := getCommunityID(ctx)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Ticket{}).
			Where("community_id = ? AND viewed_by_admin = ? AND (tier_id = ? OR tier_id IS NULL)", communityID, false, tierID).
			Update("viewed_by_admin", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.Feedback{}).
			Where("community_id = ? AND viewed_by_admin = ? AND (tier_id = ? OR tier_id IS NULL)", communityID, false, tierID).
			Update("viewed_by_admin", true).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to mark as viewed")
		return
	}
	utils.Success(ctx, gin.H{"viewed": true})
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
