package controllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mayank2130/user-leagues/config"
	"github.com/mayank2130/user-leagues/middleware"
	"github.com/mayank2130/user-leagues/models"
	"github.com/mayank2130/user-leagues/utils"
)

// SubscriptionController manages free trials and the subscription
// records written by the payment webhook.
type SubscriptionController struct {
	db *gorm.DB
}

// NewSubscriptionController creates a new controller instance.
func NewSubscriptionController(db *gorm.DB) *SubscriptionController {
	return &SubscriptionController{db: db}
}

// StartTrial opens a time-limited trial for the caller's community.
// One trial per user per community.
func (s *SubscriptionController) StartTrial(ctx *gin.Context) {
	communityID, ok := getCommunityID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "unauthorized")
		return
	}
	userID := ctx.GetString(middleware.ContextWhopUserIDKey)
	if userID == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "unauthorized")
		return
	}

	var existing models.Subscription
	err := s.db.Where("community_id = ? AND user_id = ? AND plan_id = ?", communityID, userID, "trial").
		First(&existing).Error
	if err == nil {
		utils.Error(ctx, http.StatusConflict, 40970, "trial already used")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to check trial")
		return
	}

	now := time.Now()
	expires := now.AddDate(0, 0, config.Get().TrialDays)
	sub := models.Subscription{
		CommunityID:      communityID,
		UserID:           userID,
		WhopMembershipID: fmt.Sprintf("trial_%s_%d", userID, communityID),
		PlanID:           "trial",
		Status:           models.SubscriptionActive,
		StartedAt:        now,
		ExpiresAt:        &expires,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to start trial")
		return
	}
	utils.Success(ctx, gin.H{"subscription": sub})
}

// Status reports the caller's current subscription or trial. A trial
// past its expiry flips to expired on read.
func (s *SubscriptionController) Status(ctx *gin.Context) {
	communityID, ok := getCommunityID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "unauthorized")
		return
	}
	userID := ctx.GetString(middleware.ContextWhopUserIDKey)

	var sub models.Subscription
	err := s.db.Where("community_id = ? AND user_id = ?", communityID, userID).
		Order("created_at DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Success(ctx, gin.H{"subscription": nil, "active": false})
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to load subscription")
		return
	}

	now := time.Now()
	if sub.Status == models.SubscriptionActive && sub.ExpiresAt != nil && sub.ExpiresAt.Before(now) {
		sub.Status = models.SubscriptionExpired
		if err := s.db.Model(&sub).Update("status", models.SubscriptionExpired).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to update subscription")
			return
		}
	}

	daysRemaining := 0
	if sub.Status == models.SubscriptionActive && sub.ExpiresAt != nil {
		daysRemaining = int(math.Ceil(sub.ExpiresAt.Sub(now).Hours() / 24))
	}
	utils.Success(ctx, gin.H{
		"subscription":   sub,
		"active":         sub.Status == models.SubscriptionActive,
		"days_remaining": daysRemaining,
	})
}

// ListSubscriptions returns all subscription records for the
// community. Admin only.
func (s *SubscriptionController) ListSubscriptions(ctx *gin.Context) {
	communityID, ok := getCommunityID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "unauthorized")
		return
	}
	var subs []models.Subscription
	if err := s.db.Where("community_id = ?", communityID).
		Order("created_at DESC").Find(&subs).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50075, "failed to load subscriptions")
		return
	}
	utils.Success(ctx, gin.H{"subscriptions": subs})
}

// ExpireSweep flips every active subscription past its expiry to
// expired. Called by the scheduler, guarded by a shared secret rather
// than a member session.
func (s *SubscriptionController) ExpireSweep(ctx *gin.Context) {
	secret := config.Get().CronSecret
	auth := ctx.GetHeader("Authorization")
	if secret == "" || auth != "Bearer "+secret {
		utils.Error(ctx, http.StatusUnauthorized, 40170, "unauthorized")
		return
	}

	res := s.db.Model(&models.Subscription{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.SubscriptionActive, time.Now()).
		Update("status", models.SubscriptionExpired)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50076, "failed to expire subscriptions")
		return
	}
	utils.Success(ctx, gin.H{"expired": res.RowsAffected})
}
