package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mayank2130/user-leagues/config"
	"github.com/mayank2130/user-leagues/models"
	"github.com/mayank2130/user-leagues/utils"
)

// WebhookController receives payment events from the platform.
type WebhookController struct {
	db *gorm.DB
}

// NewWebhookController creates a new controller instance.
func NewWebhookController(db *gorm.DB) *WebhookController {
	return &WebhookController{db: db}
}

type paymentEvent struct {
	Action string `json:"action"`
	Data   struct {
		ID           string  `json:"id"`
		UserID       string  `json:"user_id"`
		MembershipID string  `json:"membership_id"`
		PlanID       string  `json:"plan_id"`
		FinalAmount  float64 `json:"final_amount"` // cents
		Metadata     struct {
			CommunityID uint `json:"community_id"`
		} `json:"metadata"`
	} `json:"data"`
}

// HandlePayment processes payment webhooks. Deliveries are retried by
// the platform, so subscription upserts key on the membership id.
func (w *WebhookController) HandlePayment(ctx *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, 1<<20))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "failed to read body")
		return
	}

	if secret := config.Get().WebhookSecret; secret != "" {
		sig := ctx.GetHeader("X-Whop-Signature")
		if !verifySignature(body, sig, secret) {
			utils.Logger.Warn("webhook signature mismatch")
			utils.Error(ctx, http.StatusUnauthorized, 40180, "invalid signature")
			return
		}
	}

	var event paymentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40081, "invalid payload")
		return
	}

	switch event.Action {
	case "payment.succeeded":
		if err := w.recordPayment(event); err != nil {
			utils.Sugar.Errorw("failed to record payment",
				"membership_id", event.Data.MembershipID, "error", err)
			utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to record payment")
			return
		}
		utils.Sugar.Infow("payment recorded",
			"membership_id", event.Data.MembershipID, "plan_id", event.Data.PlanID)
	case "payment.failed":
		utils.Sugar.Warnw("payment failed",
			"membership_id", event.Data.MembershipID, "user_id", event.Data.UserID)
	default:
		utils.Sugar.Debugw("ignoring webhook action", "action", event.Action)
	}

	utils.Success(ctx, gin.H{"received": true})
}

func (w *WebhookController) recordPayment(event paymentEvent) error {
	if event.Data.MembershipID == "" {
		return errors.New("missing membership id")
	}

	cfg := config.Get()
	now := time.Now()
	var expires time.Time
	switch event.Data.PlanID {
	case cfg.YearlyPlanID:
		expires = now.AddDate(0, 0, 365)
	case cfg.MonthlyPlanID:
		expires = now.AddDate(0, 0, 30)
	default:
		// Unknown plan ids get the monthly window.
		expires = now.AddDate(0, 0, 30)
	}

	sub := models.Subscription{
		CommunityID:      event.Data.Metadata.CommunityID,
		UserID:           event.Data.UserID,
		WhopMembershipID: event.Data.MembershipID,
		PlanID:           event.Data.PlanID,
		Status:           models.SubscriptionActive,
		StartedAt:        now,
		ExpiresAt:        &expires,
		Amount:           event.Data.FinalAmount / 100,
	}
	return w.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "whop_membership_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan_id", "status", "started_at", "expires_at", "amount", "updated_at",
		}),
	}).Create(&sub).Error
}

func verifySignature(body []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
