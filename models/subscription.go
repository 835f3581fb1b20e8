package models

import "time"

// Subscription status values.
const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

// Subscription tracks a community owner's access to the app, driven by
// the payment platform. WhopMembershipID is the platform-side payment
// id and keys webhook upserts so retried deliveries stay idempotent.
type Subscription struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	CommunityID      uint       `gorm:"index;not null" json:"community_id"`
	UserID           string     `gorm:"size:64;index;not null" json:"user_id"`
	WhopMembershipID string     `gorm:"size:64;uniqueIndex" json:"whop_membership_id"`
	PlanID           string     `gorm:"size:64;not null" json:"plan_id"`
	Status           string     `gorm:"size:16;default:'active';index" json:"status"`
	StartedAt        time.Time  `json:"started_at"`
	ExpiresAt        *time.Time `gorm:"index" json:"expires_at"`
	Amount           float64    `json:"amount"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
