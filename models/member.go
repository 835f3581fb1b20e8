package models

import (
	"time"

	"gorm.io/gorm"
)

// Member roles mirror the access level reported by the platform.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Member is one user inside one community. TotalScore only ever grows;
// CurrentTierID is recomputed from TotalScore on every scoring event
// and never edited directly.
type Member struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	CommunityID       uint       `gorm:"index:idx_community_whop,unique;not null" json:"community_id"`
	WhopID            string     `gorm:"size:64;index:idx_community_whop,unique;not null" json:"whop_id"`
	Name              string     `gorm:"size:255" json:"name"`
	Role              string     `gorm:"size:16;default:'member'" json:"role"`
	TotalScore        int        `gorm:"default:0" json:"total_score"`
	CurrentTierID     *uint      `gorm:"index" json:"current_tier_id"`
	CurrentTier       *Tier      `json:"current_tier,omitempty"`
	LastCheckedInDate *time.Time `gorm:"type:date" json:"last_checked_in_date"`
	CheckInStreak     int        `gorm:"default:0" json:"check_in_streak"`
	TotalSessionTime  int        `gorm:"default:0" json:"total_session_time"`
	LastActive        time.Time  `json:"last_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (m *Member) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if m.LastActive.IsZero() {
		m.LastActive = now
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	return nil
}

// IsAdmin reports whether the member manages this community.
func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}
