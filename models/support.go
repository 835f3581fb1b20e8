package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ticket status values.
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// Ticket categories and priorities accepted from members.
var (
	TicketCategories = []string{"technical", "billing", "account", "content", "other"}
	TicketPriorities = []string{"low", "medium", "high", "urgent"}
)

// Feedback categories accepted from members.
var FeedbackCategories = []string{"general", "feature", "content", "community"}

// Ticket is a member support request, optionally scoped to a tier so
// admins can triage per channel. Reference is the external id shared
// with the member.
type Ticket struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Reference     string     `gorm:"size:36;uniqueIndex" json:"reference"`
	MemberID      uint       `gorm:"index;not null" json:"member_id"`
	CommunityID   uint       `gorm:"index;not null" json:"community_id"`
	TierID        *uint      `gorm:"index" json:"tier_id"`
	Category      string     `gorm:"size:32;not null" json:"category"`
	Priority      string     `gorm:"size:16;not null" json:"priority"`
	Subject       string     `gorm:"size:255;not null" json:"subject"`
	Description   string     `gorm:"type:text;not null" json:"description"`
	Status        string     `gorm:"size:16;default:'open';index" json:"status"`
	ViewedByAdmin bool       `gorm:"default:false" json:"viewed_by_admin"`
	ResolvedAt    *time.Time `json:"resolved_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Member        Member     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"member"`
}

// BeforeCreate assigns the external reference id.
func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.Reference == "" {
		t.Reference = uuid.NewString()
	}
	return nil
}

// Feedback is a member rating plus free-form comment, optionally
// scoped to a tier.
type Feedback struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	MemberID      uint      `gorm:"index;not null" json:"member_id"`
	CommunityID   uint      `gorm:"index;not null" json:"community_id"`
	TierID        *uint     `gorm:"index" json:"tier_id"`
	Category      string    `gorm:"size:32;not null" json:"category"`
	Rating        int       `gorm:"not null" json:"rating"` // 1..5
	Content       string    `gorm:"type:text" json:"content"`
	ViewedByAdmin bool      `gorm:"default:false" json:"viewed_by_admin"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Member        Member    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"member"`
}
