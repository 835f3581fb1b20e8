package models

import "time"

// Source types for score history entries.
const (
	SourceDailyCheckin = "daily_checkin"
	SourceStreakBonus  = "streak_bonus"
	SourceMessageRead  = "message_read"
	SourceSessionTime  = "session_time"
)

// ScoreHistory is an append-only audit record of a single point award.
// A check-in that lands a streak bonus produces two rows.
type ScoreHistory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MemberID   uint      `gorm:"index;not null" json:"member_id"`
	Points     int       `gorm:"not null" json:"points"`
	Reason     string    `gorm:"size:255" json:"reason"`
	SourceType string    `gorm:"size:32;index;not null" json:"source_type"`
	SourceID   string    `gorm:"size:64" json:"source_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
