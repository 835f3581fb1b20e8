package models

import "time"

// Default point values applied when a community has no stored config.
const (
	DefaultDailyCheckIn    = 10
	DefaultMessageRead     = 2
	DefaultSessionTime5Min = 5
	DefaultStreak7Days     = 35
	DefaultStreak14Days    = 70
	DefaultStreak30Days    = 150
)

// PointsConfig overrides the engine-wide point values for one
// community. Created lazily with defaults the first time an admin
// opens the points settings.
type PointsConfig struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CommunityID     uint      `gorm:"uniqueIndex;not null" json:"community_id"`
	DailyCheckIn    int       `gorm:"not null" json:"daily_check_in"`
	MessageRead     int       `gorm:"not null" json:"message_read"`
	SessionTime5Min int       `gorm:"not null" json:"session_time_5_min"`
	Streak7Days     int       `gorm:"not null" json:"streak_7_days"`
	Streak14Days    int       `gorm:"not null" json:"streak_14_days"`
	Streak30Days    int       `gorm:"not null" json:"streak_30_days"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultPointsConfig returns the engine-wide defaults for a community.
func DefaultPointsConfig(communityID uint) PointsConfig {
	return PointsConfig{
		CommunityID:     communityID,
		DailyCheckIn:    DefaultDailyCheckIn,
		MessageRead:     DefaultMessageRead,
		SessionTime5Min: DefaultSessionTime5Min,
		Streak7Days:     DefaultStreak7Days,
		Streak14Days:    DefaultStreak14Days,
		Streak30Days:    DefaultStreak30Days,
	}
}
