package models

import "time"

// Message is a chat message posted into a tier channel.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TierID    uint      `gorm:"index;not null" json:"tier_id"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    Member    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}

// MessageRead enforces the at-most-once point award per (message,
// member) pair. Once PointsAwarded is set, re-processing the same pair
// is rejected.
type MessageRead struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	MessageID     uint      `gorm:"index:idx_message_member,unique;not null" json:"message_id"`
	MemberID      uint      `gorm:"index:idx_message_member,unique;not null" json:"member_id"`
	PointsAwarded bool      `gorm:"default:false" json:"points_awarded"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
