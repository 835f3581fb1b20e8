package models

import "time"

// Community is the tenant boundary: every league, member, tier and
// support record belongs to exactly one community. WhopID is the
// company id reported by the membership platform.
type Community struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	WhopID    string    `gorm:"size:64;uniqueIndex;not null" json:"whop_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
