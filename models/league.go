package models

import "time"

// League groups a community's ordered tier progression. The data model
// allows several leagues per community but the application keeps 1:1.
type League struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CommunityID uint      `gorm:"uniqueIndex;not null" json:"community_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:512" json:"description"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Tiers       []Tier    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tiers"`
}

// Tier is one rank inside a league. Order defines progression and
// MinScore the score needed to unlock it; both are validated so that
// MinScore is non-decreasing with Order and the entry tier sits at 0.
type Tier struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LeagueID    uint      `gorm:"index;index:idx_league_order,unique;not null" json:"league_id"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	Description string    `gorm:"size:512" json:"description"`
	MinScore    int       `gorm:"not null;default:0" json:"min_score"`
	Order       int       `gorm:"column:tier_order;index:idx_league_order,unique;not null" json:"order"`
	Color       string    `gorm:"size:32" json:"color"`
	Icon        string    `gorm:"size:64" json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
