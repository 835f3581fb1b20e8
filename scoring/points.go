package scoring

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mayank2130/user-leagues/models"
)

// EffectivePoints returns the community's stored point values, or the
// engine-wide defaults when no config row exists yet. Read once per
// scoring operation so admin overrides apply immediately.
func EffectivePoints(db *gorm.DB, communityID uint) (models.PointsConfig, error) {
	var cfg models.PointsConfig
	err := db.Where("community_id = ?", communityID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultPointsConfig(communityID), nil
	}
	return cfg, err
}

// EnsurePointsConfig returns the community's config, creating the
// default row on first access so admins edit a persisted record.
func EnsurePointsConfig(db *gorm.DB, communityID uint) (models.PointsConfig, error) {
	var cfg models.PointsConfig
	err := db.Where("community_id = ?", communityID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = models.DefaultPointsConfig(communityID)
		err = db.Create(&cfg).Error
	}
	return cfg, err
}

// UpsertPointsConfig stores admin-supplied point values for a
// community, inserting or updating the single config row.
func UpsertPointsConfig(db *gorm.DB, cfg models.PointsConfig) (models.PointsConfig, error) {
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "community_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"daily_check_in", "message_read", "session_time5_min",
			"streak7_days", "streak14_days", "streak30_days", "updated_at",
		}),
	}).Create(&cfg).Error
	if err != nil {
		return cfg, err
	}
	// Re-read so the caller sees the row id on the update path.
	err = db.Where("community_id = ?", cfg.CommunityID).First(&cfg).Error
	return cfg, err
}
