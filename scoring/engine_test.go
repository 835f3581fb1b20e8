package scoring

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mayank2130/user-leagues/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Community{},
		&models.League{},
		&models.Tier{},
		&models.Member{},
		&models.ScoreHistory{},
		&models.Message{},
		&models.MessageRead{},
		&models.PointsConfig{},
	))
	return db
}

// seedCommunity creates a community with the default four-tier league
// and one member sitting on the entry tier.
func seedCommunity(t *testing.T, db *gorm.DB) *models.Member {
	t.Helper()

	community := models.Community{WhopID: "exp_test", Name: "Test Community"}
	require.NoError(t, db.Create(&community).Error)

	league := models.League{
		CommunityID: community.ID,
		Name:        "Test League",
		Active:      true,
		Tiers: []models.Tier{
			{Name: "Bronze", MinScore: 0, Order: 0},
			{Name: "Silver", MinScore: 100, Order: 1},
			{Name: "Gold", MinScore: 250, Order: 2},
			{Name: "Diamond", MinScore: 500, Order: 3},
		},
	}
	require.NoError(t, db.Create(&league).Error)

	member := models.Member{
		CommunityID:   community.ID,
		WhopID:        "user_test",
		Name:          "Tester",
		Role:          models.RoleMember,
		CurrentTierID: &league.Tiers[0].ID,
	}
	require.NoError(t, db.Create(&member).Error)
	return &member
}

// engineAt pins the engine clock so streak math is deterministic.
func engineAt(db *gorm.DB, at time.Time) *Engine {
	e := NewEngine(db)
	e.now = func() time.Time { return at }
	return e
}

func TestDailyCheckInFirstTime(t *testing.T) {
	db := newTestDB(t)
	member := seedCommunity(t, db)
	e := engineAt(db, time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))

	res, err := e.RecordDailyCheckIn(member.ID)
	require.NoError(t, err)

	assert.Equal(t, models.DefaultDailyCheckIn, res.PointsEarned)
	assert.Equal(t, models.DefaultDailyCheckIn, res.Member.TotalScore)
	assert.Equal(t, 1, res.Member.CheckInStreak)
	require.NotNil(t, res.Member.CurrentTier)
	assert.Equal(t, "Bronze", res.Member.CurrentTier.Name)

	var history []models.ScoreHistory
	require.NoError(t, db.Where("member_id = ?", member.ID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, models.SourceDailyCheckin, history[0].SourceType)
}

func TestDailyCheckInSameDayRejected(t *testing.T) {
	db := newTestDB(t)
	member := seedCommunity(t, db)
	e := engineAt(db, time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))

	_, err := e.RecordDailyCheckIn(member.ID)
	require.NoError(t, err)

	// Later the same day, even near midnight.
	e.now = func() time.Time { return time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC) }
	_, err = e.RecordDailyCheckIn(member.ID)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	var member2 models.Member
	require.NoError(t, db.First(&member2, member.ID).Error)
	assert.Equal(t, models.DefaultDailyCheckIn, member2.TotalScore)
}

func TestDailyCheckInStreakBonus(t *testing.T) {
	db := newTestDB(t)
	member := seedCommunity(t, db)

	// Six prior consecutive days already on the member.
	yesterday := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&models.Member{}).Where("id = ?", member.ID).
		Updates(map[string]interface{}{
			"check_in_streak":      6,
			"last_checked_in_date": yesterday,
		}).Error)

	e := engineAt(db, time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC))
	res, err := e.RecordDailyCheckIn(member.ID)
	require.NoError(t, err)

	assert.Equal(t, models.DefaultDailyCheckIn+models.DefaultStreak7Days, res.PointsEarned)
	assert.Equal(t, 7, res.Member.CheckInStreak)

	var history []models.ScoreHistory
	require.NoError(t, db.Where("member_id = ?", member.ID).Order("id ASC").Find(&history).Error)
	require.Len(t, history, 2)
	assert.Equal(t, models.SourceDailyCheckin, history[0].SourceType)
	assert.Equal(t, models.SourceStreakBonus, history[1].SourceType)
	assert.Equal(t, models.DefaultStreak7Days, history[1].Points)
}

func TestDailyCheckInGapResetsStreak(t *testing.T) {
	db := newTestDB(t)
	member := seedCommunity(t, db)

	threeDaysAgo := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&models.Member{}).Where("id = ?", member.ID).
		Updates(map[string]interface{}{
			"check_in_streak":      12,
			"last_checked_in_date": threeDaysAgo,
		}).Error)

	e := engineAt(db, time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC))
	res, err := e.RecordDailyCheckIn(member.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Member.CheckInStreak)
	assert.Equal(t, models.DefaultDailyCheckIn, res.PointsEarned)
}

func TestMessageReadAwardedOnce(t *testing.T) {
	db := newTestDB(t)
	member := seedCommunity(t, db)

	var tier models.Tier
	require.NoError(t, db.Where("name = ?", "Bronze").First(&tier).Error)
	message := models.Message{TierID: tier.ID, AuthorID: member.ID, Content: "hello"}
	require.NoError(t, db.Create(&message).Error)

	e := engineAt(db, time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))

	res, err := e.RecordMessageRead(member.ID, message.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultMessageRead, res.PointsEarned)

	_, err = e.RecordMessageRead(member.ID, message.ID)
	assert.ErrorIs(t, err, ErrAlreadyAwarded)

	var member2 models.Member
	require.NoError(t, db.First(&member2, member.ID).Error)
	assert.Equal(t, models.DefaultMessageRead, member2.TotalScore)

	var receipts int64
	require.NoError(t, db.Model(&models.MessageRead{}).
		Where("message_id = ? AND member_id = ?", message.ID, member.ID).
		Count(&receipts).Error)
	assert.Equal(t, int64(1), receipts)
}

func TestSessionTimeBelowThresholdRejected(t *testing.T) {
	db := newTestDB(t)
	member := seedCommunity(t, db)
	e := engineAt(db, time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))

	_, err := e.RecordSessionTime(member.ID, 4)
	assert.ErrorIs(t, err, ErrSessionTooShort)

	var count int64
	require.NoError(t, db.Model(&models.ScoreHistory{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSessionTimeFlatAward(t *testing.T) {
	db := newTestDB(t)
	member := seedCommunity(t, db)
	e := engineAt(db, time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))

	// A long session earns exactly the same as a 5-minute one.
	res, err := e.RecordSessionTime(member.ID, 45)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSessionTime5Min, res.PointsEarned)
	assert.Equal(t, 45, res.Member.TotalSessionTime)

	res, err = e.RecordSessionTime(member.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSessionTime5Min, res.PointsEarned)
	assert.Equal(t, 50, res.Member.TotalSessionTime)
}

func TestScoringUsesCommunityConfig(t *testing.T) {
	db := newTestDB(t)
	member := seedCommunity(t, db)

	cfg := models.DefaultPointsConfig(member.CommunityID)
	cfg.DailyCheckIn = 25
	_, err := UpsertPointsConfig(db, cfg)
	require.NoError(t, err)

	e := engineAt(db, time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))
	res, err := e.RecordDailyCheckIn(member.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, res.PointsEarned)
}

func TestTierPromotionAcrossThreshold(t *testing.T) {
	db := newTestDB(t)
	member := seedCommunity(t, db)

	require.NoError(t, db.Model(&models.Member{}).Where("id = ?", member.ID).
		Update("total_score", 95).Error)

	e := engineAt(db, time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))
	res, err := e.RecordDailyCheckIn(member.ID)
	require.NoError(t, err)

	assert.Equal(t, 105, res.Member.TotalScore)
	require.NotNil(t, res.Member.CurrentTier)
	assert.Equal(t, "Silver", res.Member.CurrentTier.Name)

	var member2 models.Member
	require.NoError(t, db.First(&member2, member.ID).Error)
	require.NotNil(t, member2.CurrentTierID)
	assert.Equal(t, res.Member.CurrentTier.ID, *member2.CurrentTierID)
}

func TestScoringRejectsUnknownMember(t *testing.T) {
	db := newTestDB(t)
	seedCommunity(t, db)
	e := NewEngine(db)

	_, err := e.RecordDailyCheckIn(9999)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestScoringRejectsCommunityWithoutLeague(t *testing.T) {
	db := newTestDB(t)

	community := models.Community{WhopID: "exp_bare", Name: "Bare"}
	require.NoError(t, db.Create(&community).Error)
	member := models.Member{CommunityID: community.ID, WhopID: "user_bare"}
	require.NoError(t, db.Create(&member).Error)

	e := NewEngine(db)
	_, err := e.RecordDailyCheckIn(member.ID)
	assert.ErrorIs(t, err, ErrNoLeagueConfigured)
}

func TestEffectivePointsFallsBackToDefaults(t *testing.T) {
	db := newTestDB(t)

	cfg, err := EffectivePoints(db, 42)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPointsConfig(42), cfg)
}

func TestEnsurePointsConfigCreatesRowOnce(t *testing.T) {
	db := newTestDB(t)

	first, err := EnsurePointsConfig(db, 7)
	require.NoError(t, err)
	second, err := EnsurePointsConfig(db, 7)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.PointsConfig{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertPointsConfigUpdatesExistingRow(t *testing.T) {
	db := newTestDB(t)

	cfg := models.DefaultPointsConfig(7)
	stored, err := UpsertPointsConfig(db, cfg)
	require.NoError(t, err)

	cfg.DailyCheckIn = 99
	updated, err := UpsertPointsConfig(db, cfg)
	require.NoError(t, err)

	assert.Equal(t, stored.ID, updated.ID)
	assert.Equal(t, 99, updated.DailyCheckIn)
}
