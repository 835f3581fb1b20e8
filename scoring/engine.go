package scoring

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mayank2130/user-leagues/models"
)

// Rejection reasons returned by scoring operations. These are terminal
// domain outcomes, not faults: callers map them to user-facing
// messages and must not retry them.
var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrNoLeagueConfigured = errors.New("no league configured for community")
	ErrAlreadyCheckedIn   = errors.New("already checked in today")
	ErrAlreadyAwarded     = errors.New("points already awarded for this message")
	ErrSessionTooShort    = errors.New("session shorter than minimum")
)

// MinSessionMinutes is the smallest session length that earns points.
const MinSessionMinutes = 5

// Engine applies point-awarding events to members. Every operation
// runs in one transaction that locks the member row, so two concurrent
// events for the same member serialize instead of racing on the
// read-modify-write score update.
type Engine struct {
	db  *gorm.DB
	now func() time.Time
}

// NewEngine creates an engine bound to the given database handle.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

// Result is the success payload of a scoring operation: the member
// snapshot after the event, with the current tier loaded.
type Result struct {
	Member       models.Member `json:"member"`
	PointsEarned int           `json:"points_earned"`
}

// RecordDailyCheckIn awards the base check-in value plus any streak
// bonus, at most once per calendar day.
func (e *Engine) RecordDailyCheckIn(memberID uint) (*Result, error) {
	var res Result
	err := e.db.Transaction(func(tx *gorm.DB) error {
		member, tiers, err := e.lockMember(tx, memberID)
		if err != nil {
			return err
		}

		today := Midnight(e.now())
		if member.LastCheckedInDate != nil && Midnight(*member.LastCheckedInDate).Equal(today) {
			return ErrAlreadyCheckedIn
		}

		cfg, err := EffectivePoints(tx, member.CommunityID)
		if err != nil {
			return err
		}

		streak, bonus := AdvanceStreak(member.CheckInStreak, member.LastCheckedInDate, today, cfg)
		earned := cfg.DailyCheckIn + bonus

		member.TotalScore += earned
		member.LastCheckedInDate = &today
		member.CheckInStreak = streak
		if err := e.finishMutation(tx, member, tiers); err != nil {
			return err
		}

		if err := tx.Create(&models.ScoreHistory{
			MemberID:   member.ID,
			Points:     cfg.DailyCheckIn,
			Reason:     "Daily check-in",
			SourceType: models.SourceDailyCheckin,
		}).Error; err != nil {
			return err
		}
		if bonus > 0 {
			if err := tx.Create(&models.ScoreHistory{
				MemberID:   member.ID,
				Points:     bonus,
				Reason:     fmt.Sprintf("%d-day streak bonus", streak),
				SourceType: models.SourceStreakBonus,
			}).Error; err != nil {
				return err
			}
		}

		res = Result{Member: *member, PointsEarned: earned}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// RecordMessageRead awards the message-read value at most once per
// (message, member) pair, tracked through MessageRead receipts.
func (e *Engine) RecordMessageRead(memberID, messageID uint) (*Result, error) {
	var res Result
	err := e.db.Transaction(func(tx *gorm.DB) error {
		member, tiers, err := e.lockMember(tx, memberID)
		if err != nil {
			return err
		}

		var receipt models.MessageRead
		err = tx.Where("message_id = ? AND member_id = ?", messageID, memberID).First(&receipt).Error
		if err == nil && receipt.PointsAwarded {
			return ErrAlreadyAwarded
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		cfg, err := EffectivePoints(tx, member.CommunityID)
		if err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "member_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"points_awarded": true, "updated_at": e.now()}),
		}).Create(&models.MessageRead{
			MessageID:     messageID,
			MemberID:      memberID,
			PointsAwarded: true,
		}).Error; err != nil {
			return err
		}

		member.TotalScore += cfg.MessageRead
		if err := e.finishMutation(tx, member, tiers); err != nil {
			return err
		}

		if err := tx.Create(&models.ScoreHistory{
			MemberID:   member.ID,
			Points:     cfg.MessageRead,
			Reason:     "Message read",
			SourceType: models.SourceMessageRead,
			SourceID:   strconv.FormatUint(uint64(messageID), 10),
		}).Error; err != nil {
			return err
		}

		res = Result{Member: *member, PointsEarned: cfg.MessageRead}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// RecordSessionTime awards the flat session value once the member has
// spent at least MinSessionMinutes in the current session. The award
// is not scaled by minutes; minutes only accumulate on the member.
func (e *Engine) RecordSessionTime(memberID uint, minutesSpent int) (*Result, error) {
	if minutesSpent < MinSessionMinutes {
		return nil, ErrSessionTooShort
	}

	var res Result
	err := e.db.Transaction(func(tx *gorm.DB) error {
		member, tiers, err := e.lockMember(tx, memberID)
		if err != nil {
			return err
		}

		cfg, err := EffectivePoints(tx, member.CommunityID)
		if err != nil {
			return err
		}

		member.TotalScore += cfg.SessionTime5Min
		member.TotalSessionTime += minutesSpent
		if err := e.finishMutation(tx, member, tiers); err != nil {
			return err
		}

		if err := tx.Create(&models.ScoreHistory{
			MemberID:   member.ID,
			Points:     cfg.SessionTime5Min,
			Reason:     fmt.Sprintf("%d minutes session", minutesSpent),
			SourceType: models.SourceSessionTime,
		}).Error; err != nil {
			return err
		}

		res = Result{Member: *member, PointsEarned: cfg.SessionTime5Min}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// lockMember loads the member row FOR UPDATE together with the ordered
// tiers of the community's league. Rejects when the member is missing
// or the league has no tiers to resolve against.
func (e *Engine) lockMember(tx *gorm.DB, memberID uint) (*models.Member, []models.Tier, error) {
	q := tx
	// sqlite (used by the test suite) serializes writers on its own
	// and has no FOR UPDATE syntax.
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var member models.Member
	if err := q.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrMemberNotFound
		}
		return nil, nil, err
	}

	var league models.League
	if err := tx.Where("community_id = ?", member.CommunityID).First(&league).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNoLeagueConfigured
		}
		return nil, nil, err
	}

	var tiers []models.Tier
	if err := tx.Where("league_id = ?", league.ID).Order("tier_order ASC").Find(&tiers).Error; err != nil {
		return nil, nil, err
	}
	if len(tiers) == 0 {
		return nil, nil, ErrNoLeagueConfigured
	}

	return &member, tiers, nil
}

// finishMutation recomputes the member's tier from the new total
// score, touches last-active and persists the member row.
func (e *Engine) finishMutation(tx *gorm.DB, member *models.Member, tiers []models.Tier) error {
	tier, err := ResolveTier(member.TotalScore, tiers)
	if err != nil {
		return err
	}
	member.CurrentTierID = &tier.ID
	member.CurrentTier = tier
	member.LastActive = e.now()
	return tx.Omit("CurrentTier").Save(member).Error
}
