package scoring

import (
	"math"
	"time"

	"github.com/mayank2130/user-leagues/models"
)

// Midnight truncates a timestamp to local midnight, the granularity
// all check-in comparisons use.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole calendar days from a to b. Rounding absorbs
// the 23/25-hour days around DST transitions.
func daysBetween(a, b time.Time) int {
	return int(math.Round(Midnight(b).Sub(Midnight(a)).Hours() / 24))
}

// AdvanceStreak computes the streak value and bonus for a check-in on
// today. A gap of exactly one day continues the streak; anything else
// (missed days, or a stored date in the future) resets it to 1. Bonus
// thresholds are evaluated in descending order so a streak of 14 takes
// the 14-day bonus, not the 7-day one.
func AdvanceStreak(prevStreak int, lastCheckIn *time.Time, today time.Time, cfg models.PointsConfig) (streak, bonus int) {
	if lastCheckIn == nil {
		return 1, 0
	}
	if daysBetween(*lastCheckIn, today) != 1 {
		return 1, 0
	}

	streak = prevStreak + 1
	switch {
	case streak%30 == 0:
		bonus = cfg.Streak30Days
	case streak%14 == 0:
		bonus = cfg.Streak14Days
	case streak%7 == 0:
		bonus = cfg.Streak7Days
	}
	return streak, bonus
}
