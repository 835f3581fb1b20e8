package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mayank2130/user-leagues/models"
)

func day(offset int) time.Time {
	base := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestAdvanceStreak(t *testing.T) {
	cfg := models.DefaultPointsConfig(1)

	tests := []struct {
		name       string
		prevStreak int
		lastOffset *int
		wantStreak int
		wantBonus  int
	}{
		{"first ever check-in", 0, nil, 1, 0},
		{"consecutive day continues", 3, ptr(-1), 4, 0},
		{"seventh day pays weekly bonus", 6, ptr(-1), 7, models.DefaultStreak7Days},
		{"fourteenth day pays biweekly bonus only", 13, ptr(-1), 14, models.DefaultStreak14Days},
		{"twenty-first day pays weekly bonus again", 20, ptr(-1), 21, models.DefaultStreak7Days},
		{"thirtieth day pays monthly bonus", 29, ptr(-1), 30, models.DefaultStreak30Days},
		{"sixtieth day pays monthly bonus again", 59, ptr(-1), 60, models.DefaultStreak30Days},
		{"two-day gap resets", 12, ptr(-3), 1, 0},
		{"stored date in the future resets", 5, ptr(1), 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var last *time.Time
			if tt.lastOffset != nil {
				d := day(*tt.lastOffset)
				last = &d
			}
			streak, bonus := AdvanceStreak(tt.prevStreak, last, day(0), cfg)
			assert.Equal(t, tt.wantStreak, streak)
			assert.Equal(t, tt.wantBonus, bonus)
		})
	}
}

func TestAdvanceStreakUsesConfiguredBonuses(t *testing.T) {
	cfg := models.DefaultPointsConfig(1)
	cfg.Streak7Days = 500

	last := day(-1)
	streak, bonus := AdvanceStreak(6, &last, day(0), cfg)
	assert.Equal(t, 7, streak)
	assert.Equal(t, 500, bonus)
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2026, 3, 14, 23, 50, 0, 0, time.UTC)
	early := time.Date(2026, 3, 15, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, 1, daysBetween(late, early))
	assert.Equal(t, 0, daysBetween(early, early))
}

func TestMidnight(t *testing.T) {
	ts := time.Date(2026, 3, 15, 18, 42, 7, 123, time.UTC)
	got := Midnight(ts)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got)
}

func ptr(v int) *int { return &v }
