package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayank2130/user-leagues/models"
)

func fourTiers() []models.Tier {
	return []models.Tier{
		{ID: 1, Name: "Bronze", MinScore: 0, Order: 0},
		{ID: 2, Name: "Silver", MinScore: 100, Order: 1},
		{ID: 3, Name: "Gold", MinScore: 250, Order: 2},
		{ID: 4, Name: "Diamond", MinScore: 500, Order: 3},
	}
}

func TestResolveTier(t *testing.T) {
	tiers := fourTiers()

	tests := []struct {
		name  string
		score int
		want  string
	}{
		{"zero score lands on entry tier", 0, "Bronze"},
		{"below first threshold", 99, "Bronze"},
		{"exactly at threshold", 100, "Silver"},
		{"between thresholds", 249, "Silver"},
		{"top tier", 500, "Diamond"},
		{"far past top tier", 100000, "Diamond"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTier(tt.score, tiers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestResolveTierMonotonic(t *testing.T) {
	tiers := fourTiers()
	prevOrder := -1
	for score := 0; score <= 600; score++ {
		got, err := ResolveTier(score, tiers)
		require.NoError(t, err)
		require.GreaterOrEqual(t, got.Order, prevOrder,
			"tier order regressed at score %d", score)
		prevOrder = got.Order
	}
}

func TestResolveTierNoEligible(t *testing.T) {
	tiers := []models.Tier{
		{ID: 1, Name: "Silver", MinScore: 100, Order: 1},
	}
	_, err := ResolveTier(50, tiers)
	assert.ErrorIs(t, err, ErrNoEligibleTier)
}

func TestResolveTierDuplicateOrderPrefersHigherMinScore(t *testing.T) {
	tiers := []models.Tier{
		{ID: 1, Name: "Bronze", MinScore: 0, Order: 0},
		{ID: 2, Name: "Low", MinScore: 50, Order: 1},
		{ID: 3, Name: "High", MinScore: 100, Order: 1},
	}
	got, err := ResolveTier(200, tiers)
	require.NoError(t, err)
	assert.Equal(t, "High", got.Name)
}

func TestResolveTierIgnoresInputOrdering(t *testing.T) {
	tiers := fourTiers()
	shuffled := []models.Tier{tiers[2], tiers[0], tiers[3], tiers[1]}
	got, err := ResolveTier(300, shuffled)
	require.NoError(t, err)
	assert.Equal(t, "Gold", got.Name)
}

func TestValidateTierOrdering(t *testing.T) {
	tests := []struct {
		name    string
		tiers   []models.Tier
		wantErr bool
	}{
		{"valid ladder", fourTiers(), false},
		{"single entry tier", []models.Tier{{Name: "Bronze", MinScore: 0, Order: 0}}, false},
		{"empty league", nil, true},
		{"entry tier requires points", []models.Tier{
			{Name: "Bronze", MinScore: 10, Order: 0},
		}, true},
		{"duplicate order", []models.Tier{
			{Name: "Bronze", MinScore: 0, Order: 0},
			{Name: "Silver", MinScore: 100, Order: 1},
			{Name: "Gold", MinScore: 250, Order: 1},
		}, true},
		{"min score decreasing with order", []models.Tier{
			{Name: "Bronze", MinScore: 0, Order: 0},
			{Name: "Silver", MinScore: 200, Order: 1},
			{Name: "Gold", MinScore: 100, Order: 2},
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTierOrdering(tt.tiers)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
