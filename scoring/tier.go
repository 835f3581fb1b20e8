package scoring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mayank2130/user-leagues/models"
)

// ErrNoEligibleTier means no tier's minimum score covers the given
// score. Cannot happen when the league has a valid entry tier at 0.
var ErrNoEligibleTier = errors.New("no eligible tier for score")

// ResolveTier maps a score onto the highest-order tier whose minimum
// score the member has reached. Pure function, no side effects. When
// two tiers share an order (malformed data) the one with the higher
// minimum score wins.
func ResolveTier(score int, tiers []models.Tier) (*models.Tier, error) {
	var best *models.Tier
	for i := range tiers {
		t := &tiers[i]
		if t.MinScore > score {
			continue
		}
		if best == nil || t.Order > best.Order ||
			(t.Order == best.Order && t.MinScore > best.MinScore) {
			best = t
		}
	}
	if best == nil {
		return nil, ErrNoEligibleTier
	}
	return best, nil
}

// ValidateTierOrdering checks the league-wide invariants the resolver
// depends on: orders unique, minimum scores non-decreasing with order,
// entry tier unlocked at 0. Called on tier create/update/delete.
func ValidateTierOrdering(tiers []models.Tier) error {
	if len(tiers) == 0 {
		return errors.New("league must have at least one tier")
	}

	sorted := make([]models.Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	if sorted[0].MinScore != 0 {
		return fmt.Errorf("entry tier %q must have minimum score 0", sorted[0].Name)
	}
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.Order == prev.Order {
			return fmt.Errorf("tiers %q and %q share order %d", prev.Name, cur.Name, cur.Order)
		}
		if cur.MinScore < prev.MinScore {
			return fmt.Errorf("tier %q (order %d) requires %d points but lower tier %q requires %d",
				cur.Name, cur.Order, cur.MinScore, prev.Name, prev.MinScore)
		}
	}
	return nil
}
