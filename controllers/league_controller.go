package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mayank2130/user-leagues/models"
	"github.com/mayank2130/user-leagues/scoring"
	"github.com/mayank2130/user-leagues/utils"
)

// LeagueController manages the admin CRUD surface for leagues and
// tiers. Tier mutations validate the ordering invariant the resolver
// depends on before committing.
type LeagueController struct {
	db *gorm.DB
}

// NewLeagueController creates a new controller instance.
func NewLeagueController(db *gorm.DB) *LeagueController {
	return &LeagueController{db: db}
}

// GetLeague returns the community's league with ordered tiers.
func (l *LeagueController) GetLeague(ctx *gin.Context) {
	communityID, ok := getCommunityID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "unauthorized")
		return
	}

	var league models.League
	err := l.db.Preload("Tiers", func(db *gorm.DB) *gorm.DB {
		return db.Order("tier_order ASC")
	}).Where("community_id = ?", communityID).First(&league).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "league not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load league")
		return
	}
	utils.Success(ctx, gin.H{"league": league})
}

// UpdateLeague edits league name/description/active flag.
func (l *LeagueController) UpdateLeague(ctx *gin.Context) {
	leagueID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid league id")
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required,min=1"`
		Description string `json:"description"`
		Active      *bool  `json:"active"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid request payload")
		return
	}

	communityID, _ := getCommunityID(ctx)
	var league models.League
	if err := l.db.Where("id = ? AND community_id = ?", leagueID, communityID).First(&league).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40431, "league not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to load league")
		return
	}

	league.Name = strings.TrimSpace(req.Name)
	league.Description = req.Description
	if req.Active != nil {
		league.Active = *req.Active
	}
	if err := l.db.Save(&league).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to update league")
		return
	}
	utils.Success(ctx, gin.H{"league": league})
}

// CreateTier adds a tier to the community's league after validating
// the resulting ordering.
func (l *LeagueController) CreateTier(ctx *gin.Context) {
	communityID, ok := getCommunityID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "unauthorized")
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required,min=1"`
		Description string `json:"description"`
		MinScore    int    `json:"min_score" binding:"min=0"`
		Order       int    `json:"order"`
		Color       string `json:"color"`
		Icon        string `json:"icon"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid request payload")
		return
	}

	var league models.League
	if err := l.db.Where("community_id = ?", communityID).First(&league).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "league not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load league")
		return
	}

	tier := models.Tier{
		LeagueID:    league.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		MinScore:    req.MinScore,
		Order:       req.Order,
		Color:       req.Color,
		Icon:        req.Icon,
	}

	err := l.db.Transaction(func(tx *gorm.DB) error {
		var tiers []models.Tier
		if err := tx.Where("league_id = ?", league.ID).Find(&tiers).Error; err != nil {
			return err
		}
		if err := scoring.ValidateTierOrdering(append(tiers, tier)); err != nil {
			return &validationError{err}
		}
		return tx.Create(&tier).Error
	})
	if err != nil {
		var ve *validationError
		if errors.As(err, &ve) {
			utils.Error(ctx, http.StatusBadRequest, 40043, ve.Error())
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to create tier")
		return
	}
	utils.Success(ctx, gin.H{"tier": tier})
}

// UpdateTier edits a tier, revalidating the league's ordering with the
// new values in place.
func (l *LeagueController) UpdateTier(ctx *gin.Context) {
	tierID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40044, "invalid tier id")
		return
	}

	var req struct {
		Name        string  `json:"name" binding:"required,min=1"`
		Description *string `json:"description"`
		MinScore    int     `json:"min_score" binding:"min=0"`
		Order       int     `json:"order"`
		Color       *string `json:"color"`
		Icon        *string `json:"icon"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40045, "invalid request payload")
		return
	}

	communityID, _ := getCommunityID(ctx)
	var tier models.Tier
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := l.findCommunityTier(tx, tierID, communityID, &tier); err != nil {
			return err
		}

		tier.Name = strings.TrimSpace(req.Name)
		tier.MinScore = req.MinScore
		tier.Order = req.Order
		if req.Description != nil {
			tier.Description = *req.Description
		}
		if req.Color != nil {
			tier.Color = *req.Color
		}
		if req.Icon != nil {
			tier.Icon = *req.Icon
		}

		var tiers []models.Tier
		if err := tx.Where("league_id = ? AND id <> ?", tier.LeagueID, tier.ID).Find(&tiers).Error; err != nil {
			return err
		}
		if err := scoring.ValidateTierOrdering(append(tiers, tier)); err != nil {
			return &validationError{err}
		}
		return tx.Save(&tier).Error
	})
	if err != nil {
		l.rejectTierMutation(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"tier": tier})
}

// DeleteTier removes a tier. The entry tier cannot be removed, and
// members sitting in the deleted tier are re-resolved onto the
// remaining ladder.
func (l *LeagueController) DeleteTier(ctx *gin.Context) {
	tierID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40044, "invalid tier id")
		return
	}

	communityID, _ := getCommunityID(ctx)
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var tier models.Tier
		if err := l.findCommunityTier(tx, tierID, communityID, &tier); err != nil {
			return err
		}

		var remaining []models.Tier
		if err := tx.Where("league_id = ? AND id <> ?", tier.LeagueID, tier.ID).
			Order("tier_order ASC").Find(&remaining).Error; err != nil {
			return err
		}
		if err := scoring.ValidateTierOrdering(remaining); err != nil {
			return &validationError{err}
		}

		if err := tx.Delete(&tier).Error; err != nil {
			return err
		}

		// Move stranded members onto the tier their score now resolves to.
		var stranded []models.Member
		if err := tx.Where("current_tier_id = ?", tier.ID).Find(&stranded).Error; err != nil {
			return err
		}
		for i := range stranded {
			resolved, err := scoring.ResolveTier(stranded[i].TotalScore, remaining)
			if err != nil {
				return err
			}
			if err := tx.Model(&stranded[i]).Update("current_tier_id", resolved.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		l.rejectTierMutation(ctx, err)
		return
	}

	utils.InvalidateByPrefix(messageCachePrefix(tierID))
	utils.Success(ctx, gin.H{"deleted": true})
}

// TierMembers lists members whose score falls in the tier's range:
// at least this tier's minimum and below the next tier's.
func (l *LeagueController) TierMembers(ctx *gin.Context) {
	tierID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40044, "invalid tier id")
		return
	}

	communityID, _ := getCommunityID(ctx)
	var tier models.Tier
	if err := l.findCommunityTier(l.db, tierID, communityID, &tier); err != nil {
		l.rejectTierMutation(ctx, err)
		return
	}

	var tiers []models.Tier
	if err := l.db.Where("league_id = ?", tier.LeagueID).Order("tier_order ASC").Find(&tiers).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to load tiers")
		return
	}

	query := l.db.Model(&models.Member{}).
		Where("community_id = ? AND total_score >= ?", communityID, tier.MinScore)
	for i, t := range tiers {
		if t.ID == tier.ID && i+1 < len(tiers) {
			query = query.Where("total_score < ?", tiers[i+1].MinScore)
			break
		}
	}

	var members []models.Member
	if err := query.Order("total_score DESC").Find(&members).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to load members")
		return
	}

	items := make([]gin.H, 0, len(members))
	for _, m := range members {
		name := m.Name
		if name == "" {
			name = "Unknown"
		}
		items = append(items, gin.H{"id": m.ID, "name": name, "score": m.TotalScore})
	}
	utils.Success(ctx, gin.H{"members": items})
}

func (l *LeagueController) findCommunityTier(tx *gorm.DB, tierID, communityID uint, out *models.Tier) error {
	err := tx.Joins("JOIN leagues ON leagues.id = tiers.league_id").
		Where("tiers.id = ? AND leagues.community_id = ?", tierID, communityID).
		First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errTierNotFound
	}
	return err
}

var errTierNotFound = errors.New("tier not found")

// validationError marks tier-ordering violations so the transaction
// wrapper can distinguish them from storage failures.
type validationError struct{ err error }

func (v *validationError) Error() string { return v.err.Error() }
func (v *validationError) Unwrap() error { return v.err }

func (l *LeagueController) rejectTierMutation(ctx *gin.Context, err error) {
	var ve *validationError
	switch {
	case errors.Is(err, errTierNotFound):
		utils.Error(ctx, http.StatusNotFound, 40432, "tier not found")
	case errors.As(err, &ve):
		utils.Error(ctx, http.StatusBadRequest, 40043, ve.Error())
	default:
		utils.Sugar.Errorf("tier mutation failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50036, "failed to update tier")
	}
}
