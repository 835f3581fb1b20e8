package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mayank2130/user-leagues/models"
	"github.com/mayank2130/user-leagues/platform"
	"github.com/mayank2130/user-leagues/utils"
)

// Default tier ladder seeded for a community's first league.
var defaultTiers = []models.Tier{
	{Name: "Bronze", MinScore: 0, Order: 0, Color: "#cd7f32", Icon: "medal"},
	{Name: "Silver", MinScore: 100, Order: 1, Color: "#c0c0c0", Icon: "medal"},
	{Name: "Gold", MinScore: 250, Order: 2, Color: "#ffd700", Icon: "trophy"},
	{Name: "Diamond", MinScore: 500, Order: 3, Color: "#b9f2ff", Icon: "gem"},
}

const sessionTokenDuration = 24 * time.Hour

// ExperienceController bootstraps a member's entry into a community:
// platform token verification, access check, community/league/member
// provisioning and session token issuance.
type ExperienceController struct {
	db       *gorm.DB
	platform *platform.Client
}

// NewExperienceController creates a new controller instance.
func NewExperienceController(db *gorm.DB, pc *platform.Client) *ExperienceController {
	return &ExperienceController{db: db, platform: pc}
}

// Enter handles a member opening the app inside an experience. The
// platform forwards its signed user token in X-Whop-User-Token.
func (e *ExperienceController) Enter(ctx *gin.Context) {
	experienceID := ctx.Param("experienceId")

	userToken := ctx.GetHeader("X-Whop-User-Token")
	if userToken == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "platform user token missing")
		return
	}
	whopUserID, err := utils.VerifyPlatformToken(userToken)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "invalid platform user token")
		return
	}

	reqCtx := ctx.Request.Context()
	experience, err := e.platform.RetrieveExperience(reqCtx, experienceID)
	if err != nil {
		utils.Sugar.Warnf("retrieve experience failed: %v", err)
		utils.Error(ctx, http.StatusBadGateway, 50210, "failed to reach membership platform")
		return
	}

	access, err := e.platform.CheckAccess(reqCtx, experienceID, whopUserID)
	if err != nil {
		utils.Sugar.Warnf("access check failed: %v", err)
		utils.Error(ctx, http.StatusBadGateway, 50211, "failed to reach membership platform")
		return
	}
	if !access.HasAccess {
		utils.Error(ctx, http.StatusForbidden, 40310, "no access to this experience")
		return
	}

	user, err := e.platform.RetrieveUser(reqCtx, whopUserID)
	if err != nil {
		utils.Sugar.Warnf("retrieve user failed: %v", err)
		utils.Error(ctx, http.StatusBadGateway, 50212, "failed to reach membership platform")
		return
	}

	role := models.RoleMember
	if access.AccessLevel == platform.AccessLevelAdmin {
		role = models.RoleAdmin
	}

	var member models.Member
	var league models.League
	err = e.db.Transaction(func(tx *gorm.DB) error {
		community, err := upsertCommunity(tx, experience.Company.ID, experience.Company.Title)
		if err != nil {
			return err
		}
		league, err = ensureLeague(tx, community)
		if err != nil {
			return err
		}
		member, err = upsertMember(tx, community.ID, whopUserID, user.DisplayName(), role, league)
		return err
	})
	if err != nil {
		utils.Sugar.Errorf("experience bootstrap failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to initialize membership")
		return
	}

	token, err := utils.GenerateToken(member.ID, member.CommunityID, whopUserID, member.Role, sessionTokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to issue session token")
		return
	}

	utils.Success(ctx, gin.H{
		"token":  token,
		"member": member,
		"league": league,
		"role":   member.Role,
	})
}

// Me returns the authenticated member with current tier and league.
func (e *ExperienceController) Me(ctx *gin.Context) {
	memberID, ok := getMemberID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	var member models.Member
	if err := e.db.Preload("CurrentTier").First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "member not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load member")
		return
	}

	var league models.League
	if err := e.db.Preload("Tiers", func(db *gorm.DB) *gorm.DB {
		return db.Order("tier_order ASC")
	}).Where("community_id = ?", member.CommunityID).First(&league).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load league")
		return
	}

	utils.Success(ctx, gin.H{"member": member, "league": league})
}

func upsertCommunity(tx *gorm.DB, whopID, name string) (*models.Community, error) {
	community := models.Community{WhopID: whopID, Name: name}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "whop_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"name": name, "updated_at": time.Now()}),
	}).Create(&community).Error; err != nil {
		return nil, err
	}
	// Re-read on the conflict path to get the existing row id.
	if err := tx.Where("whop_id = ?", whopID).First(&community).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

// ensureLeague returns the community's league, seeding the default
// tier ladder on first entry.
func ensureLeague(tx *gorm.DB, community *models.Community) (models.League, error) {
	var league models.League
	err := tx.Preload("Tiers", func(db *gorm.DB) *gorm.DB {
		return db.Order("tier_order ASC")
	}).Where("community_id = ?", community.ID).First(&league).Error
	if err == nil {
		return league, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return league, err
	}

	league = models.League{
		CommunityID: community.ID,
		Name:        community.Name + " League",
		Active:      true,
		Tiers:       make([]models.Tier, len(defaultTiers)),
	}
	copy(league.Tiers, defaultTiers)
	if err := tx.Create(&league).Error; err != nil {
		return league, err
	}
	return league, nil
}

func upsertMember(tx *gorm.DB, communityID uint, whopID, name, role string, league models.League) (models.Member, error) {
	var member models.Member
	err := tx.Where("community_id = ? AND whop_id = ?", communityID, whopID).First(&member).Error
	switch {
	case err == nil:
		member.Name = name
		member.Role = role
		member.LastActive = time.Now()
		if err := tx.Save(&member).Error; err != nil {
			return member, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry := league.Tiers[0] // lowest order, seeded above
		member = models.Member{
			CommunityID:   communityID,
			WhopID:        whopID,
			Name:          name,
			Role:          role,
			TotalScore:    0,
			CurrentTierID: &entry.ID,
		}
		if err := tx.Create(&member).Error; err != nil {
			return member, err
		}
	default:
		return member, err
	}

	err = tx.Preload("CurrentTier").First(&member, member.ID).Error
	return member, err
}
