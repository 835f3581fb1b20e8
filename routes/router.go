package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mayank2130/user-leagues/config"
	"github.com/mayank2130/user-leagues/controllers"
	"github.com/mayank2130/user-leagues/middleware"
	"github.com/mayank2130/user-leagues/platform"
	"github.com/mayank2130/user-leagues/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	ginLogPath := cfg.GinPath
	// Use application log level as reference
	gl, err := utils.NewRollingFileLogger(ginLogPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Whop-User-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	platformClient := platform.NewClient(cfg.PlatformBaseURL, cfg.PlatformAPIKey)

	experienceController := controllers.NewExperienceController(db, platformClient)
	pointsController := controllers.NewPointsController(db)
	leagueController := controllers.NewLeagueController(db)
	messageController := controllers.NewMessageController(db)
	supportController := controllers.NewSupportController(db)
	subscriptionController := controllers.NewSubscriptionController(db)
	webhookController := controllers.NewWebhookController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	// Public endpoints: session bootstrap and platform callbacks
	public := api.Group("")
	public.Use(middleware.RateLimitMiddleware())
	public.POST("/experiences/:experienceId/enter", experienceController.Enter)
	public.POST("/webhooks/payments", webhookController.HandlePayment)
	public.POST("/subscriptions/expire-sweep", subscriptionController.ExpireSweep)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware(), middleware.ActivityRecorder(db))

	protected.GET("/me", experienceController.Me)

	protected.POST("/points/check-in", pointsController.DailyCheckIn)
	protected.POST("/points/message-read", pointsController.MessageRead)
	protected.POST("/points/session", pointsController.SessionTime)
	protected.GET("/points/history", pointsController.History)

	protected.GET("/league", leagueController.GetLeague)
	protected.GET("/tiers/:id/members", leagueController.TierMembers)

	protected.GET("/tiers/:id/messages", messageController.ListMessages)
	protected.POST("/tiers/:id/messages", messageController.SendMessage)

	protected.POST("/tickets", supportController.CreateTicket)
	protected.GET("/tickets", supportController.ListTickets)
	protected.POST("/feedback", supportController.CreateFeedback)
	protected.GET("/feedback", supportController.ListFeedback)

	protected.POST("/subscriptions/trial", subscriptionController.StartTrial)
	protected.GET("/subscriptions/status", subscriptionController.Status)

	protected.GET("/stats/leaderboard", statsController.Leaderboard)

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminRequired())
	admin.PUT("/leagues/:id", leagueController.UpdateLeague)
	admin.POST("/tiers", leagueController.CreateTier)
	admin.PUT("/tiers/:id", leagueController.UpdateTier)
	admin.DELETE("/tiers/:id", leagueController.DeleteTier)
	admin.GET("/points/config", pointsController.GetConfig)
	admin.PUT("/points/config", pointsController.UpdateConfig)
	admin.PATCH("/tickets/:id/status", supportController.UpdateTicketStatus)
	admin.DELETE("/tickets/:id", supportController.DeleteTicket)
	admin.DELETE("/feedback/:id", supportController.DeleteFeedback)
	admin.GET("/support/unread", supportController.UnreadCounts)
	admin.POST("/support/tiers/:id/viewed", supportController.MarkTierViewed)
	admin.GET("/subscriptions", subscriptionController.ListSubscriptions)
	admin.GET("/stats", statsController.Overview)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
	})

	return r
}
