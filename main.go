package main

import (
	"github.com/mayank2130/user-leagues/config"
	"github.com/mayank2130/user-leagues/models"
	"github.com/mayank2130/user-leagues/routes"
	"github.com/mayank2130/user-leagues/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.Community{},
		&models.League{},
		&models.Tier{},
		&models.Member{},
		&models.ScoreHistory{},
		&models.Message{},
		&models.MessageRead{},
		&models.PointsConfig{},
		&models.Ticket{},
		&models.Feedback{},
		&models.Subscription{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
