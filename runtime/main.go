package main

import (
	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/luminax-app/luminax_api/middleware"
	"github.com/luminax-app/luminax_api/services"
)

// @title Luminax API
// @version 1.0
// @description Gamified study tracking backend
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.JWTService{},
		&services.SqlService{},
		&services.RedisService{},
		&services.MinIOService{},

		&services.AuthService{},
		&services.ProgressLedgerService{},
		&services.ActivityRecorderService{},
		&services.QuestTrackerService{},
		&services.RankingViewService{},
		&services.CommunityService{},
		&services.SettingsService{},
		&services.StudyPlannerService{},
		&services.UserService{},
		&services.MediaService{},
		&services.RateLimitService{},

		&middleware.AuthMiddleware{},
		&services.MonitoringService{},
		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure services")
		return
	}

	if err := ctx.Run(); err != nil {
		log.Fatal().Err(err).Msg("Service runtime exited")
		return
	}
}
