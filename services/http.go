package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"

	docs "github.com/luminax-app/luminax_api/docs"
	"github.com/luminax-app/luminax_api/services/handlers"
	"github.com/luminax-app/luminax_api/shared"
)

// AuthGuard is the slice of the auth middleware the router needs. It is
// looked up by service ID to keep the middleware package out of this
// one's imports.
type AuthGuard interface {
	RequiredAuth() fiber.Handler
	OptionalAuth() fiber.Handler
}

type HttpService struct {
	context.DefaultService

	authGuard     AuthGuard
	rateLimitSvc  *RateLimitService
	monitoringSvc *MonitoringService

	authHandler        *handlers.AuthHandler
	userHandler        *handlers.UserHandler
	activityHandler    *handlers.ActivityHandler
	questHandler       *handlers.QuestHandler
	leaderboardHandler *handlers.LeaderboardHandler
	communityHandler   *handlers.CommunityHandler
	settingsHandler    *handlers.SettingsHandler
	plannerHandler     *handlers.PlannerHandler
	mediaHandler       *handlers.MediaHandler

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authGuard = svc.Service("auth").(AuthGuard)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	svc.authHandler = handlers.NewAuthHandler(svc.Service(AUTH_SVC).(*AuthService))
	svc.userHandler = handlers.NewUserHandler(
		svc.Service(USER_SVC).(*UserService),
		svc.Service(LEDGER_SVC).(*ProgressLedgerService),
	)
	svc.activityHandler = handlers.NewActivityHandler(svc.Service(ACTIVITY_SVC).(*ActivityRecorderService))
	svc.questHandler = handlers.NewQuestHandler(svc.Service(QUEST_SVC).(*QuestTrackerService))
	svc.leaderboardHandler = handlers.NewLeaderboardHandler(svc.Service(LEADERBOARD_SVC).(*RankingViewService))
	svc.communityHandler = handlers.NewCommunityHandler(svc.Service(COMMUNITY_SVC).(*CommunityService))
	svc.settingsHandler = handlers.NewSettingsHandler(svc.Service(SETTINGS_SVC).(*SettingsService))
	svc.plannerHandler = handlers.NewPlannerHandler(svc.Service(PLANNER_SVC).(*StudyPlannerService))
	svc.mediaHandler = handlers.NewMediaHandler(svc.Service(MEDIA_SVC).(*MediaService))

	docs.SwaggerInfo.BasePath = ""

	app := fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: svc.errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))
	app.Use(svc.rateLimitSvc.IPRateLimit())

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	svc.registerRoutes(app)

	svc.server = app
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	v1 := app.Group("/api/v1")

	v1.Get("/ping", svc.ping)

	// Auth
	v1.Post("/register", svc.rateLimitSvc.RateLimit("register"), svc.authHandler.Register)
	v1.Post("/login", svc.rateLimitSvc.RateLimit("login"), svc.authHandler.Login)
	v1.Post("/refresh", svc.rateLimitSvc.RateLimit("refresh"), svc.authHandler.RefreshToken)
	v1.Post("/logout", svc.authGuard.RequiredAuth(), svc.authHandler.Logout)
	v1.Post("/logout-all", svc.authGuard.RequiredAuth(), svc.authHandler.LogoutAll)
	v1.Post("/change-password", svc.authGuard.RequiredAuth(), svc.rateLimitSvc.RateLimit("change_password"), svc.authHandler.ChangePassword)

	// Profile
	v1.Get("/profile", svc.authGuard.RequiredAuth(), svc.userHandler.GetProfile)
	v1.Put("/profile", svc.authGuard.RequiredAuth(), svc.rateLimitSvc.RateLimit("profile_update"), svc.userHandler.UpdateProfile)
	v1.Post("/profile/avatar", svc.authGuard.RequiredAuth(), svc.mediaHandler.UploadAvatar)
	v1.Get("/username/check/:username", svc.rateLimitSvc.RateLimit("username_check"), svc.userHandler.CheckUsernameAvailability)

	// Progress
	v1.Get("/progress", svc.authGuard.RequiredAuth(), svc.userHandler.GetProgress)
	v1.Get("/progress/chart", svc.authGuard.RequiredAuth(), svc.userHandler.ProgressChart)
	v1.Get("/progress/subjects", svc.authGuard.RequiredAuth(), svc.userHandler.SubjectBreakdown)

	// Activity
	v1.Post("/activity/study-session", svc.authGuard.RequiredAuth(), svc.rateLimitSvc.RateLimit("record_activity"), svc.activityHandler.RecordStudySession)
	v1.Post("/activity/quiz-result", svc.authGuard.RequiredAuth(), svc.rateLimitSvc.RateLimit("record_activity"), svc.activityHandler.RecordQuizResult)
	v1.Post("/activity/achievement", svc.authGuard.RequiredAuth(), svc.rateLimitSvc.RateLimit("record_activity"), svc.activityHandler.RecordAchievement)
	v1.Get("/activity/recent", svc.authGuard.RequiredAuth(), svc.activityHandler.RecentActivity)
	v1.Get("/achievements", svc.authGuard.RequiredAuth(), svc.activityHandler.UserAchievements)

	// Quests
	v1.Post("/quests", svc.authGuard.RequiredAuth(), svc.questHandler.CreateQuest)
	v1.Get("/quests", svc.authGuard.RequiredAuth(), svc.questHandler.ListQuests)
	v1.Post("/quests/:questId/advance", svc.authGuard.RequiredAuth(), svc.questHandler.AdvanceQuest)

	// Leaderboards
	v1.Get("/leaderboard", svc.leaderboardHandler.GetLeaderboard)
	v1.Get("/leaderboard/weekly", svc.leaderboardHandler.GetWeeklyLeaderboard)
	v1.Get("/leaderboard/achievements", svc.leaderboardHandler.GetAchievementLeaderboard)
	v1.Get("/leaderboard/community/:communityId", svc.leaderboardHandler.GetCommunityLeaderboard)
	v1.Get("/leaderboard/me", svc.authGuard.RequiredAuth(), svc.leaderboardHandler.GetMyRank)

	// Communities
	v1.Post("/communities", svc.authGuard.RequiredAuth(), svc.communityHandler.CreateCommunity)
	v1.Get("/communities", svc.authGuard.OptionalAuth(), svc.communityHandler.ListCommunities)
	v1.Get("/communities/mine", svc.authGuard.RequiredAuth(), svc.communityHandler.MyCommunities)
	v1.Post("/communities/:communityId/join", svc.authGuard.RequiredAuth(), svc.communityHandler.JoinCommunity)
	v1.Post("/communities/:communityId/leave", svc.authGuard.RequiredAuth(), svc.communityHandler.LeaveCommunity)
	v1.Post("/communities/:communityId/posts", svc.authGuard.RequiredAuth(), svc.communityHandler.CreatePost)
	v1.Get("/communities/:communityId/posts", svc.authGuard.OptionalAuth(), svc.communityHandler.ListPosts)
	v1.Delete("/posts/:postId", svc.authGuard.RequiredAuth(), svc.communityHandler.DeletePost)
	v1.Post("/posts/:postId/like", svc.authGuard.RequiredAuth(), svc.communityHandler.LikePost)
	v1.Delete("/posts/:postId/like", svc.authGuard.RequiredAuth(), svc.communityHandler.UnlikePost)

	// Settings
	v1.Get("/settings", svc.authGuard.RequiredAuth(), svc.settingsHandler.GetSettings)
	v1.Put("/settings", svc.authGuard.RequiredAuth(), svc.settingsHandler.UpdateSettings)
	v1.Get("/settings/export", svc.authGuard.RequiredAuth(), svc.settingsHandler.ExportData)
	v1.Delete("/account", svc.authGuard.RequiredAuth(), svc.settingsHandler.DeleteAccount)

	// Planner
	v1.Post("/planner/plan", svc.authGuard.RequiredAuth(), svc.rateLimitSvc.RateLimit("ai_generate"), svc.plannerHandler.GeneratePlan)
	v1.Post("/planner/quiz", svc.authGuard.RequiredAuth(), svc.rateLimitSvc.RateLimit("ai_generate"), svc.plannerHandler.GenerateQuiz)
	v1.Post("/planner/quiz/submit", svc.authGuard.RequiredAuth(), svc.rateLimitSvc.RateLimit("record_activity"), svc.plannerHandler.SubmitQuiz)
	v1.Get("/planner/recommendations", svc.authGuard.RequiredAuth(), svc.plannerHandler.Recommendations)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

// errorHandler maps service errors onto response codes. AppErrors carry
// their own status; tagged database errors keep their gorm cause in the
// chain so errors.Is still sees it here.
func (svc *HttpService) errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ResponseNotFound(c)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ResponseJSON(c, http.StatusConflict, "Conflict", nil)
	}

	return shared.ResponseInternalError(c, err)
}
