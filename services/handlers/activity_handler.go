package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/shared"
)

type ActivityHandler struct {
	activitySvc ActivityRecorderInterface
}

func NewActivityHandler(activitySvc ActivityRecorderInterface) *ActivityHandler {
	return &ActivityHandler{
		activitySvc: activitySvc,
	}
}

// @Summary Record a study session
// @Description Log a study session; XP is credited at one point per minute
// @Tags activity
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param sessionRequest body dto.StudySessionRequest true "Study session details"
// @Success 201 {object} shared.Response{data=dto.RecordActivityResponse}
// @Router /api/v1/activity/study-session [post]
func (h *ActivityHandler) RecordStudySession(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.StudySessionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.activitySvc.RecordStudySession(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Study session recorded", resp)
}

// @Summary Record a quiz result
// @Description Log a quiz result; omit xp_earned to use the score based default
// @Tags activity
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param quizRequest body dto.QuizResultRequest true "Quiz result details"
// @Success 201 {object} shared.Response{data=dto.RecordActivityResponse}
// @Router /api/v1/activity/quiz-result [post]
func (h *ActivityHandler) RecordQuizResult(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.QuizResultRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.activitySvc.RecordQuizResult(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Quiz result recorded", resp)
}

// @Summary Grant an achievement
// @Description Grant an achievement once per kind; repeats conflict
// @Tags activity
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param achievementRequest body dto.AchievementRequest true "Achievement details"
// @Success 201 {object} shared.Response{data=dto.RecordActivityResponse}
// @Router /api/v1/activity/achievement [post]
func (h *ActivityHandler) RecordAchievement(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.AchievementRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.activitySvc.RecordAchievement(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Achievement granted", resp)
}

// @Summary Recent activity
// @Description List the user's most recent activity events
// @Tags activity
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param limit query int false "Number of events to return" default(20)
// @Success 200 {object} shared.Response{data=[]dto.ActivityEventResponse}
// @Router /api/v1/activity/recent [get]
func (h *ActivityHandler) RecentActivity(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	limit := c.QueryInt("limit", 20)

	resp, err := h.activitySvc.RecentActivity(userID, limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Recent activity", resp)
}

// @Summary List achievements
// @Description List the achievements the user has earned
// @Tags activity
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.AchievementResponse}
// @Router /api/v1/achievements [get]
func (h *ActivityHandler) UserAchievements(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.activitySvc.UserAchievements(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Achievements", resp)
}
