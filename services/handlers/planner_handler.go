package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/shared"
)

type PlannerHandler struct {
	plannerSvc StudyPlannerInterface
}

func NewPlannerHandler(plannerSvc StudyPlannerInterface) *PlannerHandler {
	return &PlannerHandler{
		plannerSvc: plannerSvc,
	}
}

// @Summary Generate a study plan
// @Description Generate a day-by-day study plan for a subject
// @Tags planner
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param planRequest body dto.GeneratePlanRequest true "Plan parameters"
// @Success 200 {object} shared.Response{data=dto.StudyPlanResponse}
// @Router /api/v1/planner/plan [post]
func (h *PlannerHandler) GeneratePlan(c *fiber.Ctx) error {
	var req dto.GeneratePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.plannerSvc.GeneratePlan(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Study plan generated", resp)
}

// @Summary Generate a quiz
// @Description Generate a multiple-choice quiz for a subject or topic
// @Tags planner
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param quizRequest body dto.GenerateQuizRequest true "Quiz parameters"
// @Success 200 {object} shared.Response{data=dto.GeneratedQuizResponse}
// @Router /api/v1/planner/quiz [post]
func (h *PlannerHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.plannerSvc.GenerateQuiz(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Quiz generated", resp)
}

// @Summary Submit a quiz
// @Description Score a generated quiz and record it as a quiz result
// @Tags planner
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param submitRequest body dto.SubmitQuizRequest true "Quiz answers"
// @Success 201 {object} shared.Response{data=dto.RecordActivityResponse}
// @Router /api/v1/planner/quiz/submit [post]
func (h *PlannerHandler) SubmitQuiz(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.plannerSvc.SubmitQuiz(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Quiz submitted", resp)
}

// @Summary Study recommendations
// @Description Heuristic recommendations derived from recent activity
// @Tags planner
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.RecommendationResponse}
// @Router /api/v1/planner/recommendations [get]
func (h *PlannerHandler) Recommendations(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.plannerSvc.Recommendations(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Recommendations", resp)
}
