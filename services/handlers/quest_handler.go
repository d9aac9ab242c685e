package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/shared"
)

type QuestHandler struct {
	questSvc QuestTrackerInterface
}

func NewQuestHandler(questSvc QuestTrackerInterface) *QuestHandler {
	return &QuestHandler{
		questSvc: questSvc,
	}
}

// @Summary Create a quest
// @Description Create a personal quest with a target and optional deadline
// @Tags quest
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param questRequest body dto.CreateQuestRequest true "Quest details"
// @Success 201 {object} shared.Response{data=dto.QuestResponse}
// @Router /api/v1/quests [post]
func (h *QuestHandler) CreateQuest(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CreateQuestRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.questSvc.CreateQuest(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Quest created", resp)
}

// @Summary List quests
// @Description List the user's quests; overdue ones are expired on read
// @Tags quest
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.QuestListResponse}
// @Router /api/v1/quests [get]
func (h *QuestHandler) ListQuests(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.questSvc.ListQuests(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Quests", resp)
}

// @Summary Advance a quest
// @Description Bump quest progress; the advance that reaches the target pays the reward once
// @Tags quest
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param questId path string true "Quest ID"
// @Param advanceRequest body dto.AdvanceQuestRequest true "Amount to advance by"
// @Success 200 {object} shared.Response{data=dto.AdvanceQuestResponse}
// @Router /api/v1/quests/{questId}/advance [post]
func (h *QuestHandler) AdvanceQuest(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	questID := c.Params("questId")

	var req dto.AdvanceQuestRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.questSvc.AdvanceQuest(userID, questID, req.Amount)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Quest advanced", resp)
}
