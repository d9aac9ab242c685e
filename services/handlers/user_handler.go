package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/shared"
)

type UserHandler struct {
	userSvc   UserServiceInterface
	ledgerSvc ProgressLedgerInterface
}

func NewUserHandler(userSvc UserServiceInterface, ledgerSvc ProgressLedgerInterface) *UserHandler {
	return &UserHandler{
		userSvc:   userSvc,
		ledgerSvc: ledgerSvc,
	}
}

// @Summary Get profile
// @Description Get the authenticated user's profile with progress summary
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.UserProfileResponse}
// @Router /api/v1/profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.userSvc.GetProfile(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Profile", resp)
}

// @Summary Update profile
// @Description Update username, display name or bio
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param updateRequest body dto.UpdateProfileRequest true "Profile fields to update"
// @Success 200 {object} shared.Response{data=dto.UserProfileResponse}
// @Router /api/v1/profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.userSvc.UpdateProfile(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Profile updated", resp)
}

// @Summary Check username availability
// @Description Check if a username is free to claim
// @Tags user
// @Accept json
// @Produce json
// @Param username path string true "Username to check"
// @Success 200 {object} shared.Response{data=dto.UsernameAvailabilityResponse}
// @Router /api/v1/username/check/{username} [get]
func (h *UserHandler) CheckUsernameAvailability(c *fiber.Ctx) error {
	username := c.Params("username")

	resp, err := h.userSvc.CheckUsernameAvailability(username)
	if err != nil {
		return err
	}

	message := "Username is available"
	if !resp.Available {
		message = "Username is already taken"
	}

	return shared.ResponseJSON(c, http.StatusOK, message, resp)
}

// @Summary Get progress summary
// @Description Get the user's XP, level, streak and distance to the next level
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.ProgressSummary}
// @Router /api/v1/progress [get]
func (h *UserHandler) GetProgress(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.ledgerSvc.GetProgress(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Progress", resp)
}

// @Summary Daily progress chart
// @Description One zero-filled point per day for the trailing window
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param days query int false "Window size in days" default(30)
// @Success 200 {object} shared.Response{data=dto.ProgressChartResponse}
// @Router /api/v1/progress/chart [get]
func (h *UserHandler) ProgressChart(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	days := c.QueryInt("days", 30)

	resp, err := h.userSvc.ProgressChart(userID, days)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Progress chart", resp)
}

// @Summary Per-subject totals
// @Description XP, minutes, sessions and quizzes grouped by subject
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.SubjectBreakdownResponse}
// @Router /api/v1/progress/subjects [get]
func (h *UserHandler) SubjectBreakdown(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.userSvc.SubjectBreakdown(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Subject breakdown", resp)
}
