package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/shared"
)

type SettingsHandler struct {
	settingsSvc SettingsServiceInterface
}

func NewSettingsHandler(settingsSvc SettingsServiceInterface) *SettingsHandler {
	return &SettingsHandler{
		settingsSvc: settingsSvc,
	}
}

// @Summary Get settings
// @Description Get the user's preferences
// @Tags settings
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.SettingsResponse}
// @Router /api/v1/settings [get]
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.settingsSvc.GetSettings(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Settings", resp)
}

// @Summary Update settings
// @Description Partially update the user's preferences
// @Tags settings
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param settingsRequest body dto.UpdateSettingsRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.SettingsResponse}
// @Router /api/v1/settings [put]
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.settingsSvc.UpdateSettings(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Settings updated", resp)
}

// @Summary Export account data
// @Description Download everything the account owns as a JSON document
// @Tags settings
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/settings/export [get]
func (h *SettingsHandler) ExportData(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	data, err := h.settingsSvc.ExportData(userID)
	if err != nil {
		return err
	}

	c.Set("Content-Type", "application/json")
	c.Set("Content-Disposition", "attachment; filename=luminax-export.json")
	return c.Status(http.StatusOK).Send(data)
}

// @Summary Delete account
// @Description Permanently delete the account and everything it owns
// @Tags settings
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param deleteRequest body dto.DeleteAccountRequest true "Password confirmation"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/account [delete]
func (h *SettingsHandler) DeleteAccount(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.settingsSvc.DeleteAccount(userID, req); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Account deleted", nil)
}
