package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/luminax-app/luminax_api/shared"
)

type MediaHandler struct {
	mediaSvc MediaServiceInterface
}

func NewMediaHandler(mediaSvc MediaServiceInterface) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
	}
}

// @Summary Upload avatar
// @Description Upload a profile image (JPG, PNG or WEBP, max 5MB)
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} shared.Response{data=dto.AvatarUploadResponse}
// @Router /api/v1/profile/avatar [post]
func (h *MediaHandler) UploadAvatar(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	file, err := c.FormFile("avatar")
	if err != nil {
		return shared.NewBadRequestError(err, "No avatar file provided")
	}

	response, err := h.mediaSvc.UploadAvatar(userID, file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Avatar uploaded", response)
}
