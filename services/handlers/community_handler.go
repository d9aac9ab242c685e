package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/shared"
)

type CommunityHandler struct {
	communitySvc CommunityServiceInterface
}

func NewCommunityHandler(communitySvc CommunityServiceInterface) *CommunityHandler {
	return &CommunityHandler{
		communitySvc: communitySvc,
	}
}

// @Summary Create a community
// @Description Create a study community; the creator joins automatically
// @Tags community
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param communityRequest body dto.CreateCommunityRequest true "Community details"
// @Success 201 {object} shared.Response{data=dto.CommunityResponse}
// @Router /api/v1/communities [post]
func (h *CommunityHandler) CreateCommunity(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CreateCommunityRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.communitySvc.CreateCommunity(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Community created", resp)
}

// @Summary List communities
// @Description List communities with the caller's membership flag
// @Tags community
// @Accept json
// @Produce json
// @Param limit query int false "Limit results (default 50)"
// @Success 200 {object} shared.Response{data=dto.CommunityListResponse}
// @Router /api/v1/communities [get]
func (h *CommunityHandler) ListCommunities(c *fiber.Ctx) error {
	userID, _ := c.Locals(shared.UserID).(string)
	limit := c.QueryInt("limit", 0)

	resp, err := h.communitySvc.ListCommunities(userID, limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Communities", resp)
}

// @Summary My communities
// @Description List communities the user is a member of
// @Tags community
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.CommunityListResponse}
// @Router /api/v1/communities/mine [get]
func (h *CommunityHandler) MyCommunities(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.communitySvc.MyCommunities(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "My communities", resp)
}

// @Summary Join a community
// @Description Join a community; joining twice conflicts
// @Tags community
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param communityId path string true "Community ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/communities/{communityId}/join [post]
func (h *CommunityHandler) JoinCommunity(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	communityID := c.Params("communityId")

	if err := h.communitySvc.Join(userID, communityID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Joined community", nil)
}

// @Summary Leave a community
// @Description Leave a community the user belongs to
// @Tags community
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param communityId path string true "Community ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/communities/{communityId}/leave [post]
func (h *CommunityHandler) LeaveCommunity(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	communityID := c.Params("communityId")

	if err := h.communitySvc.Leave(userID, communityID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Left community", nil)
}

// @Summary Create a post
// @Description Post to a community the user is a member of
// @Tags community
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param communityId path string true "Community ID"
// @Param postRequest body dto.CreatePostRequest true "Post content"
// @Success 201 {object} shared.Response{data=dto.PostResponse}
// @Router /api/v1/communities/{communityId}/posts [post]
func (h *CommunityHandler) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	communityID := c.Params("communityId")

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.communitySvc.CreatePost(userID, communityID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Post created", resp)
}

// @Summary List posts
// @Description List a community's posts, newest first
// @Tags community
// @Accept json
// @Produce json
// @Param communityId path string true "Community ID"
// @Param limit query int false "Limit results (default 50)"
// @Success 200 {object} shared.Response{data=dto.PostListResponse}
// @Router /api/v1/communities/{communityId}/posts [get]
func (h *CommunityHandler) ListPosts(c *fiber.Ctx) error {
	userID, _ := c.Locals(shared.UserID).(string)
	communityID := c.Params("communityId")
	limit := c.QueryInt("limit", 0)

	resp, err := h.communitySvc.ListPosts(userID, communityID, limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Posts", resp)
}

// @Summary Delete a post
// @Description Delete the authenticated user's own post
// @Tags community
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param postId path string true "Post ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/posts/{postId} [delete]
func (h *CommunityHandler) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	postID := c.Params("postId")

	if err := h.communitySvc.DeletePost(userID, postID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Post deleted", nil)
}

// @Summary Like a post
// @Description Like a post; liking twice conflicts
// @Tags community
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param postId path string true "Post ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/posts/{postId}/like [post]
func (h *CommunityHandler) LikePost(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	postID := c.Params("postId")

	if err := h.communitySvc.LikePost(userID, postID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Post liked", nil)
}

// @Summary Unlike a post
// @Description Remove the user's like from a post
// @Tags community
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param postId path string true "Post ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/posts/{postId}/like [delete]
func (h *CommunityHandler) UnlikePost(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	postID := c.Params("postId")

	if err := h.communitySvc.UnlikePost(userID, postID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Post unliked", nil)
}
