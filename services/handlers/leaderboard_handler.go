package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/luminax-app/luminax_api/shared"
)

type LeaderboardHandler struct {
	rankingSvc RankingViewInterface
}

func NewLeaderboardHandler(rankingSvc RankingViewInterface) *LeaderboardHandler {
	return &LeaderboardHandler{
		rankingSvc: rankingSvc,
	}
}

// @Summary All-time leaderboard
// @Description Top users by total XP, ties broken by user ID
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param limit query int false "Limit results (default 10, max 100)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	leaderboard, err := h.rankingSvc.Top(limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", leaderboard)
}

// @Summary Weekly leaderboard
// @Description Top users by XP earned over the trailing seven days
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param limit query int false "Limit results (default 10, max 100)"
// @Success 200 {object} shared.Response{data=dto.WeeklyLeaderboardResponse}
// @Router /api/v1/leaderboard/weekly [get]
func (h *LeaderboardHandler) GetWeeklyLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	leaderboard, err := h.rankingSvc.WeeklyTop(limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", leaderboard)
}

// @Summary Achievement leaderboard
// @Description Top users by number of achievements earned
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param limit query int false "Limit results (default 10, max 100)"
// @Success 200 {object} shared.Response{data=dto.AchievementLeaderboardResponse}
// @Router /api/v1/leaderboard/achievements [get]
func (h *LeaderboardHandler) GetAchievementLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	leaderboard, err := h.rankingSvc.AchievementsTop(limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", leaderboard)
}

// @Summary Community leaderboard
// @Description All-time board scoped to one community's members
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param communityId path string true "Community ID"
// @Param limit query int false "Limit results (default 10, max 100)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard/community/{communityId} [get]
func (h *LeaderboardHandler) GetCommunityLeaderboard(c *fiber.Ctx) error {
	communityID := c.Params("communityId")
	limit := c.QueryInt("limit", 0)

	leaderboard, err := h.rankingSvc.CommunityTop(communityID, limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", leaderboard)
}

// @Summary My rank
// @Description The authenticated user's rank: one plus the number of users with strictly more XP
// @Tags leaderboard
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.MyRankResponse}
// @Router /api/v1/leaderboard/me [get]
func (h *LeaderboardHandler) GetMyRank(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	rank, err := h.rankingSvc.RankOf(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", rank)
}
