package dto

// ==================== LEADERBOARD DTOs ====================

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Level       int    `json:"level"`
	XP          int64  `json:"xp"`
}

type LeaderboardResponse struct {
	Scope   string             `json:"scope"` // all_time, weekly, achievements, community
	Entries []LeaderboardEntry `json:"entries"`
}

type WeeklyLeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	XPEarned int64  `json:"xp_earned"`
}

type WeeklyLeaderboardResponse struct {
	Entries []WeeklyLeaderboardEntry `json:"entries"`
}

type AchievementLeaderboardEntry struct {
	Rank         int    `json:"rank"`
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	Achievements int64  `json:"achievements"`
}

type AchievementLeaderboardResponse struct {
	Entries []AchievementLeaderboardEntry `json:"entries"`
}

type MyRankResponse struct {
	UserID string `json:"user_id"`
	Rank   int64  `json:"rank"`
	XP     int64  `json:"xp"`
	Total  int64  `json:"total_users"`
}
