package dto

import "time"

// ==================== PROFILE DTOs ====================

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"max=60"`
	Bio         string `json:"bio" validate:"max=500"`
	Username    string `json:"username" validate:"omitempty,min=3,max=30,alphanum"`
}

func (r UpdateProfileRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UserProfileResponse struct {
	UserID           string          `json:"user_id"`
	Email            string          `json:"email"`
	Username         string          `json:"username"`
	DisplayName      string          `json:"display_name,omitempty"`
	Bio              string          `json:"bio,omitempty"`
	AvatarURL        string          `json:"avatar_url,omitempty"`
	JoinedAt         time.Time       `json:"joined_at"`
	LastLoginAt      *time.Time      `json:"last_login_at,omitempty"`
	Progress         ProgressSummary `json:"progress"`
	AchievementCount int64           `json:"achievement_count"`
}

type UsernameAvailabilityResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

// ==================== PROGRESS DTOs ====================

type ProgressSummary struct {
	UserID           string     `json:"user_id"`
	XP               int64      `json:"xp"`
	Level            int        `json:"level"`
	XPToNextLevel    int64      `json:"xp_to_next_level"`
	Streak           int        `json:"streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
}

type DailyActivityPoint struct {
	Date     string `json:"date"` // YYYY-MM-DD
	XP       int64  `json:"xp"`
	Minutes  int    `json:"minutes"`
	Sessions int    `json:"sessions"`
}

type ProgressChartResponse struct {
	Days   int                  `json:"days"`
	Points []DailyActivityPoint `json:"points"`
}

type SubjectBreakdown struct {
	Subject  string `json:"subject"`
	XP       int64  `json:"xp"`
	Minutes  int    `json:"minutes"`
	Sessions int    `json:"sessions"`
	Quizzes  int    `json:"quizzes"`
}

type SubjectBreakdownResponse struct {
	Subjects []SubjectBreakdown `json:"subjects"`
}

// ==================== ACHIEVEMENT DTOs ====================

type AchievementResponse struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Title    string    `json:"title,omitempty"`
	XPReward int64     `json:"xp_reward"`
	EarnedAt time.Time `json:"earned_at"`
}
