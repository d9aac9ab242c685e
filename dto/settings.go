package dto

// ==================== SETTINGS DTOs ====================

type UpdateSettingsRequest struct {
	Theme             *string `json:"theme,omitempty" validate:"omitempty,oneof=light dark system"`
	Language          *string `json:"language,omitempty" validate:"omitempty,min=2,max=8"`
	Notifications     *bool   `json:"notifications,omitempty"`
	PublicProfile     *bool   `json:"public_profile,omitempty"`
	WeeklyGoalMinutes *int    `json:"weekly_goal_minutes,omitempty" validate:"omitempty,gt=0,lte=10080"`
	ReminderHour      *int    `json:"reminder_hour,omitempty" validate:"omitempty,gte=0,lte=23"`
}

func (r UpdateSettingsRequest) Validate() error {
	return GetValidator().Struct(r)
}

type SettingsResponse struct {
	Theme             string `json:"theme"`
	Language          string `json:"language"`
	Notifications     bool   `json:"notifications"`
	PublicProfile     bool   `json:"public_profile"`
	WeeklyGoalMinutes int    `json:"weekly_goal_minutes"`
	ReminderHour      int    `json:"reminder_hour"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

func (r DeleteAccountRequest) Validate() error {
	return GetValidator().Struct(r)
}
