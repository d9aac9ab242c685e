package model

import "time"

type UserSettings struct {
	ID                 string    `json:"id" gorm:"primaryKey"`
	UserID             string    `json:"user_id" gorm:"uniqueIndex;not null"`
	Theme              string    `json:"theme" gorm:"default:system;size:16"`
	Language           string    `json:"language" gorm:"default:en;size:8"`
	Notifications      bool      `json:"notifications" gorm:"default:true"`
	PublicProfile      bool      `json:"public_profile" gorm:"default:true"`
	WeeklyGoalMinutes  int       `json:"weekly_goal_minutes" gorm:"default:300"`
	ReminderHour       int       `json:"reminder_hour" gorm:"default:18"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
