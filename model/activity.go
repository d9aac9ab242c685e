package model

import "time"

// ActivityEvent is an append-only record of everything that earned XP.
// Kind-specific columns stay nullable-zero for the other kinds.
type ActivityEvent struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	UserID          string    `json:"user_id" gorm:"not null;index:idx_activity_user_time"`
	Kind            string    `json:"kind" gorm:"not null;size:32;index"`
	Subject         string    `json:"subject" gorm:"size:100"`
	Topic           string    `json:"topic" gorm:"size:200"`
	DurationMinutes int       `json:"duration_minutes"`
	Score           int       `json:"score"`
	TotalQuestions  int       `json:"total_questions"`
	XPAwarded       int64     `json:"xp_awarded" gorm:"not null"`
	OccurredAt      time.Time `json:"occurred_at" gorm:"not null;index:idx_activity_user_time"`
	CreatedAt       time.Time `json:"created_at"`
}

// Achievement grants are unique per user and kind.
type Achievement struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_achievement_user_kind"`
	Kind      string    `json:"kind" gorm:"not null;size:100;uniqueIndex:idx_achievement_user_kind"`
	Title     string    `json:"title"`
	XPReward  int64     `json:"xp_reward" gorm:"not null"`
	EarnedAt  time.Time `json:"earned_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}
