package model

import "time"

// Quest tracks a single user goal. Status moves active -> completed or
// active -> expired; the reward is granted on the one transition into
// completed and never again.
type Quest struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"user_id" gorm:"not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"type:text"`
	TargetKind  string     `json:"target_kind" gorm:"size:32"` // minutes, quizzes, sessions
	Subject     string     `json:"subject" gorm:"size:100"`
	Target      int        `json:"target" gorm:"not null"`
	Progress    int        `json:"progress" gorm:"default:0;not null"`
	XPReward    int64      `json:"xp_reward" gorm:"not null"`
	Status      string     `json:"status" gorm:"default:active;not null;size:16;index"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" gorm:"index"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
