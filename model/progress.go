package model

import "time"

// UserProgress is the per-user gamification ledger row. XP only ever
// grows; level is derived from XP and stored for cheap reads.
type UserProgress struct {
	ID               string     `json:"id" gorm:"primaryKey"`
	UserID           string     `json:"user_id" gorm:"uniqueIndex;not null"`
	XP               int64      `json:"xp" gorm:"default:0;not null"`
	Level            int        `json:"level" gorm:"default:1;not null"`
	Streak           int        `json:"streak" gorm:"default:0;not null"`
	LongestStreak    int        `json:"longest_streak" gorm:"default:0;not null"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
