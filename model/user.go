package model

import "time"

type User struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Email       string `json:"email" gorm:"uniqueIndex;not null"`
	Username    string `json:"username" gorm:"uniqueIndex;not null"`
	Password    string `json:"-" gorm:"not null"`
	Role        string `json:"role" gorm:"default:user"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio" gorm:"type:text"`
	AvatarKey   string `json:"avatar_key"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
