package model

import "time"

type Community struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Subject     string    `json:"subject" gorm:"size:100"`
	MemberCount int       `json:"member_count" gorm:"default:0;not null"`
	CreatedBy   string    `json:"created_by" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CommunityMember struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	CommunityID string    `json:"community_id" gorm:"not null;uniqueIndex:idx_member_community_user"`
	UserID      string    `json:"user_id" gorm:"not null;uniqueIndex:idx_member_community_user"`
	JoinedAt    time.Time `json:"joined_at" gorm:"not null"`
}

type CommunityPost struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	CommunityID string    `json:"community_id" gorm:"not null;index"`
	UserID      string    `json:"user_id" gorm:"not null;index"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	LikeCount   int       `json:"like_count" gorm:"default:0;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostLike keeps like counts honest: the unique index rejects double
// likes, the counter on CommunityPost is bumped atomically alongside.
type PostLike struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;uniqueIndex:idx_like_post_user"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_like_post_user"`
	CreatedAt time.Time `json:"created_at"`
}
