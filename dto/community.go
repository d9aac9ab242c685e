package dto

import "time"

// ==================== COMMUNITY REQUEST DTOs ====================

type CreateCommunityRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=60" example:"Physics Study Group"`
	Description string `json:"description" validate:"max=1000"`
	Subject     string `json:"subject" validate:"max=100" example:"physics"`
}

func (r CreateCommunityRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CreatePostRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

func (r CreatePostRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== COMMUNITY RESPONSE DTOs ====================

type CommunityResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Subject     string    `json:"subject,omitempty"`
	MemberCount int       `json:"member_count"`
	IsMember    bool      `json:"is_member,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CommunityListResponse struct {
	Communities []CommunityResponse `json:"communities"`
}

type PostResponse struct {
	ID          string    `json:"id"`
	CommunityID string    `json:"community_id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Content     string    `json:"content"`
	LikeCount   int       `json:"like_count"`
	Liked       bool      `json:"liked,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
}
