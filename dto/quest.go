package dto

import "time"

// ==================== QUEST REQUEST DTOs ====================

type CreateQuestRequest struct {
	Title       string     `json:"title" validate:"required,max=200" example:"Study 120 minutes this week"`
	Description string     `json:"description" validate:"max=1000"`
	TargetKind  string     `json:"target_kind" validate:"omitempty,oneof=minutes quizzes sessions" example:"minutes"`
	Subject     string     `json:"subject" validate:"max=100" example:"mathematics"`
	Target      int        `json:"target" validate:"required,gt=0" example:"120"`
	XPReward    int64      `json:"xp_reward" validate:"gte=0" example:"200"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (r CreateQuestRequest) Validate() error {
	return GetValidator().Struct(r)
}

type AdvanceQuestRequest struct {
	Amount int `json:"amount" validate:"required,gt=0" example:"30"`
}

func (r AdvanceQuestRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== QUEST RESPONSE DTOs ====================

type QuestResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	TargetKind  string     `json:"target_kind,omitempty"`
	Subject     string     `json:"subject,omitempty"`
	Target      int        `json:"target"`
	Progress    int        `json:"progress"`
	XPReward    int64      `json:"xp_reward"`
	Status      string     `json:"status"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type QuestListResponse struct {
	Quests []QuestResponse `json:"quests"`
}

type AdvanceQuestResponse struct {
	Quest    QuestResponse    `json:"quest"`
	Progress *ProgressSummary `json:"progress,omitempty"` // set when the advance completed the quest
}
