package dto

import "time"

// ==================== ACTIVITY REQUEST DTOs ====================

type StudySessionRequest struct {
	Subject         string `json:"subject" validate:"required,max=100" example:"mathematics"`
	Topic           string `json:"topic" validate:"max=200" example:"linear algebra"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0,lte=1440" example:"45"`
}

func (r StudySessionRequest) Validate() error {
	return GetValidator().Struct(r)
}

type QuizResultRequest struct {
	Subject        string `json:"subject" validate:"required,max=100" example:"physics"`
	Topic          string `json:"topic" validate:"max=200" example:"kinematics"`
	Score          int    `json:"score" validate:"gte=0,lte=100" example:"80"`
	TotalQuestions int    `json:"total_questions" validate:"gt=0" example:"10"`
	// XPEarned overrides the default of floor(score/10)*10 when set;
	// an explicit zero awards nothing.
	XPEarned *int64 `json:"xp_earned,omitempty" validate:"omitempty,gte=0" example:"80"`
}

func (r QuizResultRequest) Validate() error {
	return GetValidator().Struct(r)
}

type AchievementRequest struct {
	Kind     string `json:"kind" validate:"required,max=100" example:"first_week_streak"`
	Title    string `json:"title" validate:"max=200" example:"Studied 7 days in a row"`
	XPReward int64  `json:"xp_reward" validate:"gte=0" example:"250"`
}

func (r AchievementRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== ACTIVITY RESPONSE DTOs ====================

type ActivityEventResponse struct {
	ID              string    `json:"id"`
	Kind            string    `json:"kind"`
	Subject         string    `json:"subject,omitempty"`
	Topic           string    `json:"topic,omitempty"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
	Score           int       `json:"score,omitempty"`
	TotalQuestions  int       `json:"total_questions,omitempty"`
	XPAwarded       int64     `json:"xp_awarded"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// RecordActivityResponse returns the event together with the progress
// state it produced, so clients never need a follow-up read.
type RecordActivityResponse struct {
	Event           ActivityEventResponse `json:"event"`
	Progress        ProgressSummary       `json:"progress"`
	CompletedQuests []QuestResponse       `json:"completed_quests,omitempty"`
}
