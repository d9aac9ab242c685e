package dto

// ==================== STUDY PLANNER DTOs ====================

type GeneratePlanRequest struct {
	Subject       string `json:"subject" validate:"required,max=100" example:"chemistry"`
	DailyMinutes  int    `json:"daily_minutes" validate:"required,gt=0,lte=720" example:"60"`
	DurationDays  int    `json:"duration_days" validate:"required,gt=0,lte=90" example:"7"`
	FocusTopics   []string `json:"focus_topics,omitempty" validate:"max=10,dive,max=100"`
}

func (r GeneratePlanRequest) Validate() error {
	return GetValidator().Struct(r)
}

type PlanDay struct {
	Day     int    `json:"day"`
	Topic   string `json:"topic"`
	Minutes int    `json:"minutes"`
	Goal    string `json:"goal"`
}

type StudyPlanResponse struct {
	ID      string    `json:"id"`
	Subject string    `json:"subject"`
	Days    []PlanDay `json:"days"`
}

type GenerateQuizRequest struct {
	Subject   string `json:"subject" validate:"required,max=100" example:"biology"`
	Topic     string `json:"topic" validate:"max=200" example:"cell division"`
	Questions int    `json:"questions" validate:"omitempty,gt=0,lte=50" example:"10"`
}

func (r GenerateQuizRequest) Validate() error {
	return GetValidator().Struct(r)
}

type QuizQuestion struct {
	ID       string   `json:"id"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
	AnswerIx int      `json:"-"`
}

type GeneratedQuizResponse struct {
	ID        string         `json:"id"`
	Subject   string         `json:"subject"`
	Topic     string         `json:"topic,omitempty"`
	Questions []QuizQuestion `json:"questions"`
}

type SubmitQuizRequest struct {
	Subject        string `json:"subject" validate:"required,max=100"`
	Topic          string `json:"topic" validate:"max=200"`
	Correct        int    `json:"correct" validate:"gte=0"`
	TotalQuestions int    `json:"total_questions" validate:"required,gt=0"`
}

func (r SubmitQuizRequest) Validate() error {
	return GetValidator().Struct(r)
}

type RecommendationResponse struct {
	Recommendations []string `json:"recommendations"`
}
