package services

import (
	"fmt"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/shared"
)

// StudyPlannerService produces templated study plans, quizzes and
// recommendations. The generators are deliberately mock: they stand in
// for a model-backed service behind the same API.
type StudyPlannerService struct {
	context.DefaultService

	sqlSvc      *SqlService
	activitySvc *ActivityRecorderService
}

const PLANNER_SVC = "planner_svc"

func (svc StudyPlannerService) Id() string {
	return PLANNER_SVC
}

func (svc *StudyPlannerService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *StudyPlannerService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.activitySvc = svc.Service(ACTIVITY_SVC).(*ActivityRecorderService)
	return nil
}

var planPhases = []string{
	"Review fundamentals of %s",
	"Practice core problems in %s",
	"Deep dive: advanced %s",
	"Self-test and spaced review of %s",
}

func (svc *StudyPlannerService) GeneratePlan(req dto.GeneratePlanRequest) (*dto.StudyPlanResponse, error) {
	topics := req.FocusTopics
	if len(topics) == 0 {
		topics = []string{req.Subject}
	}

	id, _ := uuid.NewV7()
	plan := &dto.StudyPlanResponse{
		ID:      id.String(),
		Subject: req.Subject,
		Days:    make([]dto.PlanDay, 0, req.DurationDays),
	}

	for day := 1; day <= req.DurationDays; day++ {
		topic := topics[(day-1)%len(topics)]
		phase := planPhases[(day-1)%len(planPhases)]
		plan.Days = append(plan.Days, dto.PlanDay{
			Day:     day,
			Topic:   topic,
			Minutes: req.DailyMinutes,
			Goal:    fmt.Sprintf(phase, topic),
		})
	}

	return plan, nil
}

var quizStems = []string{
	"Which statement about %s is correct?",
	"What is the key principle behind %s?",
	"Which of the following best describes %s?",
	"In the context of %s, which option applies?",
}

func (svc *StudyPlannerService) GenerateQuiz(req dto.GenerateQuizRequest) (*dto.GeneratedQuizResponse, error) {
	count := req.Questions
	if count == 0 {
		count = 10
	}

	topic := req.Topic
	if topic == "" {
		topic = req.Subject
	}

	id, _ := uuid.NewV7()
	quiz := &dto.GeneratedQuizResponse{
		ID:        id.String(),
		Subject:   req.Subject,
		Topic:     req.Topic,
		Questions: make([]dto.QuizQuestion, 0, count),
	}

	for i := 0; i < count; i++ {
		qid, _ := uuid.NewV7()
		quiz.Questions = append(quiz.Questions, dto.QuizQuestion{
			ID:     qid.String(),
			Prompt: fmt.Sprintf(quizStems[i%len(quizStems)], topic),
			Options: []string{
				fmt.Sprintf("Option A about %s", topic),
				fmt.Sprintf("Option B about %s", topic),
				fmt.Sprintf("Option C about %s", topic),
				fmt.Sprintf("Option D about %s", topic),
			},
			AnswerIx: i % 4,
		})
	}

	return quiz, nil
}

// SubmitQuiz scores the answers and routes the result through the
// activity recorder, so generated quizzes feed the same ledger, streak
// and quest paths as manually reported ones.
func (svc *StudyPlannerService) SubmitQuiz(userID string, req dto.SubmitQuizRequest) (*dto.RecordActivityResponse, error) {
	if req.TotalQuestions <= 0 {
		return nil, shared.NewValidationError("total_questions must be positive", nil)
	}
	if req.Correct < 0 || req.Correct > req.TotalQuestions {
		return nil, shared.NewValidationError("correct must be between 0 and total_questions", nil)
	}

	score := req.Correct * 100 / req.TotalQuestions

	return svc.activitySvc.RecordQuizResult(userID, dto.QuizResultRequest{
		Subject:        req.Subject,
		Topic:          req.Topic,
		Score:          score,
		TotalQuestions: req.TotalQuestions,
	})
}

// Recommendations derives simple heuristics from the recent event log.
func (svc *StudyPlannerService) Recommendations(userID string) (*dto.RecommendationResponse, error) {
	events, err := svc.sqlSvc.Activities().Recent(userID, 100)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := &dto.RecommendationResponse{}
	if len(events) == 0 {
		resp.Recommendations = []string{
			"Record your first study session to start earning XP",
			"Create a weekly quest to build a study habit",
		}
		return resp, nil
	}

	minutes := 0
	quizBySubject := map[string][]int{}
	for _, e := range events {
		minutes += e.DurationMinutes
		if e.Kind == shared.ActivityQuizResult && e.Subject != "" {
			quizBySubject[e.Subject] = append(quizBySubject[e.Subject], e.Score)
		}
	}

	weakest := ""
	weakestAvg := 101
	for subject, scores := range quizBySubject {
		sum := 0
		for _, s := range scores {
			sum += s
		}
		avg := sum / len(scores)
		if avg < weakestAvg || (avg == weakestAvg && subject < weakest) {
			weakest = subject
			weakestAvg = avg
		}
	}

	if weakest != "" && weakestAvg < 70 {
		resp.Recommendations = append(resp.Recommendations,
			fmt.Sprintf("Your recent %s quiz average is %d%%, schedule a review session", weakest, weakestAvg))
	}
	if minutes < 120 {
		resp.Recommendations = append(resp.Recommendations,
			"Study time has been light lately, try a 25 minute focused session")
	}
	if len(resp.Recommendations) == 0 {
		resp.Recommendations = append(resp.Recommendations,
			"Keep the streak going with a short session today")
	}

	return resp, nil
}
