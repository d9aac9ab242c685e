package services

import (
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/shared"
)

// ActivityRecorderService turns study sessions, quiz submissions and
// achievement grants into ledger effects. Each record call is one
// transaction: append the event, credit XP, touch the streak, advance
// quests. Either all of it commits or none of it does.
type ActivityRecorderService struct {
	context.DefaultService

	sqlSvc    *SqlService
	ledgerSvc *ProgressLedgerService
	questSvc  *QuestTrackerService
}

const ACTIVITY_SVC = "activity_svc"

func (svc ActivityRecorderService) Id() string {
	return ACTIVITY_SVC
}

func (svc *ActivityRecorderService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ActivityRecorderService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*ProgressLedgerService)
	svc.questSvc = svc.Service(QUEST_SVC).(*QuestTrackerService)
	return nil
}

// RecordStudySession awards one XP per minute studied.
func (svc *ActivityRecorderService) RecordStudySession(userID string, req dto.StudySessionRequest) (*dto.RecordActivityResponse, error) {
	if req.DurationMinutes <= 0 {
		return nil, shared.NewValidationError("duration_minutes must be positive", nil)
	}

	id, _ := uuid.NewV7()
	event := &model.ActivityEvent{
		ID:              id.String(),
		UserID:          userID,
		Kind:            shared.ActivityStudySession,
		Subject:         req.Subject,
		Topic:           req.Topic,
		DurationMinutes: req.DurationMinutes,
		XPAwarded:       int64(req.DurationMinutes),
		OccurredAt:      time.Now(),
	}

	return svc.record(userID, event)
}

// RecordQuizResult defaults the XP award to floor(score/10)*10 when the
// client does not supply one; an explicit value, including zero, wins.
func (svc *ActivityRecorderService) RecordQuizResult(userID string, req dto.QuizResultRequest) (*dto.RecordActivityResponse, error) {
	if req.Score < 0 || req.Score > 100 {
		return nil, shared.NewValidationError("score must be between 0 and 100", nil)
	}

	xp := int64(req.Score/10) * 10
	if req.XPEarned != nil {
		if *req.XPEarned < 0 {
			return nil, shared.NewValidationError("xp_earned cannot be negative", nil)
		}
		xp = *req.XPEarned
	}

	id, _ := uuid.NewV7()
	event := &model.ActivityEvent{
		ID:             id.String(),
		UserID:         userID,
		Kind:           shared.ActivityQuizResult,
		Subject:        req.Subject,
		Topic:          req.Topic,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		XPAwarded:      xp,
		OccurredAt:     time.Now(),
	}

	return svc.record(userID, event)
}

// RecordAchievement is idempotent per (user, kind); a repeat grant is a
// conflict and the original award stands.
func (svc *ActivityRecorderService) RecordAchievement(userID string, req dto.AchievementRequest) (*dto.RecordActivityResponse, error) {
	exists, err := svc.sqlSvc.Activities().AchievementExists(userID, req.Kind)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if exists {
		return nil, shared.NewConflictError("Achievement already granted")
	}

	now := time.Now()
	var progress *model.UserProgress
	var eventResp dto.ActivityEventResponse

	err = svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		activities := svc.sqlSvc.Activities().WithTx(tx)

		achievementID, _ := uuid.NewV7()
		if err := activities.CreateAchievement(&model.Achievement{
			ID:       achievementID.String(),
			UserID:   userID,
			Kind:     req.Kind,
			Title:    req.Title,
			XPReward: req.XPReward,
			EarnedAt: now,
		}); err != nil {
			return err
		}

		eventID, _ := uuid.NewV7()
		event := &model.ActivityEvent{
			ID:         eventID.String(),
			UserID:     userID,
			Kind:       shared.ActivityAchievement,
			Topic:      req.Kind,
			XPAwarded:  req.XPReward,
			OccurredAt: now,
		}
		if err := activities.Append(event); err != nil {
			return err
		}
		eventResp = toEventResponse(event)

		var err error
		progress, err = svc.ledgerSvc.ApplyXP(tx, userID, req.XPReward)
		return err
	})
	if err != nil {
		// A concurrent grant loses the race on the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, shared.NewConflictError("Achievement already granted")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	svc.ledgerSvc.SyncLeaderboard(userID, progress.XP)

	log.WithFields(log.Fields{
		"user_id": userID,
		"kind":    req.Kind,
	}).Info("Achievement granted")

	return &dto.RecordActivityResponse{
		Event:    eventResp,
		Progress: ToProgressSummary(progress),
	}, nil
}

func (svc *ActivityRecorderService) RecentActivity(userID string, limit int) ([]dto.ActivityEventResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	events, err := svc.sqlSvc.Activities().Recent(userID, limit)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := make([]dto.ActivityEventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, toEventResponse(&events[i]))
	}
	return resp, nil
}

func (svc *ActivityRecorderService) UserAchievements(userID string) ([]dto.AchievementResponse, error) {
	achievements, err := svc.sqlSvc.Activities().UserAchievements(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := make([]dto.AchievementResponse, 0, len(achievements))
	for _, a := range achievements {
		resp = append(resp, dto.AchievementResponse{
			ID:       a.ID,
			Kind:     a.Kind,
			Title:    a.Title,
			XPReward: a.XPReward,
			EarnedAt: a.EarnedAt,
		})
	}
	return resp, nil
}

// record runs the shared append-credit-advance transaction for study
// and quiz events.
func (svc *ActivityRecorderService) record(userID string, event *model.ActivityEvent) (*dto.RecordActivityResponse, error) {
	var progress *model.UserProgress
	var completedQuests []model.Quest

	err := svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		if err := svc.sqlSvc.Activities().WithTx(tx).Append(event); err != nil {
			return err
		}

		var err error
		progress, err = svc.ledgerSvc.ApplyActivity(tx, userID, event.XPAwarded, event.OccurredAt)
		if err != nil {
			return err
		}

		completedQuests, _, err = svc.questSvc.OnActivity(tx, userID, event.Kind, event.Subject, event.DurationMinutes, event.OccurredAt)
		if err != nil {
			return err
		}

		// Quest rewards landed after the streak pass; reload so the
		// response carries the final XP total.
		if len(completedQuests) > 0 {
			return tx.First(progress, "user_id = ?", userID).Error
		}
		return nil
	})
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	svc.ledgerSvc.SyncLeaderboard(userID, progress.XP)

	log.WithFields(log.Fields{
		"user_id": userID,
		"kind":    event.Kind,
		"xp":      event.XPAwarded,
	}).Info("Activity recorded")

	resp := &dto.RecordActivityResponse{
		Event:    toEventResponse(event),
		Progress: ToProgressSummary(progress),
	}
	for i := range completedQuests {
		resp.CompletedQuests = append(resp.CompletedQuests, toQuestResponse(&completedQuests[i]))
	}
	return resp, nil
}

func toEventResponse(e *model.ActivityEvent) dto.ActivityEventResponse {
	return dto.ActivityEventResponse{
		ID:              e.ID,
		Kind:            e.Kind,
		Subject:         e.Subject,
		Topic:           e.Topic,
		DurationMinutes: e.DurationMinutes,
		Score:           e.Score,
		TotalQuestions:  e.TotalQuestions,
		XPAwarded:       e.XPAwarded,
		OccurredAt:      e.OccurredAt,
	}
}
