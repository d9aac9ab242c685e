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

// QuestTrackerService manages per-user quests. Expiry is lazy (checked
// on read and on advance) and the completion reward is granted exactly
// once, in the same transaction as the progress bump.
type QuestTrackerService struct {
	context.DefaultService

	sqlSvc    *SqlService
	ledgerSvc *ProgressLedgerService
}

const QUEST_SVC = "quest_svc"

func (svc QuestTrackerService) Id() string {
	return QUEST_SVC
}

func (svc *QuestTrackerService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *QuestTrackerService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*ProgressLedgerService)
	return nil
}

func (svc *QuestTrackerService) CreateQuest(userID string, req dto.CreateQuestRequest) (*dto.QuestResponse, error) {
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return nil, shared.NewValidationError("expires_at must be in the future", nil)
	}

	targetKind := req.TargetKind
	if targetKind == "" {
		targetKind = shared.QuestTargetMinutes
	}

	id, _ := uuid.NewV7()
	quest := &model.Quest{
		ID:          id.String(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		TargetKind:  targetKind,
		Subject:     req.Subject,
		Target:      req.Target,
		XPReward:    req.XPReward,
		Status:      shared.QuestStatusActive,
		ExpiresAt:   req.ExpiresAt,
	}

	if err := svc.sqlSvc.Quests().Create(quest); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := toQuestResponse(quest)
	return &resp, nil
}

// ListQuests expires overdue quests as a side effect of reading them.
func (svc *QuestTrackerService) ListQuests(userID string) (*dto.QuestListResponse, error) {
	quests, err := svc.sqlSvc.Quests().ListForUser(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	now := time.Now()
	resp := dto.QuestListResponse{Quests: make([]dto.QuestResponse, 0, len(quests))}
	for i := range quests {
		quest := &quests[i]
		if quest.Status == shared.QuestStatusActive && isExpired(quest, now) {
			if err := svc.sqlSvc.Quests().MarkExpired(quest.ID, now); err != nil {
				log.WithError(err).WithField("quest_id", quest.ID).Warn("Failed to expire quest")
			} else {
				quest.Status = shared.QuestStatusExpired
			}
		}
		resp.Quests = append(resp.Quests, toQuestResponse(quest))
	}
	return &resp, nil
}

// AdvanceQuest bumps progress by amount, clamped at the target. The
// advance that crosses the target completes the quest and pays the
// reward once; advancing a completed quest is a no-op and advancing an
// expired one conflicts.
func (svc *QuestTrackerService) AdvanceQuest(userID, questID string, amount int) (*dto.AdvanceQuestResponse, error) {
	if amount <= 0 {
		return nil, shared.NewValidationError("amount must be positive", nil)
	}

	var resp dto.AdvanceQuestResponse
	var completedProgress *model.UserProgress

	err := svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		quests := svc.sqlSvc.Quests().WithTx(tx)

		quest, err := quests.Get(userID, questID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NewNotFoundError("Quest not found")
			}
			return err
		}

		now := time.Now()

		switch {
		case quest.Status == shared.QuestStatusExpired:
			return shared.NewConflictError("Quest has expired")
		case quest.Status == shared.QuestStatusCompleted:
			resp.Quest = toQuestResponse(quest)
			return nil
		case isExpired(quest, now):
			if err := quests.MarkExpired(quest.ID, now); err != nil {
				return err
			}
			return shared.NewConflictError("Quest has expired")
		}

		completed, err := quests.AdvanceProgress(quest, amount, now)
		if err != nil {
			return err
		}

		if completed && quest.XPReward > 0 {
			completedProgress, err = svc.ledgerSvc.ApplyXP(tx, userID, quest.XPReward)
			if err != nil {
				return err
			}
		}

		fresh, err := quests.Reload(quest.ID)
		if err != nil {
			return err
		}
		resp.Quest = toQuestResponse(fresh)
		return nil
	})
	if err != nil {
		if _, ok := shared.GetAppError(err); ok {
			return nil, err
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	if completedProgress != nil {
		summary := ToProgressSummary(completedProgress)
		resp.Progress = &summary
		svc.ledgerSvc.SyncLeaderboard(userID, completedProgress.XP)

		log.WithFields(log.Fields{
			"user_id":  userID,
			"quest_id": questID,
			"reward":   resp.Quest.XPReward,
		}).Info("Quest completed")
	}

	return &resp, nil
}

// OnActivity advances matching active quests inside the recorder's
// transaction. Study sessions feed minute and session quests, quiz
// submissions feed quiz quests.
func (svc *QuestTrackerService) OnActivity(tx *gorm.DB, userID, kind, subject string, durationMinutes int, now time.Time) ([]model.Quest, int64, error) {
	quests := svc.sqlSvc.Quests().WithTx(tx)

	type step struct {
		targetKind string
		amount     int
	}
	var steps []step
	switch kind {
	case shared.ActivityStudySession:
		steps = []step{
			{shared.QuestTargetMinutes, durationMinutes},
			{shared.QuestTargetSessions, 1},
		}
	case shared.ActivityQuizResult:
		steps = []step{{shared.QuestTargetQuizzes, 1}}
	default:
		return nil, 0, nil
	}

	var completed []model.Quest
	var totalReward int64

	for _, s := range steps {
		if s.amount <= 0 {
			continue
		}

		matching, err := quests.ActiveMatching(userID, s.targetKind, subject, now)
		if err != nil {
			return nil, 0, err
		}

		for i := range matching {
			quest := &matching[i]
			done, err := quests.AdvanceProgress(quest, s.amount, now)
			if err != nil {
				return nil, 0, err
			}
			if !done {
				continue
			}

			fresh, err := quests.Reload(quest.ID)
			if err != nil {
				return nil, 0, err
			}
			completed = append(completed, *fresh)
			totalReward += fresh.XPReward
		}
	}

	if totalReward > 0 {
		if _, err := svc.ledgerSvc.ApplyXP(tx, userID, totalReward); err != nil {
			return nil, 0, err
		}
	}

	return completed, totalReward, nil
}

func isExpired(quest *model.Quest, now time.Time) bool {
	return quest.ExpiresAt != nil && quest.ExpiresAt.Before(now)
}

func toQuestResponse(q *model.Quest) dto.QuestResponse {
	return dto.QuestResponse{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		TargetKind:  q.TargetKind,
		Subject:     q.Subject,
		Target:      q.Target,
		Progress:    q.Progress,
		XPReward:    q.XPReward,
		Status:      q.Status,
		ExpiresAt:   q.ExpiresAt,
		CompletedAt: q.CompletedAt,
		CreatedAt:   q.CreatedAt,
	}
}
