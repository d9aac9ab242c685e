package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/shared"
)

type QuestRepository struct {
	BaseRepository
}

func NewQuestRepository(db *gorm.DB) QuestRepository {
	return QuestRepository{NewBaseRepository(db)}
}

// WithTx returns a copy bound to the given transaction.
func (r QuestRepository) WithTx(tx *gorm.DB) QuestRepository {
	return QuestRepository{BaseRepository{db: tx}}
}

func (r QuestRepository) Create(quest *model.Quest) error {
	return r.db.Create(quest).Error
}

func (r QuestRepository) Get(userID, questID string) (*model.Quest, error) {
	var quest model.Quest
	err := r.db.Where("id = ? AND user_id = ?", questID, userID).First(&quest).Error
	if err != nil {
		return nil, err
	}
	return &quest, nil
}

func (r QuestRepository) ListForUser(userID string) ([]model.Quest, error) {
	var quests []model.Quest
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&quests).Error
	return quests, err
}

// ActiveMatching returns the user's live quests whose target kind
// matches, scoped to a subject when the quest names one.
func (r QuestRepository) ActiveMatching(userID, targetKind, subject string, now time.Time) ([]model.Quest, error) {
	var quests []model.Quest
	q := r.db.Where("user_id = ? AND status = ? AND target_kind = ?",
		userID, shared.QuestStatusActive, targetKind).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Where("subject = '' OR subject = ?", subject)
	err := q.Order("created_at ASC").Find(&quests).Error
	return quests, err
}

// AdvanceProgress bumps progress atomically and reports whether this
// call was the one that crossed the target. The conditional status
// UPDATE is what makes the completion reward exactly-once under
// concurrent advances.
func (r QuestRepository) AdvanceProgress(quest *model.Quest, amount int, now time.Time) (completed bool, err error) {
	res := r.db.Model(&model.Quest{}).
		Where("id = ? AND status = ?", quest.ID, shared.QuestStatusActive).
		Updates(map[string]interface{}{
			"progress":   gorm.Expr("CASE WHEN progress + ? >= target THEN target ELSE progress + ? END", amount, amount),
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	res = r.db.Model(&model.Quest{}).
		Where("id = ? AND status = ? AND progress >= target", quest.ID, shared.QuestStatusActive).
		Updates(map[string]interface{}{
			"status":       shared.QuestStatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// MarkExpired flips a past-deadline quest; lazy, no background job.
func (r QuestRepository) MarkExpired(questID string, now time.Time) error {
	return r.db.Model(&model.Quest{}).
		Where("id = ? AND status = ?", questID, shared.QuestStatusActive).
		Updates(map[string]interface{}{
			"status":     shared.QuestStatusExpired,
			"updated_at": now,
		}).Error
}

func (r QuestRepository) Reload(questID string) (*model.Quest, error) {
	var quest model.Quest
	if err := r.db.First(&quest, "id = ?", questID).Error; err != nil {
		return nil, err
	}
	return &quest, nil
}
