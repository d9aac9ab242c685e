package services

import (
	goContext "context"
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

// ProgressLedgerService owns the XP/level/streak arithmetic. All
// mutation happens inside a caller-supplied transaction so an event
// insert and its ledger effects commit or roll back together.
type ProgressLedgerService struct {
	context.DefaultService

	sqlSvc   *SqlService
	redisSvc *RedisService
}

const LEDGER_SVC = "ledger_svc"

const leaderboardKey = "leaderboard:xp"

func (svc ProgressLedgerService) Id() string {
	return LEDGER_SVC
}

func (svc *ProgressLedgerService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressLedgerService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// CalculateLevel maps total XP onto flat 1000-XP bands.
func CalculateLevel(xp int64) int {
	return int(xp/shared.XPPerLevel) + 1
}

// GetProgress returns zeroed defaults for users without a ledger row
// yet; the row itself is only created on first write.
func (svc *ProgressLedgerService) GetProgress(userID string) (*dto.ProgressSummary, error) {
	progress, err := svc.sqlSvc.GetProgress(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.ProgressSummary{UserID: userID, Level: 1, XPToNextLevel: shared.XPPerLevel}, nil
		}
		return nil, err
	}
	summary := ToProgressSummary(progress)
	return &summary, nil
}

func ToProgressSummary(p *model.UserProgress) dto.ProgressSummary {
	return dto.ProgressSummary{
		UserID:           p.UserID,
		XP:               p.XP,
		Level:            p.Level,
		XPToNextLevel:    int64(p.Level)*shared.XPPerLevel - p.XP,
		Streak:           p.Streak,
		LongestStreak:    p.LongestStreak,
		LastActivityDate: p.LastActivityDate,
	}
}

// ApplyActivity credits XP and touches the streak inside tx. XP is
// bumped with an atomic column expression, never read-modify-write;
// the level is recomputed from the post-increment value.
func (svc *ProgressLedgerService) ApplyActivity(tx *gorm.DB, userID string, xpDelta int64, occurredAt time.Time) (*model.UserProgress, error) {
	if xpDelta < 0 {
		return nil, shared.NewValidationError("xp amount cannot be negative", nil)
	}

	progress, err := svc.getOrCreate(tx, userID)
	if err != nil {
		return nil, err
	}

	if xpDelta > 0 {
		err = tx.Model(&model.UserProgress{}).
			Where("user_id = ?", userID).
			Update("xp", gorm.Expr("xp + ?", xpDelta)).Error
		if err != nil {
			return nil, err
		}
	}

	if err := tx.First(progress, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}

	streak, longest := nextStreak(progress, occurredAt)
	activityDay := startOfDay(occurredAt)

	updates := map[string]interface{}{
		"level":              CalculateLevel(progress.XP),
		"streak":             streak,
		"longest_streak":     longest,
		"last_activity_date": activityDay,
		"updated_at":         time.Now(),
	}
	if err := tx.Model(&model.UserProgress{}).Where("user_id = ?", userID).Updates(updates).Error; err != nil {
		return nil, err
	}

	progress.Level = CalculateLevel(progress.XP)
	progress.Streak = streak
	progress.LongestStreak = longest
	progress.LastActivityDate = &activityDay

	return progress, nil
}

// ApplyXP credits XP without touching the streak; quest rewards use
// this since finishing a quest is not itself a study activity.
func (svc *ProgressLedgerService) ApplyXP(tx *gorm.DB, userID string, xpDelta int64) (*model.UserProgress, error) {
	if xpDelta < 0 {
		return nil, shared.NewValidationError("xp amount cannot be negative", nil)
	}

	progress, err := svc.getOrCreate(tx, userID)
	if err != nil {
		return nil, err
	}

	if xpDelta > 0 {
		err = tx.Model(&model.UserProgress{}).
			Where("user_id = ?", userID).
			Update("xp", gorm.Expr("xp + ?", xpDelta)).Error
		if err != nil {
			return nil, err
		}
	}

	if err := tx.First(progress, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}

	if err := tx.Model(&model.UserProgress{}).
		Where("user_id = ?", userID).
		Update("level", CalculateLevel(progress.XP)).Error; err != nil {
		return nil, err
	}
	progress.Level = CalculateLevel(progress.XP)

	return progress, nil
}

// SyncLeaderboard mirrors the committed XP total into the Redis sorted
// set. Best effort: the SQL row stays the source of truth.
func (svc *ProgressLedgerService) SyncLeaderboard(userID string, xp int64) {
	if !svc.redisSvc.Available() {
		return
	}

	ctx, cancel := goContext.WithTimeout(goContext.Background(), 2*time.Second)
	defer cancel()

	if err := svc.redisSvc.ZAdd(ctx, leaderboardKey, float64(xp), userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Failed to sync leaderboard cache")
	}
}

func (svc *ProgressLedgerService) getOrCreate(tx *gorm.DB, userID string) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := tx.First(&progress, "user_id = ?", userID).Error
	if err == nil {
		return &progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id, _ := uuid.NewV7()
	progress = model.UserProgress{
		ID:     id.String(),
		UserID: userID,
		Level:  1,
	}
	if err := tx.Create(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// nextStreak applies the calendar-day rules: same day keeps the count,
// the immediate next day extends it, anything else restarts at 1.
func nextStreak(p *model.UserProgress, occurredAt time.Time) (streak, longest int) {
	streak = p.Streak
	longest = p.LongestStreak

	if p.LastActivityDate == nil {
		streak = 1
	} else {
		switch daysBetween(*p.LastActivityDate, occurredAt) {
		case 0:
			if streak == 0 {
				streak = 1
			}
		case 1:
			streak++
		default:
			streak = 1
		}
	}

	if streak > longest {
		longest = streak
	}
	return streak, longest
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(earlier, later time.Time) int {
	return int(startOfDay(later).Sub(startOfDay(earlier)).Hours() / 24)
}
