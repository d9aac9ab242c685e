package services

import (
	goContext "context"
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/model"
)

// SettingsService handles preferences, the full data export and
// account deletion.
type SettingsService struct {
	context.DefaultService

	sqlSvc   *SqlService
	redisSvc *RedisService
	authSvc  *AuthService
}

const SETTINGS_SVC = "settings_svc"

func (svc SettingsService) Id() string {
	return SETTINGS_SVC
}

func (svc *SettingsService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *SettingsService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	return nil
}

func (svc *SettingsService) GetSettings(userID string) (*dto.SettingsResponse, error) {
	settings, err := svc.getOrCreate(userID)
	if err != nil {
		return nil, err
	}
	resp := toSettingsResponse(settings)
	return &resp, nil
}

// UpdateSettings applies only the fields the client sent.
func (svc *SettingsService) UpdateSettings(userID string, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings, err := svc.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.Language != nil {
		settings.Language = *req.Language
	}
	if req.Notifications != nil {
		settings.Notifications = *req.Notifications
	}
	if req.PublicProfile != nil {
		settings.PublicProfile = *req.PublicProfile
	}
	if req.WeeklyGoalMinutes != nil {
		settings.WeeklyGoalMinutes = *req.WeeklyGoalMinutes
	}
	if req.ReminderHour != nil {
		settings.ReminderHour = *req.ReminderHour
	}

	if err := svc.sqlSvc.SaveSettings(settings); err != nil {
		return nil, err
	}

	resp := toSettingsResponse(settings)
	return &resp, nil
}

// ExportData gathers everything the account owns into one JSON blob.
func (svc *SettingsService) ExportData(userID string) ([]byte, error) {
	user, err := svc.sqlSvc.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	export := map[string]interface{}{
		"exported_at": time.Now().UTC(),
		"user":        user,
	}

	if progress, err := svc.sqlSvc.GetProgress(userID); err == nil {
		export["progress"] = progress
	}
	if settings, err := svc.sqlSvc.GetSettings(userID); err == nil {
		export["settings"] = settings
	}
	if events, err := svc.sqlSvc.Activities().Recent(userID, 10000); err == nil {
		export["activity_events"] = events
	}
	if achievements, err := svc.sqlSvc.Activities().UserAchievements(userID); err == nil {
		export["achievements"] = achievements
	}
	if quests, err := svc.sqlSvc.Quests().ListForUser(userID); err == nil {
		export["quests"] = quests
	}

	return sonic.Marshal(export)
}

// DeleteAccount removes every row the user owns in one transaction,
// then evicts the leaderboard cache entry.
func (svc *SettingsService) DeleteAccount(userID string, req dto.DeleteAccountRequest) error {
	if err := svc.authSvc.VerifyPassword(userID, req.Password); err != nil {
		return err
	}

	err := svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&model.PostLike{},
			&model.CommunityPost{},
			&model.CommunityMember{},
			&model.Quest{},
			&model.Achievement{},
			&model.ActivityEvent{},
			&model.UserSettings{},
			&model.UserProgress{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.User{}, "id = ?", userID).Error
	})
	if err != nil {
		return svc.sqlSvc.HandleError(err)
	}

	if svc.redisSvc.Available() {
		ctx, cancel := goContext.WithTimeout(goContext.Background(), 2*time.Second)
		defer cancel()
		if err := svc.redisSvc.ZRem(ctx, leaderboardKey, userID); err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("Failed to evict leaderboard entry")
		}
	}

	log.WithField("user_id", userID).Info("Account deleted")
	return nil
}

func (svc *SettingsService) getOrCreate(userID string) (*model.UserSettings, error) {
	settings, err := svc.sqlSvc.GetSettings(userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id, _ := uuid.NewV7()
	fresh := &model.UserSettings{
		ID:                id.String(),
		UserID:            userID,
		Theme:             "system",
		Language:          "en",
		Notifications:     true,
		PublicProfile:     true,
		WeeklyGoalMinutes: 300,
		ReminderHour:      18,
	}
	if err := svc.sqlSvc.SaveSettings(fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

func toSettingsResponse(s *model.UserSettings) dto.SettingsResponse {
	return dto.SettingsResponse{
		Theme:             s.Theme,
		Language:          s.Language,
		Notifications:     s.Notifications,
		PublicProfile:     s.PublicProfile,
		WeeklyGoalMinutes: s.WeeklyGoalMinutes,
		ReminderHour:      s.ReminderHour,
	}
}
