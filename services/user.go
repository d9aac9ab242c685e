package services

import (
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/shared"
)

// UserService serves profiles and the progress views built on top of
// the event log.
type UserService struct {
	context.DefaultService

	sqlSvc    *SqlService
	ledgerSvc *ProgressLedgerService
	mediaSvc  *MediaService
}

const USER_SVC = "user_svc"

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *UserService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*ProgressLedgerService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	return nil
}

func (svc *UserService) GetProfile(userID string) (*dto.UserProfileResponse, error) {
	user, err := svc.sqlSvc.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	progress, err := svc.ledgerSvc.GetProgress(userID)
	if err != nil {
		return nil, err
	}

	achievementCount, err := svc.sqlSvc.Activities().CountUserAchievements(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	avatarURL := ""
	if user.AvatarKey != "" {
		avatarURL, err = svc.mediaSvc.FileURL(user.AvatarKey)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("Failed to presign avatar URL")
		}
	}

	return &dto.UserProfileResponse{
		UserID:           user.ID,
		Email:            user.Email,
		Username:         user.Username,
		DisplayName:      user.DisplayName,
		Bio:              user.Bio,
		AvatarURL:        avatarURL,
		JoinedAt:         user.CreatedAt,
		LastLoginAt:      user.LastLogin,
		Progress:         *progress,
		AchievementCount: achievementCount,
	}, nil
}

func (svc *UserService) UpdateProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	user, err := svc.sqlSvc.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Username != "" && req.Username != user.Username {
		taken, err := svc.sqlSvc.UsernameExists(req.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewConflictError("Username already taken")
		}
		user.Username = req.Username
	}
	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}

	if err := svc.sqlSvc.UpdateUser(user); err != nil {
		return nil, err
	}

	return svc.GetProfile(userID)
}

func (svc *UserService) CheckUsernameAvailability(username string) (*dto.UsernameAvailabilityResponse, error) {
	taken, err := svc.sqlSvc.UsernameExists(username)
	if err != nil {
		return nil, err
	}
	return &dto.UsernameAvailabilityResponse{Username: username, Available: !taken}, nil
}

// ProgressChart returns one point per day for the trailing window,
// zero-filled so clients can plot it directly.
func (svc *UserService) ProgressChart(userID string, days int) (*dto.ProgressChartResponse, error) {
	if days <= 0 || days > 90 {
		days = 30
	}

	since := startOfDay(time.Now()).AddDate(0, 0, -(days - 1))
	rows, err := svc.sqlSvc.Activities().DailyTotals(userID, since)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	byDay := map[string]dto.DailyActivityPoint{}
	for _, row := range rows {
		byDay[row.Day] = dto.DailyActivityPoint{
			Date:     row.Day,
			XP:       row.XP,
			Minutes:  row.Minutes,
			Sessions: row.Sessions,
		}
	}

	resp := &dto.ProgressChartResponse{Days: days, Points: make([]dto.DailyActivityPoint, 0, days)}
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		if point, ok := byDay[day]; ok {
			resp.Points = append(resp.Points, point)
		} else {
			resp.Points = append(resp.Points, dto.DailyActivityPoint{Date: day})
		}
	}
	return resp, nil
}

func (svc *UserService) SubjectBreakdown(userID string) (*dto.SubjectBreakdownResponse, error) {
	rows, err := svc.sqlSvc.Activities().SubjectTotals(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := &dto.SubjectBreakdownResponse{Subjects: make([]dto.SubjectBreakdown, 0, len(rows))}
	for _, row := range rows {
		resp.Subjects = append(resp.Subjects, dto.SubjectBreakdown{
			Subject:  row.Subject,
			XP:       row.XP,
			Minutes:  row.Minutes,
			Sessions: row.Sessions,
			Quizzes:  row.Quizzes,
		})
	}
	return resp, nil
}
