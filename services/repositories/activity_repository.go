package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/shared"
)

// ActivityRepository holds the heavier event queries: the append-only
// ActivityEvent log feeds charts, subject breakdowns and the weekly
// leaderboard.
type ActivityRepository struct {
	BaseRepository
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return ActivityRepository{NewBaseRepository(db)}
}

// WithTx returns a copy bound to the given transaction.
func (r ActivityRepository) WithTx(tx *gorm.DB) ActivityRepository {
	return ActivityRepository{BaseRepository{db: tx}}
}

func (r ActivityRepository) Append(event *model.ActivityEvent) error {
	return r.db.Create(event).Error
}

func (r ActivityRepository) Recent(userID string, limit int) ([]model.ActivityEvent, error) {
	var events []model.ActivityEvent
	err := r.db.Where("user_id = ?", userID).
		Order("occurred_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

type WeeklyXPRow struct {
	UserID string
	Total  int64
}

// WeeklyXP sums XP from events in the trailing window, highest first,
// user_id breaking ties.
func (r ActivityRepository) WeeklyXP(since time.Time, limit int) ([]WeeklyXPRow, error) {
	var rows []WeeklyXPRow
	err := r.db.Model(&model.ActivityEvent{}).
		Select("user_id, SUM(xp_awarded) AS total").
		Where("occurred_at >= ?", since).
		Group("user_id").
		Order("total DESC").
		Order("user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

type AchievementCountRow struct {
	UserID string
	Total  int64
}

func (r ActivityRepository) AchievementCounts(limit int) ([]AchievementCountRow, error) {
	var rows []AchievementCountRow
	err := r.db.Model(&model.Achievement{}).
		Select("user_id, COUNT(*) AS total").
		Group("user_id").
		Order("total DESC").
		Order("user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

type DailyRow struct {
	Day      string
	XP       int64
	Minutes  int
	Sessions int
}

// DailyTotals aggregates per calendar day (UTC) for the chart endpoint.
func (r ActivityRepository) DailyTotals(userID string, since time.Time) ([]DailyRow, error) {
	var events []model.ActivityEvent
	err := r.db.Where("user_id = ? AND occurred_at >= ?", userID, since).
		Order("occurred_at ASC").Find(&events).Error
	if err != nil {
		return nil, err
	}

	byDay := map[string]*DailyRow{}
	var order []string
	for _, e := range events {
		day := e.OccurredAt.UTC().Format("2006-01-02")
		row, ok := byDay[day]
		if !ok {
			row = &DailyRow{Day: day}
			byDay[day] = row
			order = append(order, day)
		}
		row.XP += e.XPAwarded
		row.Minutes += e.DurationMinutes
		if e.Kind == shared.ActivityStudySession {
			row.Sessions++
		}
	}

	rows := make([]DailyRow, 0, len(order))
	for _, day := range order {
		rows = append(rows, *byDay[day])
	}
	return rows, nil
}

type SubjectRow struct {
	Subject  string
	XP       int64
	Minutes  int
	Sessions int
	Quizzes  int
}

func (r ActivityRepository) SubjectTotals(userID string) ([]SubjectRow, error) {
	var events []model.ActivityEvent
	err := r.db.Where("user_id = ? AND subject <> ''", userID).Find(&events).Error
	if err != nil {
		return nil, err
	}

	bySubject := map[string]*SubjectRow{}
	var order []string
	for _, e := range events {
		row, ok := bySubject[e.Subject]
		if !ok {
			row = &SubjectRow{Subject: e.Subject}
			bySubject[e.Subject] = row
			order = append(order, e.Subject)
		}
		row.XP += e.XPAwarded
		row.Minutes += e.DurationMinutes
		switch e.Kind {
		case shared.ActivityStudySession:
			row.Sessions++
		case shared.ActivityQuizResult:
			row.Quizzes++
		}
	}

	rows := make([]SubjectRow, 0, len(order))
	for _, subject := range order {
		rows = append(rows, *bySubject[subject])
	}
	return rows, nil
}

// ==================== ACHIEVEMENTS ====================

func (r ActivityRepository) CreateAchievement(a *model.Achievement) error {
	return r.db.Create(a).Error
}

func (r ActivityRepository) AchievementExists(userID, kind string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Achievement{}).
		Where("user_id = ? AND kind = ?", userID, kind).Count(&count).Error
	return count > 0, err
}

func (r ActivityRepository) UserAchievements(userID string) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.db.Where("user_id = ?", userID).
		Order("earned_at DESC").Find(&achievements).Error
	return achievements, err
}

func (r ActivityRepository) CountUserAchievements(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Achievement{}).
		Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
