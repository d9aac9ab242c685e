package seeders

import (
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/shared"
)

// UserSeeder handles seeding demo users with progress and settings rows
type UserSeeder struct {
	db *gorm.DB
}

// NewUserSeeder creates a new user seeder
func NewUserSeeder(db *gorm.DB) *UserSeeder {
	return &UserSeeder{db: db}
}

type demoUser struct {
	Email       string
	Username    string
	DisplayName string
	XP          int64
	Streak      int
}

var demoUsers = []demoUser{
	{Email: "mai@luminax.app", Username: "mai_studies", DisplayName: "Mai", XP: 4230, Streak: 12},
	{Email: "khoa@luminax.app", Username: "khoa_dev", DisplayName: "Khoa", XP: 2890, Streak: 5},
	{Email: "linh@luminax.app", Username: "linh2048", DisplayName: "Linh", XP: 2890, Streak: 3},
	{Email: "tuan@luminax.app", Username: "tuan_math", DisplayName: "Tuan", XP: 1150, Streak: 1},
	{Email: "demo@luminax.app", Username: "demo", DisplayName: "Demo Account", XP: 0, Streak: 0},
}

// SeedUsers creates the demo accounts, skipping any that already exist
func (s *UserSeeder) SeedUsers() error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	created := 0
	for _, du := range demoUsers {
		var existing model.User
		if err := s.db.Where("email = ?", du.Email).First(&existing).Error; err == nil {
			continue
		}

		userID, _ := uuid.NewV7()
		user := model.User{
			ID:          userID.String(),
			Email:       du.Email,
			Username:    du.Username,
			Password:    string(hash),
			Role:        "user",
			DisplayName: du.DisplayName,
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}

			now := time.Now()
			var lastActivity *time.Time
			if du.Streak > 0 {
				lastActivity = &now
			}

			progressID, _ := uuid.NewV7()
			if err := tx.Create(&model.UserProgress{
				ID:               progressID.String(),
				UserID:           user.ID,
				XP:               du.XP,
				Level:            int(du.XP/shared.XPPerLevel) + 1,
				Streak:           du.Streak,
				LongestStreak:    du.Streak,
				LastActivityDate: lastActivity,
			}).Error; err != nil {
				return err
			}

			settingsID, _ := uuid.NewV7()
			if err := tx.Create(&model.UserSettings{
				ID:                settingsID.String(),
				UserID:            user.ID,
				Theme:             "system",
				Language:          "en",
				Notifications:     true,
				PublicProfile:     true,
				WeeklyGoalMinutes: 300,
				ReminderHour:      18,
			}).Error; err != nil {
				return err
			}

			return s.seedActivity(tx, user.ID, du)
		})
		if err != nil {
			return err
		}
		created++
	}

	log.Printf("Seeded %d demo users (password: password123)", created)
	return nil
}

// seedActivity backfills a week of events so charts and the weekly
// board have something to show
func (s *UserSeeder) seedActivity(tx *gorm.DB, userID string, du demoUser) error {
	if du.XP == 0 {
		return nil
	}

	subjects := []string{"Mathematics", "Physics", "English"}
	for day := 0; day < 7; day++ {
		occurred := time.Now().AddDate(0, 0, -day)

		eventID, _ := uuid.NewV7()
		if err := tx.Create(&model.ActivityEvent{
			ID:              eventID.String(),
			UserID:          userID,
			Kind:            shared.ActivityStudySession,
			Subject:         subjects[day%len(subjects)],
			DurationMinutes: 25 + 5*(day%3),
			XPAwarded:       int64(25 + 5*(day%3)),
			OccurredAt:      occurred,
		}).Error; err != nil {
			return err
		}

		if day%2 == 0 {
			quizID, _ := uuid.NewV7()
			score := 60 + day*5
			if err := tx.Create(&model.ActivityEvent{
				ID:             quizID.String(),
				UserID:         userID,
				Kind:           shared.ActivityQuizResult,
				Subject:        subjects[day%len(subjects)],
				Score:          score,
				TotalQuestions: 10,
				XPAwarded:      int64(score/10) * 10,
				OccurredAt:     occurred,
			}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
