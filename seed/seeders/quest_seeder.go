package seeders

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/shared"
)

// QuestSeeder handles seeding starter quests for the demo users
type QuestSeeder struct {
	db *gorm.DB
}

// NewQuestSeeder creates a new quest seeder
func NewQuestSeeder(db *gorm.DB) *QuestSeeder {
	return &QuestSeeder{db: db}
}

type starterQuest struct {
	Title       string
	Description string
	TargetKind  string
	Target      int
	XPReward    int64
	ExpiresIn   time.Duration
}

var starterQuests = []starterQuest{
	{
		Title:       "Weekly focus",
		Description: "Study for 300 minutes this week",
		TargetKind:  shared.QuestTargetMinutes,
		Target:      300,
		XPReward:    250,
		ExpiresIn:   7 * 24 * time.Hour,
	},
	{
		Title:       "Quiz sprint",
		Description: "Finish 5 quizzes",
		TargetKind:  shared.QuestTargetQuizzes,
		Target:      5,
		XPReward:    150,
		ExpiresIn:   7 * 24 * time.Hour,
	},
	{
		Title:       "Show up daily",
		Description: "Log 10 study sessions",
		TargetKind:  shared.QuestTargetSessions,
		Target:      10,
		XPReward:    200,
		ExpiresIn:   14 * 24 * time.Hour,
	},
}

// SeedQuests gives every user without active quests the starter set
func (s *QuestSeeder) SeedQuests() error {
	var users []model.User
	if err := s.db.Find(&users).Error; err != nil {
		return err
	}

	created := 0
	for _, user := range users {
		var count int64
		err := s.db.Model(&model.Quest{}).
			Where("user_id = ? AND status = ?", user.ID, shared.QuestStatusActive).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		for _, sq := range starterQuests {
			questID, _ := uuid.NewV7()
			expires := time.Now().Add(sq.ExpiresIn)
			if err := s.db.Create(&model.Quest{
				ID:          questID.String(),
				UserID:      user.ID,
				Title:       sq.Title,
				Description: sq.Description,
				TargetKind:  sq.TargetKind,
				Target:      sq.Target,
				XPReward:    sq.XPReward,
				Status:      shared.QuestStatusActive,
				ExpiresAt:   &expires,
			}).Error; err != nil {
				return err
			}
			created++
		}
	}

	log.Printf("Seeded %d starter quests", created)
	return nil
}
