package seeders

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luminax-app/luminax_api/model"
)

// CommunitySeeder handles seeding demo study communities
type CommunitySeeder struct {
	db *gorm.DB
}

// NewCommunitySeeder creates a new community seeder
func NewCommunitySeeder(db *gorm.DB) *CommunitySeeder {
	return &CommunitySeeder{db: db}
}

type demoCommunity struct {
	Name        string
	Description string
	Subject     string
}

var demoCommunities = []demoCommunity{
	{Name: "Math Grinders", Description: "Daily problem sets and exam prep", Subject: "Mathematics"},
	{Name: "Physics Lab", Description: "Mechanics to quantum, one concept a day", Subject: "Physics"},
	{Name: "English Corner", Description: "Vocabulary streaks and essay swaps", Subject: "English"},
}

// SeedCommunities creates the demo communities and enrolls every demo
// user in the first one
func (s *CommunitySeeder) SeedCommunities() error {
	var users []model.User
	if err := s.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return err
	}
	if len(users) == 0 {
		log.Println("No users found, skipping community seeding")
		return nil
	}

	creator := users[0]
	created := 0

	for i, dc := range demoCommunities {
		var existing model.Community
		if err := s.db.Where("name = ?", dc.Name).First(&existing).Error; err == nil {
			continue
		}

		communityID, _ := uuid.NewV7()
		community := model.Community{
			ID:          communityID.String(),
			Name:        dc.Name,
			Description: dc.Description,
			Subject:     dc.Subject,
			CreatedBy:   creator.ID,
		}

		members := []model.User{creator}
		if i == 0 {
			members = users
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			community.MemberCount = len(members)
			if err := tx.Create(&community).Error; err != nil {
				return err
			}
			for _, member := range members {
				memberID, _ := uuid.NewV7()
				if err := tx.Create(&model.CommunityMember{
					ID:          memberID.String(),
					CommunityID: community.ID,
					UserID:      member.ID,
					JoinedAt:    time.Now(),
				}).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		created++
	}

	log.Printf("Seeded %d communities", created)
	return nil
}
