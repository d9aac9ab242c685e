package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	// 1. Seed demo users first (everything else hangs off them)
	userSeeder := NewUserSeeder(s.db)
	if err := userSeeder.SeedUsers(); err != nil {
		log.Printf("User seeding failed: %v", err)
		return err
	}

	// 2. Seed quests (depends on users)
	questSeeder := NewQuestSeeder(s.db)
	if err := questSeeder.SeedQuests(); err != nil {
		log.Printf("Quest seeding failed: %v", err)
		return err
	}

	// 3. Seed communities (depends on users)
	communitySeeder := NewCommunitySeeder(s.db)
	if err := communitySeeder.SeedCommunities(); err != nil {
		log.Printf("Community seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedUsersOnly seeds only demo users
func (s *MainSeeder) SeedUsersOnly() error {
	userSeeder := NewUserSeeder(s.db)
	return userSeeder.SeedUsers()
}

// SeedQuestsOnly seeds only quests
func (s *MainSeeder) SeedQuestsOnly() error {
	questSeeder := NewQuestSeeder(s.db)
	return questSeeder.SeedQuests()
}

// SeedCommunitiesOnly seeds only communities
func (s *MainSeeder) SeedCommunitiesOnly() error {
	communitySeeder := NewCommunitySeeder(s.db)
	return communitySeeder.SeedCommunities()
}
