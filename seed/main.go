// seed/main.go
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/seed/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, users, quests, communities")
		dbPath   = flag.String("db", "", "Database path (overrides DB_DATABASE env var)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	databasePath := *dbPath
	if databasePath == "" {
		databasePath = os.Getenv("DB_DATABASE")
		if databasePath == "" {
			databasePath = "luminax.db"
		}
	}

	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Printf("Connected to database: %s", databasePath)

	err = db.AutoMigrate(
		&model.User{},
		&model.UserProgress{},
		&model.UserSettings{},
		&model.ActivityEvent{},
		&model.Achievement{},
		&model.Quest{},
		&model.Community{},
		&model.CommunityMember{},
		&model.CommunityPost{},
		&model.PostLike{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "users":
		log.Println("Seeding users only...")
		if err := mainSeeder.SeedUsersOnly(); err != nil {
			log.Fatalf("Failed to seed users: %v", err)
		}
	case "quests":
		log.Println("Seeding quests only...")
		if err := mainSeeder.SeedQuestsOnly(); err != nil {
			log.Fatalf("Failed to seed quests: %v", err)
		}
	case "communities":
		log.Println("Seeding communities only...")
		if err := mainSeeder.SeedCommunitiesOnly(); err != nil {
			log.Fatalf("Failed to seed communities: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'users', 'quests', or 'communities'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func showHelp() {
	log.Print(`
Database Seeding Tool for the Luminax study tracker

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, users, quests, communities
  -db string
        Database path (overrides DB_DATABASE environment variable)
  -help
        Show this help message

Examples:
  # Seed everything
  go run seed/main.go

  # Seed only demo users
  go run seed/main.go -type=users

  # Seed with custom database path
  go run seed/main.go -db=./custom.db

Environment Variables:
  DB_DATABASE - Default database path (default: luminax.db)
`)
}
