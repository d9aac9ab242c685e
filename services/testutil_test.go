package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/services/repositories"
)

// newTestSqlService opens a throwaway in-memory database migrated with
// the full schema. Each test gets its own named database so parallel
// tests never share state.
func newTestSqlService(t *testing.T) *SqlService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	// A single connection keeps the shared in-memory database alive for
	// the whole test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&model.User{},
		&model.UserProgress{},
		&model.ActivityEvent{},
		&model.Achievement{},
		&model.Quest{},
		&model.Community{},
		&model.CommunityMember{},
		&model.CommunityPost{},
		&model.PostLike{},
		&model.UserSettings{},
	)
	if err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	return &SqlService{
		db:         db,
		driver:     driverSqlite,
		activities: repositories.NewActivityRepository(db),
		quests:     repositories.NewQuestRepository(db),
	}
}

func newTestLedgerService(sqlSvc *SqlService) *ProgressLedgerService {
	return &ProgressLedgerService{sqlSvc: sqlSvc, redisSvc: &RedisService{}}
}

func newTestQuestService(sqlSvc *SqlService) *QuestTrackerService {
	return &QuestTrackerService{sqlSvc: sqlSvc, ledgerSvc: newTestLedgerService(sqlSvc)}
}

func newTestActivityService(sqlSvc *SqlService) *ActivityRecorderService {
	return &ActivityRecorderService{
		sqlSvc:    sqlSvc,
		ledgerSvc: newTestLedgerService(sqlSvc),
		questSvc:  newTestQuestService(sqlSvc),
	}
}

func newTestRankingService(sqlSvc *SqlService) *RankingViewService {
	return &RankingViewService{sqlSvc: sqlSvc, redisSvc: &RedisService{}}
}

func newTestAuthService(sqlSvc *SqlService) *AuthService {
	jwtSvc := &JWTService{
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
		jwtSecretKey:         "test-secret",
	}
	return &AuthService{sqlSvc: sqlSvc, jwtSvc: jwtSvc, redisSvc: &RedisService{}}
}

func newTestCommunityService(sqlSvc *SqlService) *CommunityService {
	return &CommunityService{sqlSvc: sqlSvc}
}

func createTestUser(t *testing.T, sqlSvc *SqlService, username string) *model.User {
	t.Helper()

	id, _ := uuid.NewV7()
	user := &model.User{
		ID:       id.String(),
		Email:    username + "@example.com",
		Username: username,
		Password: "not-a-real-hash",
		Role:     "user",
	}
	if err := sqlSvc.Db().Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func setProgress(t *testing.T, sqlSvc *SqlService, userID string, xp int64) {
	t.Helper()

	id, _ := uuid.NewV7()
	progress := &model.UserProgress{
		ID:     id.String(),
		UserID: userID,
		XP:     xp,
		Level:  CalculateLevel(xp),
	}
	if err := sqlSvc.Db().Create(progress).Error; err != nil {
		t.Fatalf("failed to create progress row: %v", err)
	}
}

func dayAt(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}
