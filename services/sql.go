package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/services/repositories"
)

// SqlService owns the gorm handle. Postgres when DATABASE_URL (or the
// DB_* variables) is present, a local sqlite file otherwise. The sqlite
// mode is the reduced-capability single-node setup used for local runs.
type SqlService struct {
	context.DefaultService
	db *gorm.DB

	dsn        string
	driver     string
	sqlitePath string

	activities repositories.ActivityRepository
	quests     repositories.QuestRepository
}

const SQL_SVC = "sql_svc"

const (
	driverPostgres = "postgres"
	driverSqlite   = "sqlite"
)

// Id returns Service ID
func (ds SqlService) Id() string {
	return SQL_SVC
}

// Db Access to raw db handle
func (ds SqlService) Db() *gorm.DB {
	return ds.db
}

func (ds *SqlService) Activities() repositories.ActivityRepository {
	return ds.activities
}

func (ds *SqlService) Quests() repositories.QuestRepository {
	return ds.quests
}

// Configure the service
func (ds *SqlService) Configure(ctx *context.Context) error {
	ds.dsn = os.Getenv("DATABASE_URL")
	if ds.dsn == "" && os.Getenv("DB_HOST") != "" {
		sslMode := os.Getenv("DB_SSL_MODE")
		if sslMode == "" {
			sslMode = "disable"
		}
		ds.dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
			sslMode,
		)
	}

	if ds.dsn != "" {
		ds.driver = driverPostgres
	} else {
		ds.driver = driverSqlite
		ds.sqlitePath = os.Getenv("DB_DATABASE")
		if ds.sqlitePath == "" {
			ds.sqlitePath = "luminax.db"
		}
	}

	return ds.DefaultService.Configure(ctx)
}

// Start opens the connection and migrates any tables that have changed
// since last runtime.
func (ds *SqlService) Start() (err error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	}

	switch ds.driver {
	case driverPostgres:
		ds.db, err = ds.connectPostgres(cfg)
	default:
		ds.db, err = gorm.Open(sqlite.Open(ds.sqlitePath), cfg)
	}
	if err != nil {
		return err
	}

	models := []interface{}{
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
	}

	if err = ds.db.AutoMigrate(models...); err != nil {
		log.WithError(err).Error("Failed to migrate database")
		return err
	}

	ds.activities = repositories.NewActivityRepository(ds.db)
	ds.quests = repositories.NewQuestRepository(ds.db)

	log.WithField("driver", ds.driver).Info("Database connected and migrated successfully")
	return nil
}

func (ds *SqlService) connectPostgres(cfg *gorm.Config) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	maxAttempts := 5
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err = gorm.Open(postgres.Open(ds.dsn), cfg)
		if err == nil {
			return db, nil
		}

		wait := time.Duration(attempt) * 2 * time.Second
		log.WithFields(log.Fields{
			"attempt": attempt,
			"wait":    wait.String(),
		}).WithError(err).Warn("Postgres connection failed, retrying")
		time.Sleep(wait)
	}

	return nil, fmt.Errorf("postgres unreachable after %d attempts: %w", maxAttempts, err)
}

func (ds *SqlService) Shutdown() {
}

// HandleError tags database failures so the HTTP layer can map them to
// status codes without importing gorm.
func (ds *SqlService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound // 404
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict // 409
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest // 400
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError // 500
		errorType = "TRANSACTION_ERROR"
	default:
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			statusCode = http.StatusConflict // 409
			errorType = "CONFLICT"
		} else if strings.Contains(err.Error(), "no such table") {
			statusCode = http.StatusInternalServerError // 500
			errorType = "SCHEMA_ERROR"
		} else {
			statusCode = http.StatusInternalServerError // 500
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return fmt.Errorf("%s: %w", errorType, err)
}

// ==================== USERS ====================

func (ds *SqlService) CreateUser(user *model.User) error {
	return ds.HandleError(ds.db.Create(user).Error)
}

func (ds *SqlService) GetUserByID(id string) (*model.User, error) {
	var user model.User
	if err := ds.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *SqlService) GetUserByEmailOrUsername(identifier string) (*model.User, error) {
	var user model.User
	err := ds.db.Where("email = ? OR username = ?", identifier, identifier).First(&user).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *SqlService) UsernameExists(username string) (bool, error) {
	var count int64
	err := ds.db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, ds.HandleError(err)
	}
	return count > 0, nil
}

func (ds *SqlService) UpdateUser(user *model.User) error {
	return ds.HandleError(ds.db.Save(user).Error)
}

func (ds *SqlService) TouchLastLogin(userID string, at time.Time) error {
	return ds.HandleError(ds.db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login", at).Error)
}

// ==================== PROGRESS / LEADERBOARD ====================

func (ds *SqlService) GetProgress(userID string) (*model.UserProgress, error) {
	var progress model.UserProgress
	if err := ds.db.First(&progress, "user_id = ?", userID).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &progress, nil
}

// GetTopByXP orders by xp descending with user_id as the deterministic
// tie break.
func (ds *SqlService) GetTopByXP(limit int) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	err := ds.db.Order("xp DESC").Order("user_id ASC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return rows, nil
}

// GetUserRank is 1 + the number of users holding strictly more XP.
func (ds *SqlService) GetUserRank(xp int64) (int64, error) {
	var ahead int64
	err := ds.db.Model(&model.UserProgress{}).Where("xp > ?", xp).Count(&ahead).Error
	if err != nil {
		return 0, ds.HandleError(err)
	}
	return ahead + 1, nil
}

func (ds *SqlService) CountProgressRows() (int64, error) {
	var total int64
	err := ds.db.Model(&model.UserProgress{}).Count(&total).Error
	if err != nil {
		return 0, ds.HandleError(err)
	}
	return total, nil
}

func (ds *SqlService) GetUsersByIDs(ids []string) (map[string]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return map[string]model.User{}, nil
	}
	if err := ds.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// ==================== SETTINGS ====================

func (ds *SqlService) GetSettings(userID string) (*model.UserSettings, error) {
	var settings model.UserSettings
	if err := ds.db.First(&settings, "user_id = ?", userID).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &settings, nil
}

func (ds *SqlService) SaveSettings(settings *model.UserSettings) error {
	return ds.HandleError(ds.db.Save(settings).Error)
}

// ==================== COMMUNITIES ====================

func (ds *SqlService) CreateCommunity(community *model.Community) error {
	return ds.HandleError(ds.db.Create(community).Error)
}

func (ds *SqlService) GetCommunity(id string) (*model.Community, error) {
	var community model.Community
	if err := ds.db.First(&community, "id = ?", id).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &community, nil
}

func (ds *SqlService) ListCommunities(limit int) ([]model.Community, error) {
	var communities []model.Community
	err := ds.db.Order("member_count DESC").Order("name ASC").Limit(limit).Find(&communities).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return communities, nil
}

func (ds *SqlService) GetMemberCommunityIDs(userID string) ([]string, error) {
	var ids []string
	err := ds.db.Model(&model.CommunityMember{}).
		Where("user_id = ?", userID).
		Pluck("community_id", &ids).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return ids, nil
}

func (ds *SqlService) GetCommunityMemberIDs(communityID string) ([]string, error) {
	var ids []string
	err := ds.db.Model(&model.CommunityMember{}).
		Where("community_id = ?", communityID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return ids, nil
}

func (ds *SqlService) GetCommunityPosts(communityID string, limit int) ([]model.CommunityPost, error) {
	var posts []model.CommunityPost
	err := ds.db.Where("community_id = ?", communityID).
		Order("created_at DESC").Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return posts, nil
}
