package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/shared"
)

func TestCalculateLevel(t *testing.T) {
	assert.Equal(t, 1, CalculateLevel(0))
	assert.Equal(t, 1, CalculateLevel(999))
	assert.Equal(t, 2, CalculateLevel(1000))
	assert.Equal(t, 2, CalculateLevel(1999))
	assert.Equal(t, 3, CalculateLevel(2000))
	assert.Equal(t, 11, CalculateLevel(10500))
}

func TestGetProgressDefaultsForNewUser(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	ledger := newTestLedgerService(sqlSvc)

	summary, err := ledger.GetProgress("missing-user")
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.XP)
	assert.Equal(t, 1, summary.Level)
	assert.Equal(t, int64(1000), summary.XPToNextLevel)
	assert.Equal(t, 0, summary.Streak)
	assert.Nil(t, summary.LastActivityDate)
}

func TestApplyActivityCreditsXPAndLevels(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	ledger := newTestLedgerService(sqlSvc)
	user := createTestUser(t, sqlSvc, "leveler")

	var progress *model.UserProgress
	err := sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		var err error
		progress, err = ledger.ApplyActivity(tx, user.ID, 950, time.Now())
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(950), progress.XP)
	assert.Equal(t, 1, progress.Level)

	err = sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		var err error
		progress, err = ledger.ApplyActivity(tx, user.ID, 100, time.Now())
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1050), progress.XP)
	assert.Equal(t, 2, progress.Level)
}

func TestApplyActivityXPNeverDecreases(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	ledger := newTestLedgerService(sqlSvc)
	user := createTestUser(t, sqlSvc, "hoarder")

	err := sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		_, err := ledger.ApplyActivity(tx, user.ID, 500, time.Now())
		return err
	})
	require.NoError(t, err)

	// A zero-XP event still counts for the streak but leaves XP alone.
	var progress *model.UserProgress
	err = sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		var err error
		progress, err = ledger.ApplyActivity(tx, user.ID, 0, time.Now())
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(500), progress.XP)
}

func TestApplyRejectsNegativeAmounts(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	ledger := newTestLedgerService(sqlSvc)
	user := createTestUser(t, sqlSvc, "debtor")

	setProgress(t, sqlSvc, user.ID, 500)

	err := sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		_, err := ledger.ApplyActivity(tx, user.ID, -50, time.Now())
		return err
	})
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)

	err = sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		_, err := ledger.ApplyXP(tx, user.ID, -1)
		return err
	})
	require.Error(t, err)
	appErr, ok = shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)

	// Neither XP nor the streak moved on the rejected calls.
	var progress model.UserProgress
	require.NoError(t, sqlSvc.Db().First(&progress, "user_id = ?", user.ID).Error)
	assert.Equal(t, int64(500), progress.XP)
	assert.Equal(t, 0, progress.Streak)
	assert.Nil(t, progress.LastActivityDate)
}

func TestStreakRules(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	ledger := newTestLedgerService(sqlSvc)
	user := createTestUser(t, sqlSvc, "streaker")

	apply := func(at time.Time) *model.UserProgress {
		var progress *model.UserProgress
		err := sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
			var err error
			progress, err = ledger.ApplyActivity(tx, user.ID, 10, at)
			return err
		})
		require.NoError(t, err)
		return progress
	}

	// First activity starts the streak.
	progress := apply(dayAt(2026, time.March, 2, 9))
	assert.Equal(t, 1, progress.Streak)

	// Same calendar day does not extend it.
	progress = apply(dayAt(2026, time.March, 2, 21))
	assert.Equal(t, 1, progress.Streak)

	// Next day extends it.
	progress = apply(dayAt(2026, time.March, 3, 7))
	assert.Equal(t, 2, progress.Streak)
	progress = apply(dayAt(2026, time.March, 4, 23))
	assert.Equal(t, 3, progress.Streak)
	assert.Equal(t, 3, progress.LongestStreak)

	// A gap resets to 1 but the longest streak is kept.
	progress = apply(dayAt(2026, time.March, 7, 12))
	assert.Equal(t, 1, progress.Streak)
	assert.Equal(t, 3, progress.LongestStreak)
}

func TestStreakAcrossMidnightBoundary(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	ledger := newTestLedgerService(sqlSvc)
	user := createTestUser(t, sqlSvc, "nightowl")

	apply := func(at time.Time) *model.UserProgress {
		var progress *model.UserProgress
		err := sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
			var err error
			progress, err = ledger.ApplyActivity(tx, user.ID, 5, at)
			return err
		})
		require.NoError(t, err)
		return progress
	}

	// 23:59 and 00:01 the next day are consecutive calendar days even
	// though only two minutes apart.
	apply(time.Date(2026, time.March, 2, 23, 59, 0, 0, time.UTC))
	progress := apply(time.Date(2026, time.March, 3, 0, 1, 0, 0, time.UTC))
	assert.Equal(t, 2, progress.Streak)
}

func TestApplyXPSkipsStreak(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	ledger := newTestLedgerService(sqlSvc)
	user := createTestUser(t, sqlSvc, "rewarded")

	var progress *model.UserProgress
	err := sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		var err error
		progress, err = ledger.ApplyXP(tx, user.ID, 1200)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1200), progress.XP)
	assert.Equal(t, 2, progress.Level)
	assert.Equal(t, 0, progress.Streak)
	assert.Nil(t, progress.LastActivityDate)
}
