package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/shared"
)

func TestCreateQuestDefaults(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	questSvc := newTestQuestService(sqlSvc)
	user := createTestUser(t, sqlSvc, "quester")

	quest, err := questSvc.CreateQuest(user.ID, dto.CreateQuestRequest{
		Title:    "Read 200 minutes",
		Target:   200,
		XPReward: 100,
	})
	require.NoError(t, err)

	assert.Equal(t, shared.QuestTargetMinutes, quest.TargetKind)
	assert.Equal(t, shared.QuestStatusActive, quest.Status)
	assert.Equal(t, 0, quest.Progress)
	assert.Nil(t, quest.ExpiresAt)
}

func TestCreateQuestRejectsPastDeadline(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	questSvc := newTestQuestService(sqlSvc)
	user := createTestUser(t, sqlSvc, "latecomer")

	past := time.Now().Add(-time.Hour)
	_, err := questSvc.CreateQuest(user.ID, dto.CreateQuestRequest{
		Title:     "Too late",
		Target:    10,
		ExpiresAt: &past,
	})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestAdvanceQuestClampsAtTarget(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	questSvc := newTestQuestService(sqlSvc)
	user := createTestUser(t, sqlSvc, "clamper")

	quest, err := questSvc.CreateQuest(user.ID, dto.CreateQuestRequest{
		Title:  "Finish 10 quizzes",
		Target: 10,
	})
	require.NoError(t, err)

	resp, err := questSvc.AdvanceQuest(user.ID, quest.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Quest.Progress)
	assert.Equal(t, shared.QuestStatusActive, resp.Quest.Status)

	// Overshooting clamps progress at the target.
	resp, err = questSvc.AdvanceQuest(user.ID, quest.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Quest.Progress)
	assert.Equal(t, shared.QuestStatusCompleted, resp.Quest.Status)
	assert.NotNil(t, resp.Quest.CompletedAt)
}

func TestAdvanceQuestPaysRewardExactlyOnce(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	questSvc := newTestQuestService(sqlSvc)
	user := createTestUser(t, sqlSvc, "earner")

	quest, err := questSvc.CreateQuest(user.ID, dto.CreateQuestRequest{
		Title:    "Study 60 minutes",
		Target:   60,
		XPReward: 500,
	})
	require.NoError(t, err)

	resp, err := questSvc.AdvanceQuest(user.ID, quest.ID, 60)
	require.NoError(t, err)
	require.NotNil(t, resp.Progress)
	assert.Equal(t, int64(500), resp.Progress.XP)

	// Advancing a completed quest is a no-op and pays nothing.
	resp, err = questSvc.AdvanceQuest(user.ID, quest.ID, 60)
	require.NoError(t, err)
	assert.Nil(t, resp.Progress)
	assert.Equal(t, shared.QuestStatusCompleted, resp.Quest.Status)

	var progress model.UserProgress
	require.NoError(t, sqlSvc.Db().First(&progress, "user_id = ?", user.ID).Error)
	assert.Equal(t, int64(500), progress.XP)
}

func TestAdvanceQuestValidatesAmount(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	questSvc := newTestQuestService(sqlSvc)
	user := createTestUser(t, sqlSvc, "zeroed")

	quest, err := questSvc.CreateQuest(user.ID, dto.CreateQuestRequest{Title: "q", Target: 5})
	require.NoError(t, err)

	_, err = questSvc.AdvanceQuest(user.ID, quest.ID, 0)
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestAdvanceUnknownQuestNotFound(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	questSvc := newTestQuestService(sqlSvc)
	user := createTestUser(t, sqlSvc, "searcher")

	_, err := questSvc.AdvanceQuest(user.ID, "no-such-quest", 1)
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestAdvanceExpiredQuestConflicts(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	questSvc := newTestQuestService(sqlSvc)
	user := createTestUser(t, sqlSvc, "sleeper")

	// Insert directly so the deadline can already be in the past.
	id, _ := uuid.NewV7()
	expired := time.Now().Add(-time.Minute)
	require.NoError(t, sqlSvc.Db().Create(&model.Quest{
		ID:         id.String(),
		UserID:     user.ID,
		Title:      "Missed it",
		TargetKind: shared.QuestTargetMinutes,
		Target:     30,
		XPReward:   100,
		Status:     shared.QuestStatusActive,
		ExpiresAt:  &expired,
	}).Error)

	_, err := questSvc.AdvanceQuest(user.ID, id.String(), 10)
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)

	// The quest is now marked expired and no reward was paid.
	var quest model.Quest
	require.NoError(t, sqlSvc.Db().First(&quest, "id = ?", id.String()).Error)
	assert.Equal(t, shared.QuestStatusExpired, quest.Status)

	var count int64
	require.NoError(t, sqlSvc.Db().Model(&model.UserProgress{}).Where("user_id = ? AND xp > 0", user.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestListQuestsExpiresOverdue(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	questSvc := newTestQuestService(sqlSvc)
	user := createTestUser(t, sqlSvc, "lister")

	id, _ := uuid.NewV7()
	expired := time.Now().Add(-time.Hour)
	require.NoError(t, sqlSvc.Db().Create(&model.Quest{
		ID:         id.String(),
		UserID:     user.ID,
		Title:      "Old quest",
		TargetKind: shared.QuestTargetQuizzes,
		Target:     3,
		Status:     shared.QuestStatusActive,
		ExpiresAt:  &expired,
	}).Error)

	resp, err := questSvc.ListQuests(user.ID)
	require.NoError(t, err)
	require.Len(t, resp.Quests, 1)
	assert.Equal(t, shared.QuestStatusExpired, resp.Quests[0].Status)
}
