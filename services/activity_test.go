package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/shared"
)

func TestRecordStudySessionAwardsMinuteXP(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	activitySvc := newTestActivityService(sqlSvc)
	user := createTestUser(t, sqlSvc, "studier")

	resp, err := activitySvc.RecordStudySession(user.ID, dto.StudySessionRequest{
		Subject:         "mathematics",
		Topic:           "linear algebra",
		DurationMinutes: 45,
	})
	require.NoError(t, err)

	assert.Equal(t, shared.ActivityStudySession, resp.Event.Kind)
	assert.Equal(t, int64(45), resp.Event.XPAwarded)
	assert.Equal(t, int64(45), resp.Progress.XP)
	assert.Equal(t, 1, resp.Progress.Streak)

	var count int64
	require.NoError(t, sqlSvc.Db().Model(&model.ActivityEvent{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordStudySessionRejectsNonPositiveDuration(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	activitySvc := newTestActivityService(sqlSvc)
	user := createTestUser(t, sqlSvc, "idler")

	_, err := activitySvc.RecordStudySession(user.ID, dto.StudySessionRequest{
		Subject:         "physics",
		DurationMinutes: 0,
	})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestRecordQuizResultDefaultsXPFromScore(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	activitySvc := newTestActivityService(sqlSvc)
	user := createTestUser(t, sqlSvc, "quizzer")

	// 87 rounds down to 80.
	resp, err := activitySvc.RecordQuizResult(user.ID, dto.QuizResultRequest{
		Subject:        "physics",
		Score:          87,
		TotalQuestions: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(80), resp.Event.XPAwarded)
	assert.Equal(t, int64(80), resp.Progress.XP)
}

func TestRecordQuizResultHonorsExplicitXP(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	activitySvc := newTestActivityService(sqlSvc)
	user := createTestUser(t, sqlSvc, "overrider")

	override := int64(125)
	resp, err := activitySvc.RecordQuizResult(user.ID, dto.QuizResultRequest{
		Subject:        "chemistry",
		Score:          40,
		TotalQuestions: 5,
		XPEarned:       &override,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(125), resp.Event.XPAwarded)

	// An explicit zero awards nothing instead of falling back to the
	// score-derived default.
	zero := int64(0)
	resp, err = activitySvc.RecordQuizResult(user.ID, dto.QuizResultRequest{
		Subject:        "chemistry",
		Score:          90,
		TotalQuestions: 5,
		XPEarned:       &zero,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Event.XPAwarded)
	assert.Equal(t, int64(125), resp.Progress.XP)
}

func TestRecordQuizResultRejectsOutOfRangeScore(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	activitySvc := newTestActivityService(sqlSvc)
	user := createTestUser(t, sqlSvc, "cheater")

	_, err := activitySvc.RecordQuizResult(user.ID, dto.QuizResultRequest{
		Subject:        "biology",
		Score:          101,
		TotalQuestions: 10,
	})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestRecordAchievementIsIdempotentPerKind(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	activitySvc := newTestActivityService(sqlSvc)
	user := createTestUser(t, sqlSvc, "collector")

	req := dto.AchievementRequest{
		Kind:     "first_week_streak",
		Title:    "Studied 7 days in a row",
		XPReward: 250,
	}

	resp, err := activitySvc.RecordAchievement(user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(250), resp.Progress.XP)

	// The repeat grant conflicts and the original award stands.
	_, err = activitySvc.RecordAchievement(user.ID, req)
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)

	var progress model.UserProgress
	require.NoError(t, sqlSvc.Db().First(&progress, "user_id = ?", user.ID).Error)
	assert.Equal(t, int64(250), progress.XP)

	// A different kind for the same user is fine.
	_, err = activitySvc.RecordAchievement(user.ID, dto.AchievementRequest{
		Kind:     "night_owl",
		XPReward: 50,
	})
	require.NoError(t, err)
}

func TestStudySessionAdvancesMatchingQuests(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	activitySvc := newTestActivityService(sqlSvc)
	questSvc := activitySvc.questSvc
	user := createTestUser(t, sqlSvc, "multitasker")

	minutesQuest, err := questSvc.CreateQuest(user.ID, dto.CreateQuestRequest{
		Title:      "Study 100 minutes",
		TargetKind: shared.QuestTargetMinutes,
		Target:     100,
		XPReward:   200,
	})
	require.NoError(t, err)

	sessionsQuest, err := questSvc.CreateQuest(user.ID, dto.CreateQuestRequest{
		Title:      "Log 3 sessions",
		TargetKind: shared.QuestTargetSessions,
		Target:     3,
	})
	require.NoError(t, err)

	quizQuest, err := questSvc.CreateQuest(user.ID, dto.CreateQuestRequest{
		Title:      "Pass 2 quizzes",
		TargetKind: shared.QuestTargetQuizzes,
		Target:     2,
	})
	require.NoError(t, err)

	_, err = activitySvc.RecordStudySession(user.ID, dto.StudySessionRequest{
		Subject:         "mathematics",
		DurationMinutes: 40,
	})
	require.NoError(t, err)

	var quest model.Quest
	require.NoError(t, sqlSvc.Db().First(&quest, "id = ?", minutesQuest.ID).Error)
	assert.Equal(t, 40, quest.Progress)

	require.NoError(t, sqlSvc.Db().First(&quest, "id = ?", sessionsQuest.ID).Error)
	assert.Equal(t, 1, quest.Progress)

	// Quiz quests do not move on study sessions.
	require.NoError(t, sqlSvc.Db().First(&quest, "id = ?", quizQuest.ID).Error)
	assert.Equal(t, 0, quest.Progress)
}

func TestActivityCompletingQuestPaysRewardInSameTransaction(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	activitySvc := newTestActivityService(sqlSvc)
	user := createTestUser(t, sqlSvc, "finisher")

	quest, err := activitySvc.questSvc.CreateQuest(user.ID, dto.CreateQuestRequest{
		Title:      "Study 30 minutes",
		TargetKind: shared.QuestTargetMinutes,
		Target:     30,
		XPReward:   300,
	})
	require.NoError(t, err)

	resp, err := activitySvc.RecordStudySession(user.ID, dto.StudySessionRequest{
		Subject:         "history",
		DurationMinutes: 30,
	})
	require.NoError(t, err)

	require.Len(t, resp.CompletedQuests, 1)
	assert.Equal(t, quest.ID, resp.CompletedQuests[0].ID)
	assert.Equal(t, shared.QuestStatusCompleted, resp.CompletedQuests[0].Status)

	// 30 XP for the session plus the 300 XP quest reward, in one total.
	assert.Equal(t, int64(330), resp.Progress.XP)
}

func TestSubjectScopedQuestIgnoresOtherSubjects(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	activitySvc := newTestActivityService(sqlSvc)
	user := createTestUser(t, sqlSvc, "specialist")

	mathQuest, err := activitySvc.questSvc.CreateQuest(user.ID, dto.CreateQuestRequest{
		Title:      "Math minutes",
		TargetKind: shared.QuestTargetMinutes,
		Subject:    "mathematics",
		Target:     60,
	})
	require.NoError(t, err)

	anyQuest, err := activitySvc.questSvc.CreateQuest(user.ID, dto.CreateQuestRequest{
		Title:      "Any minutes",
		TargetKind: shared.QuestTargetMinutes,
		Target:     60,
	})
	require.NoError(t, err)

	_, err = activitySvc.RecordStudySession(user.ID, dto.StudySessionRequest{
		Subject:         "physics",
		DurationMinutes: 20,
	})
	require.NoError(t, err)

	var quest model.Quest
	require.NoError(t, sqlSvc.Db().First(&quest, "id = ?", mathQuest.ID).Error)
	assert.Equal(t, 0, quest.Progress)

	// The unscoped quest matches every subject.
	require.NoError(t, sqlSvc.Db().First(&quest, "id = ?", anyQuest.ID).Error)
	assert.Equal(t, 20, quest.Progress)
}

func TestQuizAdvancesQuizQuests(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	activitySvc := newTestActivityService(sqlSvc)
	user := createTestUser(t, sqlSvc, "examinee")

	quizQuest, err := activitySvc.questSvc.CreateQuest(user.ID, dto.CreateQuestRequest{
		Title:      "Pass 2 quizzes",
		TargetKind: shared.QuestTargetQuizzes,
		Target:     2,
		XPReward:   100,
	})
	require.NoError(t, err)

	resp, err := activitySvc.RecordQuizResult(user.ID, dto.QuizResultRequest{
		Subject:        "mathematics",
		Score:          70,
		TotalQuestions: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.CompletedQuests)

	resp, err = activitySvc.RecordQuizResult(user.ID, dto.QuizResultRequest{
		Subject:        "mathematics",
		Score:          90,
		TotalQuestions: 10,
	})
	require.NoError(t, err)
	require.Len(t, resp.CompletedQuests, 1)
	assert.Equal(t, quizQuest.ID, resp.CompletedQuests[0].ID)

	// 70 + 90 quiz XP plus the 100 XP reward.
	assert.Equal(t, int64(260), resp.Progress.XP)
}

func TestRecentActivityClampsLimit(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	activitySvc := newTestActivityService(sqlSvc)
	user := createTestUser(t, sqlSvc, "historian")

	for i := 0; i < 3; i++ {
		_, err := activitySvc.RecordStudySession(user.ID, dto.StudySessionRequest{
			Subject:         "geography",
			DurationMinutes: 10,
		})
		require.NoError(t, err)
	}

	events, err := activitySvc.RecentActivity(user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	// Out-of-range limits fall back to the default of 20.
	events, err = activitySvc.RecentActivity(user.ID, -1)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestFailedRecordLeavesNoPartialEffects(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	activitySvc := newTestActivityService(sqlSvc)
	user := createTestUser(t, sqlSvc, "unlucky")

	_, err := activitySvc.RecordStudySession(user.ID, dto.StudySessionRequest{
		Subject:         "mathematics",
		DurationMinutes: 30,
	})
	require.NoError(t, err)

	// Breaking the quest table makes the auto-advance step fail mid
	// transaction, after the event insert and the XP credit.
	require.NoError(t, sqlSvc.Db().Migrator().DropTable(&model.Quest{}))

	_, err = activitySvc.RecordStudySession(user.ID, dto.StudySessionRequest{
		Subject:         "mathematics",
		DurationMinutes: 45,
	})
	require.Error(t, err)

	// The whole transaction rolled back: no second event, XP unchanged.
	var count int64
	require.NoError(t, sqlSvc.Db().Model(&model.ActivityEvent{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var progress model.UserProgress
	require.NoError(t, sqlSvc.Db().First(&progress, "user_id = ?", user.ID).Error)
	assert.Equal(t, int64(30), progress.XP)
}

func TestUserAchievementsListsGrants(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	activitySvc := newTestActivityService(sqlSvc)
	user := createTestUser(t, sqlSvc, "decorated")

	_, err := activitySvc.RecordAchievement(user.ID, dto.AchievementRequest{Kind: "early_bird", XPReward: 25})
	require.NoError(t, err)
	_, err = activitySvc.RecordAchievement(user.ID, dto.AchievementRequest{Kind: "night_owl", XPReward: 25})
	require.NoError(t, err)

	achievements, err := activitySvc.UserAchievements(user.ID)
	require.NoError(t, err)
	assert.Len(t, achievements, 2)
}
