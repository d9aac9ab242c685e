package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/shared"
)

// seedRankedUser inserts a user with a chosen ID so tie ordering in the
// assertions is deterministic.
func seedRankedUser(t *testing.T, sqlSvc *SqlService, id string, xp int64) {
	t.Helper()

	user := &model.User{
		ID:       id,
		Email:    id + "@example.com",
		Username: id,
		Password: "not-a-real-hash",
		Role:     "user",
	}
	require.NoError(t, sqlSvc.Db().Create(user).Error)
	setProgress(t, sqlSvc, id, xp)
}

func TestTopBreaksTiesByUserID(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	rankingSvc := newTestRankingService(sqlSvc)

	seedRankedUser(t, sqlSvc, "user-c", 500)
	seedRankedUser(t, sqlSvc, "user-a", 500)
	seedRankedUser(t, sqlSvc, "user-b", 900)

	resp, err := rankingSvc.Top(10)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 3)

	assert.Equal(t, "user-b", resp.Entries[0].UserID)
	assert.Equal(t, 1, resp.Entries[0].Rank)

	// Equal XP lists the smaller user ID first.
	assert.Equal(t, "user-a", resp.Entries[1].UserID)
	assert.Equal(t, "user-c", resp.Entries[2].UserID)
}

func TestTopClampsRequestedSize(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	rankingSvc := newTestRankingService(sqlSvc)

	for i := 0; i < 12; i++ {
		seedRankedUser(t, sqlSvc, fmt.Sprintf("user-%02d", i), int64(100*i))
	}

	// Zero falls back to the default page size of 10.
	resp, err := rankingSvc.Top(0)
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 10)
}

func TestRankOfSharesRankAcrossTies(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	rankingSvc := newTestRankingService(sqlSvc)

	seedRankedUser(t, sqlSvc, "user-a", 1000)
	seedRankedUser(t, sqlSvc, "user-b", 500)
	seedRankedUser(t, sqlSvc, "user-c", 500)
	seedRankedUser(t, sqlSvc, "user-d", 100)

	rank, err := rankingSvc.RankOf("user-b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rank.Rank)
	assert.Equal(t, int64(4), rank.Total)

	// The other 500 XP user holds the same rank.
	rank, err = rankingSvc.RankOf("user-c")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rank.Rank)

	rank, err = rankingSvc.RankOf("user-d")
	require.NoError(t, err)
	assert.Equal(t, int64(4), rank.Rank)
}

func TestRankOfUserWithoutProgress(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	rankingSvc := newTestRankingService(sqlSvc)

	seedRankedUser(t, sqlSvc, "user-a", 300)

	rank, err := rankingSvc.RankOf("stranger")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rank.XP)
	assert.Equal(t, int64(2), rank.Rank)
}

func seedEvent(t *testing.T, sqlSvc *SqlService, userID string, xp int64, occurredAt time.Time) {
	t.Helper()

	id, _ := uuid.NewV7()
	require.NoError(t, sqlSvc.Db().Create(&model.ActivityEvent{
		ID:         id.String(),
		UserID:     userID,
		Kind:       shared.ActivityStudySession,
		XPAwarded:  xp,
		OccurredAt: occurredAt,
	}).Error)
}

func TestWeeklyTopIgnoresOldEvents(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	rankingSvc := newTestRankingService(sqlSvc)

	seedRankedUser(t, sqlSvc, "user-a", 0)
	seedRankedUser(t, sqlSvc, "user-b", 0)

	now := time.Now()
	seedEvent(t, sqlSvc, "user-a", 100, now.AddDate(0, 0, -2))
	seedEvent(t, sqlSvc, "user-a", 50, now.AddDate(0, 0, -6))
	seedEvent(t, sqlSvc, "user-b", 400, now.AddDate(0, 0, -10))
	seedEvent(t, sqlSvc, "user-b", 30, now.AddDate(0, 0, -1))

	resp, err := rankingSvc.WeeklyTop(10)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)

	// user-b's 400 XP event is outside the trailing week.
	assert.Equal(t, "user-a", resp.Entries[0].UserID)
	assert.Equal(t, int64(150), resp.Entries[0].XPEarned)
	assert.Equal(t, "user-b", resp.Entries[1].UserID)
	assert.Equal(t, int64(30), resp.Entries[1].XPEarned)
}

func TestAchievementsTopCountsGrants(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	rankingSvc := newTestRankingService(sqlSvc)

	seedRankedUser(t, sqlSvc, "user-a", 0)
	seedRankedUser(t, sqlSvc, "user-b", 0)

	grant := func(userID, kind string) {
		id, _ := uuid.NewV7()
		require.NoError(t, sqlSvc.Db().Create(&model.Achievement{
			ID:       id.String(),
			UserID:   userID,
			Kind:     kind,
			EarnedAt: time.Now(),
		}).Error)
	}
	grant("user-b", "early_bird")
	grant("user-b", "night_owl")
	grant("user-a", "early_bird")

	resp, err := rankingSvc.AchievementsTop(10)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "user-b", resp.Entries[0].UserID)
	assert.Equal(t, int64(2), resp.Entries[0].Achievements)
	assert.Equal(t, "user-a", resp.Entries[1].UserID)
	assert.Equal(t, int64(1), resp.Entries[1].Achievements)
}

func TestCommunityTopScopesToMembers(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	rankingSvc := newTestRankingService(sqlSvc)

	seedRankedUser(t, sqlSvc, "user-a", 800)
	seedRankedUser(t, sqlSvc, "user-b", 600)
	seedRankedUser(t, sqlSvc, "user-c", 1000)

	communityID, _ := uuid.NewV7()
	require.NoError(t, sqlSvc.Db().Create(&model.Community{
		ID:          communityID.String(),
		Name:        "Math Grinders",
		CreatedBy:   "user-a",
		MemberCount: 2,
	}).Error)
	for _, userID := range []string{"user-a", "user-b"} {
		memberID, _ := uuid.NewV7()
		require.NoError(t, sqlSvc.Db().Create(&model.CommunityMember{
			ID:          memberID.String(),
			CommunityID: communityID.String(),
			UserID:      userID,
			JoinedAt:    time.Now(),
		}).Error)
	}

	resp, err := rankingSvc.CommunityTop(communityID.String(), 10)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)

	// user-c leads the global board but is not a member here.
	assert.Equal(t, "user-a", resp.Entries[0].UserID)
	assert.Equal(t, "user-b", resp.Entries[1].UserID)
}
