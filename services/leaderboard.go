package services

import (
	goContext "context"
	"errors"
	"sort"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/model"
)

// RankingViewService serves the leaderboards. The Redis sorted set is a
// read cache for the all-time board; SQL stays the source of truth and
// answers whenever the cache is cold or disabled.
type RankingViewService struct {
	context.DefaultService

	sqlSvc   *SqlService
	redisSvc *RedisService
}

const LEADERBOARD_SVC = "leaderboard_svc"

const defaultLeaderboardSize = 10
const maxLeaderboardSize = 100

func (svc RankingViewService) Id() string {
	return LEADERBOARD_SVC
}

func (svc *RankingViewService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *RankingViewService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// Top returns the n highest-XP users, ties broken by user ID so the
// ordering never flaps between reads.
func (svc *RankingViewService) Top(n int) (*dto.LeaderboardResponse, error) {
	n = clampLimit(n)

	if svc.redisSvc.Available() {
		if resp, err := svc.topFromCache(n); err == nil {
			return resp, nil
		} else {
			log.WithError(err).Warn("Leaderboard cache read failed, falling back to SQL")
		}
	}

	rows, err := svc.sqlSvc.GetTopByXP(n)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	users, err := svc.sqlSvc.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.LeaderboardResponse{Scope: "all_time", Entries: make([]dto.LeaderboardEntry, 0, len(rows))}
	for i, row := range rows {
		user := users[row.UserID]
		resp.Entries = append(resp.Entries, dto.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      row.UserID,
			Username:    user.Username,
			DisplayName: user.DisplayName,
			Level:       row.Level,
			XP:          row.XP,
		})
	}
	return resp, nil
}

func (svc *RankingViewService) topFromCache(n int) (*dto.LeaderboardResponse, error) {
	ctx, cancel := goContext.WithTimeout(goContext.Background(), 2*time.Second)
	defer cancel()

	zs, err := svc.redisSvc.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n)-1)
	if err != nil {
		return nil, err
	}
	if len(zs) == 0 {
		return nil, errors.New("leaderboard cache empty")
	}

	type scored struct {
		userID string
		xp     int64
	}
	members := make([]scored, 0, len(zs))
	ids := make([]string, 0, len(zs))
	for _, z := range zs {
		userID, _ := z.Member.(string)
		members = append(members, scored{userID: userID, xp: int64(z.Score)})
		ids = append(ids, userID)
	}

	// ZREVRANGE orders score ties by member descending; re-sort so
	// equal XP lists the smaller user ID first.
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].xp != members[j].xp {
			return members[i].xp > members[j].xp
		}
		return members[i].userID < members[j].userID
	})

	users, err := svc.sqlSvc.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.LeaderboardResponse{Scope: "all_time", Entries: make([]dto.LeaderboardEntry, 0, len(members))}
	for i, m := range members {
		user := users[m.userID]
		resp.Entries = append(resp.Entries, dto.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      m.userID,
			Username:    user.Username,
			DisplayName: user.DisplayName,
			Level:       CalculateLevel(m.xp),
			XP:          m.xp,
		})
	}
	return resp, nil
}

// RankOf is 1 + the number of users with strictly more XP, so equal
// totals share a rank. Served from SQL: the sorted set ranks ties
// differently and this needs to match the stored truth.
func (svc *RankingViewService) RankOf(userID string) (*dto.MyRankResponse, error) {
	var xp int64
	progress, err := svc.sqlSvc.GetProgress(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else {
		xp = progress.XP
	}

	rank, err := svc.sqlSvc.GetUserRank(xp)
	if err != nil {
		return nil, err
	}

	total, err := svc.sqlSvc.CountProgressRows()
	if err != nil {
		return nil, err
	}

	return &dto.MyRankResponse{UserID: userID, Rank: rank, XP: xp, Total: total}, nil
}

// WeeklyTop ranks XP earned from events in the trailing seven days.
func (svc *RankingViewService) WeeklyTop(n int) (*dto.WeeklyLeaderboardResponse, error) {
	n = clampLimit(n)
	since := time.Now().AddDate(0, 0, -7)

	rows, err := svc.sqlSvc.Activities().WeeklyXP(since, n)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	users, err := svc.sqlSvc.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.WeeklyLeaderboardResponse{Entries: make([]dto.WeeklyLeaderboardEntry, 0, len(rows))}
	for i, row := range rows {
		resp.Entries = append(resp.Entries, dto.WeeklyLeaderboardEntry{
			Rank:     i + 1,
			UserID:   row.UserID,
			Username: users[row.UserID].Username,
			XPEarned: row.Total,
		})
	}
	return resp, nil
}

func (svc *RankingViewService) AchievementsTop(n int) (*dto.AchievementLeaderboardResponse, error) {
	n = clampLimit(n)

	rows, err := svc.sqlSvc.Activities().AchievementCounts(n)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	users, err := svc.sqlSvc.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.AchievementLeaderboardResponse{Entries: make([]dto.AchievementLeaderboardEntry, 0, len(rows))}
	for i, row := range rows {
		resp.Entries = append(resp.Entries, dto.AchievementLeaderboardEntry{
			Rank:         i + 1,
			UserID:       row.UserID,
			Username:     users[row.UserID].Username,
			Achievements: row.Total,
		})
	}
	return resp, nil
}

// CommunityTop scopes the all-time board to one community's members.
func (svc *RankingViewService) CommunityTop(communityID string, n int) (*dto.LeaderboardResponse, error) {
	n = clampLimit(n)

	if _, err := svc.sqlSvc.GetCommunity(communityID); err != nil {
		return nil, err
	}

	memberIDs, err := svc.sqlSvc.GetCommunityMemberIDs(communityID)
	if err != nil {
		return nil, err
	}

	var rows []model.UserProgress
	if len(memberIDs) > 0 {
		err = svc.sqlSvc.Db().
			Where("user_id IN ?", memberIDs).
			Order("xp DESC").Order("user_id ASC").
			Limit(n).Find(&rows).Error
		if err != nil {
			return nil, svc.sqlSvc.HandleError(err)
		}
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	users, err := svc.sqlSvc.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.LeaderboardResponse{Scope: "community", Entries: make([]dto.LeaderboardEntry, 0, len(rows))}
	for i, row := range rows {
		user := users[row.UserID]
		resp.Entries = append(resp.Entries, dto.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      row.UserID,
			Username:    user.Username,
			DisplayName: user.DisplayName,
			Level:       row.Level,
			XP:          row.XP,
		})
	}
	return resp, nil
}

func clampLimit(n int) int {
	if n <= 0 {
		return defaultLeaderboardSize
	}
	if n > maxLeaderboardSize {
		return maxLeaderboardSize
	}
	return n
}
