package handlers

import (
	"mime/multipart"

	"github.com/luminax-app/luminax_api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest, clientIP, userAgent string) (*dto.LoginResponse, error)
	RefreshToken(req dto.RefreshTokenRequest) (*dto.TokenPair, error)
	Logout(userID string, req dto.LogoutRequest) error
	LogoutAll(userID string) error
	ChangePassword(userID string, req dto.ChangePasswordRequest) error
}

type UserServiceInterface interface {
	GetProfile(userID string) (*dto.UserProfileResponse, error)
	UpdateProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	CheckUsernameAvailability(username string) (*dto.UsernameAvailabilityResponse, error)
	ProgressChart(userID string, days int) (*dto.ProgressChartResponse, error)
	SubjectBreakdown(userID string) (*dto.SubjectBreakdownResponse, error)
}

type ProgressLedgerInterface interface {
	GetProgress(userID string) (*dto.ProgressSummary, error)
}

type ActivityRecorderInterface interface {
	RecordStudySession(userID string, req dto.StudySessionRequest) (*dto.RecordActivityResponse, error)
	RecordQuizResult(userID string, req dto.QuizResultRequest) (*dto.RecordActivityResponse, error)
	RecordAchievement(userID string, req dto.AchievementRequest) (*dto.RecordActivityResponse, error)
	RecentActivity(userID string, limit int) ([]dto.ActivityEventResponse, error)
	UserAchievements(userID string) ([]dto.AchievementResponse, error)
}

type QuestTrackerInterface interface {
	CreateQuest(userID string, req dto.CreateQuestRequest) (*dto.QuestResponse, error)
	ListQuests(userID string) (*dto.QuestListResponse, error)
	AdvanceQuest(userID, questID string, amount int) (*dto.AdvanceQuestResponse, error)
}

type RankingViewInterface interface {
	Top(n int) (*dto.LeaderboardResponse, error)
	RankOf(userID string) (*dto.MyRankResponse, error)
	WeeklyTop(n int) (*dto.WeeklyLeaderboardResponse, error)
	AchievementsTop(n int) (*dto.AchievementLeaderboardResponse, error)
	CommunityTop(communityID string, n int) (*dto.LeaderboardResponse, error)
}

type CommunityServiceInterface interface {
	CreateCommunity(userID string, req dto.CreateCommunityRequest) (*dto.CommunityResponse, error)
	ListCommunities(userID string, limit int) (*dto.CommunityListResponse, error)
	MyCommunities(userID string) (*dto.CommunityListResponse, error)
	Join(userID, communityID string) error
	Leave(userID, communityID string) error
	CreatePost(userID, communityID string, req dto.CreatePostRequest) (*dto.PostResponse, error)
	ListPosts(userID, communityID string, limit int) (*dto.PostListResponse, error)
	DeletePost(userID, postID string) error
	LikePost(userID, postID string) error
	UnlikePost(userID, postID string) error
}

type SettingsServiceInterface interface {
	GetSettings(userID string) (*dto.SettingsResponse, error)
	UpdateSettings(userID string, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
	ExportData(userID string) ([]byte, error)
	DeleteAccount(userID string, req dto.DeleteAccountRequest) error
}

type StudyPlannerInterface interface {
	GeneratePlan(req dto.GeneratePlanRequest) (*dto.StudyPlanResponse, error)
	GenerateQuiz(req dto.GenerateQuizRequest) (*dto.GeneratedQuizResponse, error)
	SubmitQuiz(userID string, req dto.SubmitQuizRequest) (*dto.RecordActivityResponse, error)
	Recommendations(userID string) (*dto.RecommendationResponse, error)
}

type MediaServiceInterface interface {
	UploadAvatar(userID string, file *multipart.FileHeader) (*dto.AvatarUploadResponse, error)
}
