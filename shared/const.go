package shared

const (
	UserID = "user_id"

	ActivityStudySession = "study_session"
	ActivityQuizResult   = "quiz_result"
	ActivityAchievement  = "achievement"

	QuestStatusActive    = "active"
	QuestStatusCompleted = "completed"
	QuestStatusExpired   = "expired"

	QuestTargetMinutes   = "minutes"
	QuestTargetQuizzes   = "quizzes"
	QuestTargetSessions  = "sessions"

	// XPPerLevel is the flat XP band per level: level = xp/XPPerLevel + 1.
	XPPerLevel = 1000
)
