package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/edusmart-backend/internal/data/repos/auth"
	"github.com/yungbote/edusmart-backend/internal/data/repos/learning"
	"github.com/yungbote/edusmart-backend/internal/data/repos/user"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserActivityRepo = user.UserActivityRepo
type UserStatsRepo = user.UserStatsRepo
type UserTokenRepo = auth.UserTokenRepo

type PathRepo = learning.PathRepo
type JourneyRepo = learning.JourneyRepo
type TopicRepo = learning.TopicRepo
type QuizRepo = learning.QuizRepo
type QuizResultRepo = learning.QuizResultRepo
type LearningInsightRepo = learning.LearningInsightRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserActivityRepo(db *gorm.DB, baseLog *logger.Logger) UserActivityRepo {
	return user.NewUserActivityRepo(db, baseLog)
}
func NewUserStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserStatsRepo {
	return user.NewUserStatsRepo(db, baseLog)
}
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewPathRepo(db *gorm.DB, baseLog *logger.Logger) PathRepo { return learning.NewPathRepo(db, baseLog) }
func NewJourneyRepo(db *gorm.DB, baseLog *logger.Logger) JourneyRepo {
	return learning.NewJourneyRepo(db, baseLog)
}
func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo { return learning.NewTopicRepo(db, baseLog) }
func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo   { return learning.NewQuizRepo(db, baseLog) }
func NewQuizResultRepo(db *gorm.DB, baseLog *logger.Logger) QuizResultRepo {
	return learning.NewQuizResultRepo(db, baseLog)
}
func NewLearningInsightRepo(db *gorm.DB, baseLog *logger.Logger) LearningInsightRepo {
	return learning.NewLearningInsightRepo(db, baseLog)
}
