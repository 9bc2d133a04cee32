package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/edusmart-backend/internal/data/repos"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

type Repos struct {
	User         repos.UserRepo
	UserToken    repos.UserTokenRepo
	UserActivity repos.UserActivityRepo
	UserStats    repos.UserStatsRepo

	Path       repos.PathRepo
	Journey    repos.JourneyRepo
	Topic      repos.TopicRepo
	Quiz       repos.QuizRepo
	QuizResult repos.QuizResultRepo
	Insight    repos.LearningInsightRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		UserToken:    repos.NewUserTokenRepo(db, log),
		UserActivity: repos.NewUserActivityRepo(db, log),
		UserStats:    repos.NewUserStatsRepo(db, log),

		Path:       repos.NewPathRepo(db, log),
		Journey:    repos.NewJourneyRepo(db, log),
		Topic:      repos.NewTopicRepo(db, log),
		Quiz:       repos.NewQuizRepo(db, log),
		QuizResult: repos.NewQuizResultRepo(db, log),
		Insight:    repos.NewLearningInsightRepo(db, log),
	}
}
