package domain

import (
	"github.com/yungbote/edusmart-backend/internal/domain/auth"
	"github.com/yungbote/edusmart-backend/internal/domain/learning"
	"github.com/yungbote/edusmart-backend/internal/domain/user"
)

type (
	User         = user.User
	UserActivity = user.UserActivity
	UserStats    = user.UserStats
	UserToken    = auth.UserToken

	Path            = learning.Path
	Journey         = learning.Journey
	Topic           = learning.Topic
	Quiz            = learning.Quiz
	QuizResult      = learning.QuizResult
	LearningInsight = learning.LearningInsight
	Owner           = learning.Owner
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&user.User{},
		&auth.UserToken{},
		&learning.Path{},
		&learning.Journey{},
		&learning.Topic{},
		&learning.Quiz{},
		&learning.QuizResult{},
		&learning.LearningInsight{},
		&user.UserActivity{},
		&user.UserStats{},
	}
}
