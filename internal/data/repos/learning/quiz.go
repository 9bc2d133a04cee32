package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/domain/learning"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

type QuizRepo interface {
	Create(dbc dbctx.Context, quizzes []*types.Quiz) ([]*types.Quiz, error)
	GetByIDs(dbc dbctx.Context, quizIDs []uuid.UUID) ([]*types.Quiz, error)
	SaveCompletion(dbc dbctx.Context, q *types.Quiz) error
	// CountCompletedByOwner counts completed quizzes reachable through
	// topic -> journey ownership, optionally only those completed at or after since.
	CountCompletedByOwner(dbc dbctx.Context, userID uuid.UUID, since *time.Time) (int64, error)
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{db: db, log: baseLog.With("repo", "QuizRepo")}
}

func (r *quizRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func stampQuiz(q *types.Quiz, now time.Time) {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	q.CreatedAt, q.UpdatedAt = now, now
}

func (r *quizRepo) Create(dbc dbctx.Context, quizzes []*types.Quiz) ([]*types.Quiz, error) {
	if len(quizzes) == 0 {
		return []*types.Quiz{}, nil
	}
	now := time.Now().UTC()
	for _, q := range quizzes {
		stampQuiz(q, now)
	}
	if err := r.dbx(dbc).Omit("Topic").Create(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepo) GetByIDs(dbc dbctx.Context, quizIDs []uuid.UUID) ([]*types.Quiz, error) {
	var results []*types.Quiz
	if len(quizIDs) == 0 {
		return results, nil
	}
	if err := r.dbx(dbc).Where("id IN ?", quizIDs).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizRepo) SaveCompletion(dbc dbctx.Context, q *types.Quiz) error {
	q.UpdatedAt = time.Now().UTC()
	return r.dbx(dbc).
		Model(&types.Quiz{}).
		Where("id = ?", q.ID).
		Updates(map[string]interface{}{
			"is_completed": q.IsCompleted,
			"completed_at": q.CompletedAt,
			"updated_at":   q.UpdatedAt,
		}).Error
}

func (r *quizRepo) CountCompletedByOwner(dbc dbctx.Context, userID uuid.UUID, since *time.Time) (int64, error) {
	q := r.dbx(dbc).
		Model(&types.Quiz{}).
		Joins("JOIN learning_topic ON learning_topic.id = learning_quiz.topic_id").
		Joins("JOIN learning_journey ON learning_journey.id = learning_topic.journey_id").
		Where("learning_journey.owner_user_id = ?", learning.AssignedTo(userID)).
		Where("learning_quiz.is_completed = ?", true)
	if since != nil {
		q = q.Where("learning_quiz.completed_at >= ?", since.UTC())
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
