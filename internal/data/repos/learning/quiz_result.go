package learning

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

type QuizResultRepo interface {
	// Upsert stores the score for (UserID, QuizID), replacing score and
	// date_taken when a row already exists. Returns the stored row.
	Upsert(dbc dbctx.Context, result *types.QuizResult) (*types.QuizResult, error)
	GetByUserAndQuiz(dbc dbctx.Context, userID, quizID uuid.UUID) (*types.QuizResult, error)
	// ListByUser returns the user's results oldest first with Quiz preloaded.
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.QuizResult, error)
}

type quizResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizResultRepo(db *gorm.DB, baseLog *logger.Logger) QuizResultRepo {
	return &quizResultRepo{db: db, log: baseLog.With("repo", "QuizResultRepo")}
}

func (r *quizResultRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *quizResultRepo) Upsert(dbc dbctx.Context, result *types.QuizResult) (*types.QuizResult, error) {
	if result == nil || result.UserID == uuid.Nil || result.QuizID == uuid.Nil {
		return nil, errors.New("quiz result: user and quiz required")
	}
	now := time.Now().UTC()
	row := &types.QuizResult{
		ID:        uuid.New(),
		UserID:    result.UserID,
		QuizID:    result.QuizID,
		Score:     result.Score,
		DateTaken: result.DateTaken.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if row.DateTaken.IsZero() {
		row.DateTaken = now
	}
	err := r.dbx(dbc).
		Omit("User", "Quiz").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "quiz_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "date_taken", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserAndQuiz(dbc, result.UserID, result.QuizID)
}

func (r *quizResultRepo) GetByUserAndQuiz(dbc dbctx.Context, userID, quizID uuid.UUID) (*types.QuizResult, error) {
	var results []*types.QuizResult
	err := r.dbx(dbc).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Limit(1).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *quizResultRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.QuizResult, error) {
	var results []*types.QuizResult
	err := r.dbx(dbc).
		Preload("Quiz").
		Where("user_id = ?", userID).
		Order("date_taken ASC").
		Order("id ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
