package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

type LearningInsightRepo interface {
	Create(dbc dbctx.Context, insights []*types.LearningInsight) ([]*types.LearningInsight, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LearningInsight, error)
}

type learningInsightRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningInsightRepo(db *gorm.DB, baseLog *logger.Logger) LearningInsightRepo {
	return &learningInsightRepo{db: db, log: baseLog.With("repo", "LearningInsightRepo")}
}

func (r *learningInsightRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *learningInsightRepo) Create(dbc dbctx.Context, insights []*types.LearningInsight) ([]*types.LearningInsight, error) {
	if len(insights) == 0 {
		return []*types.LearningInsight{}, nil
	}
	now := time.Now().UTC()
	for _, in := range insights {
		if in.ID == uuid.Nil {
			in.ID = uuid.New()
		}
		in.CreatedAt = now
	}
	if err := r.dbx(dbc).Omit("User").Create(&insights).Error; err != nil {
		return nil, err
	}
	return insights, nil
}

func (r *learningInsightRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LearningInsight, error) {
	var results []*types.LearningInsight
	err := r.dbx(dbc).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
