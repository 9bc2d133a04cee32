package user

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

type UserStatsRepo interface {
	// Upsert writes the counters for stats.UserID, creating the row if needed.
	Upsert(dbc dbctx.Context, stats *types.UserStats) (*types.UserStats, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserStats, error)
}

type userStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserStatsRepo {
	return &userStatsRepo{db: db, log: baseLog.With("repo", "UserStatsRepo")}
}

func (r *userStatsRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *userStatsRepo) Upsert(dbc dbctx.Context, stats *types.UserStats) (*types.UserStats, error) {
	if stats == nil || stats.UserID == uuid.Nil {
		return nil, errors.New("user stats: missing user id")
	}
	now := time.Now().UTC()
	row := *stats
	row.ID = uuid.New()
	row.CreatedAt, row.UpdatedAt = now, now
	err := r.dbx(dbc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"courses_completed", "quizzes_taken", "overall_progress", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserID(dbc, stats.UserID)
}

func (r *userStatsRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserStats, error) {
	var out types.UserStats
	err := r.dbx(dbc).Where("user_id = ?", userID).Limit(1).Find(&out).Error
	if err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}
