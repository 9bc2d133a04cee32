package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

type UserActivityRepo interface {
	// Record inserts (user, day) unless it already exists. inserted is false
	// when the row was already there.
	Record(dbc dbctx.Context, userID uuid.UUID, day string) (inserted bool, err error)
	// ListDaysDesc returns the user's active days on or after since, newest first.
	ListDaysDesc(dbc dbctx.Context, userID uuid.UUID, since string, limit int) ([]string, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type userActivityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserActivityRepo(db *gorm.DB, baseLog *logger.Logger) UserActivityRepo {
	return &userActivityRepo{db: db, log: baseLog.With("repo", "UserActivityRepo")}
}

func (r *userActivityRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *userActivityRepo) Record(dbc dbctx.Context, userID uuid.UUID, day string) (bool, error) {
	row := &types.UserActivity{
		ID:        uuid.New(),
		UserID:    userID,
		Day:       day,
		CreatedAt: time.Now().UTC(),
	}
	res := r.dbx(dbc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userActivityRepo) ListDaysDesc(dbc dbctx.Context, userID uuid.UUID, since string, limit int) ([]string, error) {
	q := r.dbx(dbc).
		Model(&types.UserActivity{}).
		Where("user_id = ?", userID)
	if since != "" {
		q = q.Where("day >= ?", since)
	}
	q = q.Order("day DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var days []string
	if err := q.Pluck("day", &days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

func (r *userActivityRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.dbx(dbc).Model(&types.UserActivity{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
