package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

type UserTokenRepo interface {
	Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error)
	GetByAccessTokens(dbc dbctx.Context, accessTokens []string) ([]*types.UserToken, error)
	GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*types.UserToken, error)
	DeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error
	DeleteByAccessTokens(dbc dbctx.Context, accessTokens []string) error
	DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) error
	// DeleteExpired removes sessions whose refresh window closed before cutoff.
	DeleteExpired(dbc dbctx.Context, cutoff time.Time) (int64, error)
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	repoLog := baseLog.With("repo", "UserTokenRepo")
	return &userTokenRepo{db: db, log: repoLog}
}

func (utr *userTokenRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return utr.db.WithContext(dbc.Ctx)
}

func (utr *userTokenRepo) Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error) {
	if len(userTokens) == 0 {
		return []*types.UserToken{}, nil
	}
	now := time.Now().UTC()
	for _, t := range userTokens {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		t.CreatedAt, t.UpdatedAt = now, now
	}
	if err := utr.dbx(dbc).Create(&userTokens).Error; err != nil {
		return nil, err
	}
	return userTokens, nil
}

func (utr *userTokenRepo) GetByAccessTokens(dbc dbctx.Context, accessTokens []string) ([]*types.UserToken, error) {
	var results []*types.UserToken
	if len(accessTokens) == 0 {
		return results, nil
	}
	if err := utr.dbx(dbc).Where("access_token IN ?", accessTokens).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (utr *userTokenRepo) GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*types.UserToken, error) {
	var results []*types.UserToken
	if len(refreshTokens) == 0 {
		return results, nil
	}
	if err := utr.dbx(dbc).Where("refresh_token IN ?", refreshTokens).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (utr *userTokenRepo) DeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error {
	if len(tokenIDs) == 0 {
		return nil
	}
	return utr.dbx(dbc).Where("id IN ?", tokenIDs).Delete(&types.UserToken{}).Error
}

func (utr *userTokenRepo) DeleteByAccessTokens(dbc dbctx.Context, accessTokens []string) error {
	if len(accessTokens) == 0 {
		return nil
	}
	return utr.dbx(dbc).Where("access_token IN ?", accessTokens).Delete(&types.UserToken{}).Error
}

func (utr *userTokenRepo) DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	return utr.dbx(dbc).Where("user_id IN ?", userIDs).Delete(&types.UserToken{}).Error
}

func (utr *userTokenRepo) DeleteExpired(dbc dbctx.Context, cutoff time.Time) (int64, error) {
	res := utr.dbx(dbc).Where("expires_at < ?", cutoff.UTC()).Delete(&types.UserToken{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
