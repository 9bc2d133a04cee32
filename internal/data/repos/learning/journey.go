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

type JourneyRepo interface {
	Create(dbc dbctx.Context, journeys []*types.Journey) ([]*types.Journey, error)
	GetByIDs(dbc dbctx.Context, journeyIDs []uuid.UUID) ([]*types.Journey, error)
	// GetTree loads a journey with its ordered topics and their quizzes.
	GetTree(dbc dbctx.Context, journeyID uuid.UUID) (*types.Journey, error)
	ListByOwner(dbc dbctx.Context, userID uuid.UUID) ([]*types.Journey, error)
	ListProgressByOwner(dbc dbctx.Context, userID uuid.UUID) ([]int, error)
	// ClaimUnassigned hands every unassigned journey to userID.
	ClaimUnassigned(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	// SaveRollup persists the derived counters of j.
	SaveRollup(dbc dbctx.Context, j *types.Journey) error
}

type journeyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJourneyRepo(db *gorm.DB, baseLog *logger.Logger) JourneyRepo {
	return &journeyRepo{db: db, log: baseLog.With("repo", "JourneyRepo")}
}

func (r *journeyRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func stampJourney(j *types.Journey, now time.Time) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	j.CreatedAt, j.UpdatedAt = now, now
}

func (r *journeyRepo) Create(dbc dbctx.Context, journeys []*types.Journey) ([]*types.Journey, error) {
	if len(journeys) == 0 {
		return []*types.Journey{}, nil
	}
	now := time.Now().UTC()
	for _, j := range journeys {
		stampJourney(j, now)
	}
	if err := r.dbx(dbc).Omit("Topics", "Path").Create(&journeys).Error; err != nil {
		return nil, err
	}
	return journeys, nil
}

func (r *journeyRepo) GetByIDs(dbc dbctx.Context, journeyIDs []uuid.UUID) ([]*types.Journey, error) {
	var results []*types.Journey
	if len(journeyIDs) == 0 {
		return results, nil
	}
	if err := r.dbx(dbc).Where("id IN ?", journeyIDs).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *journeyRepo) GetTree(dbc dbctx.Context, journeyID uuid.UUID) (*types.Journey, error) {
	var results []*types.Journey
	err := r.dbx(dbc).
		Preload("Topics", orderTopics).
		Preload("Topics.Quizzes", orderQuizzes).
		Where("id = ?", journeyID).
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

func (r *journeyRepo) ListByOwner(dbc dbctx.Context, userID uuid.UUID) ([]*types.Journey, error) {
	var results []*types.Journey
	err := r.dbx(dbc).
		Where("owner_user_id = ?", learning.AssignedTo(userID)).
		Order("created_at ASC").
		Order("position ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *journeyRepo) ListProgressByOwner(dbc dbctx.Context, userID uuid.UUID) ([]int, error) {
	var progress []int
	err := r.dbx(dbc).
		Model(&types.Journey{}).
		Where("owner_user_id = ?", learning.AssignedTo(userID)).
		Pluck("progress", &progress).Error
	if err != nil {
		return nil, err
	}
	return progress, nil
}

func (r *journeyRepo) ClaimUnassigned(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	res := r.dbx(dbc).
		Model(&types.Journey{}).
		Where("owner_user_id IS NULL").
		Updates(map[string]interface{}{
			"owner_user_id": learning.AssignedTo(userID),
			"updated_at":    time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *journeyRepo) SaveRollup(dbc dbctx.Context, j *types.Journey) error {
	j.UpdatedAt = time.Now().UTC()
	return r.dbx(dbc).
		Model(&types.Journey{}).
		Where("id = ?", j.ID).
		Updates(map[string]interface{}{
			"total_lessons":     j.TotalLessons,
			"completed_lessons": j.CompletedLessons,
			"progress":          j.Progress,
			"next_lesson":       j.NextLesson,
			"updated_at":        j.UpdatedAt,
		}).Error
}
