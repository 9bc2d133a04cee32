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

type TopicRepo interface {
	Create(dbc dbctx.Context, topics []*types.Topic) ([]*types.Topic, error)
	GetByIDs(dbc dbctx.Context, topicIDs []uuid.UUID) ([]*types.Topic, error)
	ListByJourney(dbc dbctx.Context, journeyID uuid.UUID) ([]*types.Topic, error)
	// SaveCompletion persists IsCompleted and CompletedAt of t.
	SaveCompletion(dbc dbctx.Context, t *types.Topic) error
	// CountCompletedByOwner counts completed topics in journeys owned by
	// userID, optionally only those completed at or after since.
	CountCompletedByOwner(dbc dbctx.Context, userID uuid.UUID, since *time.Time) (int64, error)
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return &topicRepo{db: db, log: baseLog.With("repo", "TopicRepo")}
}

func (r *topicRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func stampTopic(t *types.Topic, now time.Time) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt, t.UpdatedAt = now, now
}

func (r *topicRepo) Create(dbc dbctx.Context, topics []*types.Topic) ([]*types.Topic, error) {
	if len(topics) == 0 {
		return []*types.Topic{}, nil
	}
	now := time.Now().UTC()
	for _, t := range topics {
		stampTopic(t, now)
	}
	if err := r.dbx(dbc).Omit("Quizzes", "Journey").Create(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepo) GetByIDs(dbc dbctx.Context, topicIDs []uuid.UUID) ([]*types.Topic, error) {
	var results []*types.Topic
	if len(topicIDs) == 0 {
		return results, nil
	}
	if err := r.dbx(dbc).Where("id IN ?", topicIDs).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *topicRepo) ListByJourney(dbc dbctx.Context, journeyID uuid.UUID) ([]*types.Topic, error) {
	var results []*types.Topic
	if err := r.dbx(dbc).Where("journey_id = ?", journeyID).Order("sort_order ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *topicRepo) SaveCompletion(dbc dbctx.Context, t *types.Topic) error {
	t.UpdatedAt = time.Now().UTC()
	return r.dbx(dbc).
		Model(&types.Topic{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"is_completed": t.IsCompleted,
			"completed_at": t.CompletedAt,
			"updated_at":   t.UpdatedAt,
		}).Error
}

func (r *topicRepo) CountCompletedByOwner(dbc dbctx.Context, userID uuid.UUID, since *time.Time) (int64, error) {
	q := r.dbx(dbc).
		Model(&types.Topic{}).
		Joins("JOIN learning_journey ON learning_journey.id = learning_topic.journey_id").
		Where("learning_journey.owner_user_id = ?", learning.AssignedTo(userID)).
		Where("learning_topic.is_completed = ?", true)
	if since != nil {
		q = q.Where("learning_topic.completed_at >= ?", since.UTC())
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
