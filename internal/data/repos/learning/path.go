package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

type PathRepo interface {
	Create(dbc dbctx.Context, paths []*types.Path) ([]*types.Path, error)
	// CreateTree inserts a path with all its journeys, topics and quizzes,
	// assigning ids and parent keys on the way down.
	CreateTree(dbc dbctx.Context, path *types.Path) (*types.Path, error)
	GetByIDs(dbc dbctx.Context, pathIDs []uuid.UUID) ([]*types.Path, error)
	GetTree(dbc dbctx.Context, pathID uuid.UUID) (*types.Path, error)
	List(dbc dbctx.Context) ([]*types.Path, error)
	ListTop(dbc dbctx.Context, limit int) ([]*types.Path, error)
	// DeleteCascade removes the paths and everything beneath them, including
	// quiz results pointing at their quizzes. Returns the number of paths removed.
	DeleteCascade(dbc dbctx.Context, pathIDs []uuid.UUID) (int64, error)
}

type pathRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPathRepo(db *gorm.DB, baseLog *logger.Logger) PathRepo {
	return &pathRepo{db: db, log: baseLog.With("repo", "PathRepo")}
}

func (r *pathRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func stampPath(p *types.Path, now time.Time) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt, p.UpdatedAt = now, now
}

func (r *pathRepo) Create(dbc dbctx.Context, paths []*types.Path) ([]*types.Path, error) {
	if len(paths) == 0 {
		return []*types.Path{}, nil
	}
	now := time.Now().UTC()
	for _, p := range paths {
		stampPath(p, now)
	}
	if err := r.dbx(dbc).Omit("Journeys").Create(&paths).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *pathRepo) CreateTree(dbc dbctx.Context, path *types.Path) (*types.Path, error) {
	now := time.Now().UTC()
	stampPath(path, now)

	var (
		journeys []*types.Journey
		topics   []*types.Topic
		quizzes  []*types.Quiz
	)
	for i, j := range path.Journeys {
		stampJourney(j, now)
		j.PathID = path.ID
		j.Position = i
		journeys = append(journeys, j)
		for _, t := range j.Topics {
			stampTopic(t, now)
			t.JourneyID = j.ID
			topics = append(topics, t)
			for _, q := range t.Quizzes {
				stampQuiz(q, now)
				q.TopicID = t.ID
				quizzes = append(quizzes, q)
			}
		}
	}

	tx := r.dbx(dbc)
	if err := tx.Omit("Journeys").Create(path).Error; err != nil {
		return nil, err
	}
	if len(journeys) > 0 {
		if err := tx.Omit("Topics", "Path").Create(&journeys).Error; err != nil {
			return nil, err
		}
	}
	if len(topics) > 0 {
		if err := tx.Omit("Quizzes", "Journey").Create(&topics).Error; err != nil {
			return nil, err
		}
	}
	if len(quizzes) > 0 {
		if err := tx.Omit("Topic").Create(&quizzes).Error; err != nil {
			return nil, err
		}
	}
	return path, nil
}

func (r *pathRepo) GetByIDs(dbc dbctx.Context, pathIDs []uuid.UUID) ([]*types.Path, error) {
	var results []*types.Path
	if len(pathIDs) == 0 {
		return results, nil
	}
	if err := r.dbx(dbc).Where("id IN ?", pathIDs).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *pathRepo) GetTree(dbc dbctx.Context, pathID uuid.UUID) (*types.Path, error) {
	var results []*types.Path
	err := r.dbx(dbc).
		Preload("Journeys", orderJourneys).
		Preload("Journeys.Topics", orderTopics).
		Preload("Journeys.Topics.Quizzes", orderQuizzes).
		Where("id = ?", pathID).
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

func (r *pathRepo) List(dbc dbctx.Context) ([]*types.Path, error) {
	var results []*types.Path
	if err := r.dbx(dbc).Order("created_at DESC").Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *pathRepo) ListTop(dbc dbctx.Context, limit int) ([]*types.Path, error) {
	var results []*types.Path
	q := r.dbx(dbc).Order("match_percentage DESC").Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *pathRepo) DeleteCascade(dbc dbctx.Context, pathIDs []uuid.UUID) (int64, error) {
	if len(pathIDs) == 0 {
		return 0, nil
	}
	tx := r.dbx(dbc)

	var journeyIDs, topicIDs, quizIDs []uuid.UUID
	if err := tx.Model(&types.Journey{}).Where("path_id IN ?", pathIDs).Pluck("id", &journeyIDs).Error; err != nil {
		return 0, err
	}
	if len(journeyIDs) > 0 {
		if err := tx.Model(&types.Topic{}).Where("journey_id IN ?", journeyIDs).Pluck("id", &topicIDs).Error; err != nil {
			return 0, err
		}
	}
	if len(topicIDs) > 0 {
		if err := tx.Model(&types.Quiz{}).Where("topic_id IN ?", topicIDs).Pluck("id", &quizIDs).Error; err != nil {
			return 0, err
		}
	}

	if len(quizIDs) > 0 {
		if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&types.QuizResult{}).Error; err != nil {
			return 0, err
		}
		if err := tx.Where("id IN ?", quizIDs).Delete(&types.Quiz{}).Error; err != nil {
			return 0, err
		}
	}
	if len(topicIDs) > 0 {
		if err := tx.Where("id IN ?", topicIDs).Delete(&types.Topic{}).Error; err != nil {
			return 0, err
		}
	}
	if len(journeyIDs) > 0 {
		if err := tx.Where("id IN ?", journeyIDs).Delete(&types.Journey{}).Error; err != nil {
			return 0, err
		}
	}
	res := tx.Where("id IN ?", pathIDs).Delete(&types.Path{})
	return res.RowsAffected, res.Error
}

func orderJourneys(db *gorm.DB) *gorm.DB { return db.Order("position ASC").Order("created_at ASC") }

func orderTopics(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }

func orderQuizzes(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC").Order("id ASC") }
