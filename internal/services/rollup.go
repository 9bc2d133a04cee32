package services

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edusmart-backend/internal/data/repos"
	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/domain/learning"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/edusmart-backend/internal/pkg/errors"
	"github.com/yungbote/edusmart-backend/internal/platform/apierr"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

// RollupEngine derives a journey's lesson counters, progress and next
// lesson from its topics. Callers run it in the same transaction as the
// topic write that changed completion state.
type RollupEngine interface {
	Recompute(dbc dbctx.Context, journeyID uuid.UUID) (*types.Journey, error)
}

type rollupEngine struct {
	db          *gorm.DB
	log         *logger.Logger
	journeyRepo repos.JourneyRepo
	topicRepo   repos.TopicRepo
}

func NewRollupEngine(db *gorm.DB, log *logger.Logger, journeyRepo repos.JourneyRepo, topicRepo repos.TopicRepo) RollupEngine {
	return &rollupEngine{
		db:          db,
		log:         log.With("service", "RollupEngine"),
		journeyRepo: journeyRepo,
		topicRepo:   topicRepo,
	}
}

func (re *rollupEngine) Recompute(dbc dbctx.Context, journeyID uuid.UUID) (*types.Journey, error) {
	var out *types.Journey
	err := dbctx.Transaction(dbc, re.db, func(dbc dbctx.Context) error {
		journeys, err := re.journeyRepo.GetByIDs(dbc, []uuid.UUID{journeyID})
		if err != nil {
			return fmt.Errorf("load journey: %w", err)
		}
		if len(journeys) == 0 {
			return apierr.New(http.StatusNotFound, "journey_not_found", nil)
		}
		j := journeys[0]

		topics, err := re.topicRepo.ListByJourney(dbc, journeyID)
		if err != nil {
			return fmt.Errorf("load topics: %w", err)
		}
		if err := applyRollup(j, topics); err != nil {
			re.log.Error("Journey rollup inconsistent",
				"journey_id", j.ID,
				"total", j.TotalLessons,
				"completed", j.CompletedLessons,
			)
			return err
		}
		if err := re.journeyRepo.SaveRollup(dbc, j); err != nil {
			return fmt.Errorf("save rollup: %w", err)
		}
		out = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// applyRollup sets the derived fields of j from topics, which must be the
// journey's complete topic list.
func applyRollup(j *types.Journey, topics []*types.Topic) error {
	total := len(topics)
	completed := 0
	var firstOpen *types.Topic
	for _, t := range topics {
		if t.IsCompleted {
			completed++
			continue
		}
		if firstOpen == nil || t.Order < firstOpen.Order {
			firstOpen = t
		}
	}

	j.TotalLessons = total
	j.CompletedLessons = completed
	j.Progress = learning.ProgressOf(completed, total)

	switch {
	case total == 0:
		j.NextLesson = nil
	case completed == total:
		sentinel := learning.AllLessonsCompleted
		j.NextLesson = &sentinel
	default:
		if firstOpen == nil {
			return pkgerrors.ErrRollupInconsistent
		}
		title := firstOpen.Title
		j.NextLesson = &title
	}
	return nil
}
