package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edusmart-backend/internal/data/repos"
	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/observability"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/platform/apierr"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

type ProgressService interface {
	// SetTopicCompletion flips a topic the caller owns, rolls the journey up,
	// records activity and refreshes stats in one transaction. Returns the
	// journey with its topics.
	SetTopicCompletion(dbc dbctx.Context, userID, topicID uuid.UUID, done bool) (*types.Journey, error)
	// SaveQuizResult stores the caller's latest score and marks the quiz
	// completed.
	SaveQuizResult(dbc dbctx.Context, userID, quizID uuid.UUID, score int) (*types.QuizResult, error)
}

type progressService struct {
	db             *gorm.DB
	log            *logger.Logger
	journeyRepo    repos.JourneyRepo
	topicRepo      repos.TopicRepo
	quizRepo       repos.QuizRepo
	quizResultRepo repos.QuizResultRepo
	rollup         RollupEngine
	activity       ActivityTracker
	stats          StatsService
	clock          Clock
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	journeyRepo repos.JourneyRepo,
	topicRepo repos.TopicRepo,
	quizRepo repos.QuizRepo,
	quizResultRepo repos.QuizResultRepo,
	rollup RollupEngine,
	activity ActivityTracker,
	stats StatsService,
	clock Clock,
) ProgressService {
	return &progressService{
		db:             db,
		log:            log.With("service", "ProgressService"),
		journeyRepo:    journeyRepo,
		topicRepo:      topicRepo,
		quizRepo:       quizRepo,
		quizResultRepo: quizResultRepo,
		rollup:         rollup,
		activity:       activity,
		stats:          stats,
		clock:          clock,
	}
}

func (ps *progressService) SetTopicCompletion(dbc dbctx.Context, userID, topicID uuid.UUID, done bool) (*types.Journey, error) {
	var (
		out     *types.Journey
		changed bool
	)
	err := dbctx.Transaction(dbc, ps.db, func(dbc dbctx.Context) error {
		topic, err := ps.loadTopic(dbc, topicID)
		if err != nil {
			return err
		}
		if err := ps.requireOwnedJourney(dbc, topic.JourneyID, userID, "topic_not_found"); err != nil {
			return err
		}

		changed = topic.SetCompleted(done, ps.clock.now())
		if changed {
			if err := ps.topicRepo.SaveCompletion(dbc, topic); err != nil {
				return fmt.Errorf("save topic: %w", err)
			}
		}
		if _, err := ps.rollup.Recompute(dbc, topic.JourneyID); err != nil {
			return err
		}
		if err := ps.activity.RecordActivity(dbc, userID); err != nil {
			return err
		}
		if _, err := ps.stats.UpdateStats(dbc, userID); err != nil {
			return err
		}

		tree, err := ps.journeyRepo.GetTree(dbc, topic.JourneyID)
		if err != nil {
			return fmt.Errorf("load journey tree: %w", err)
		}
		if tree == nil {
			return apierr.NotFound("journey_not_found")
		}
		out = tree
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		observability.Current().IncTopicCompletion(done)
	}
	ps.log.Debug("Topic completion updated", "topic_id", topicID, "done", done, "progress", out.Progress)
	return out, nil
}

func (ps *progressService) SaveQuizResult(dbc dbctx.Context, userID, quizID uuid.UUID, score int) (*types.QuizResult, error) {
	if quizID == uuid.Nil {
		return nil, apierr.BadRequest("missing_quiz_id", errors.New("quiz_id is required"))
	}
	if score < 0 || score > 100 {
		return nil, apierr.BadRequest("invalid_score", errors.New("score must be between 0 and 100"))
	}

	var out *types.QuizResult
	err := dbctx.Transaction(dbc, ps.db, func(dbc dbctx.Context) error {
		quizzes, err := ps.quizRepo.GetByIDs(dbc, []uuid.UUID{quizID})
		if err != nil {
			return fmt.Errorf("load quiz: %w", err)
		}
		if len(quizzes) == 0 {
			return apierr.NotFound("quiz_not_found")
		}
		quiz := quizzes[0]

		topic, err := ps.loadTopic(dbc, quiz.TopicID)
		if err != nil {
			return err
		}
		if err := ps.requireOwnedJourney(dbc, topic.JourneyID, userID, "quiz_not_found"); err != nil {
			return err
		}

		now := ps.clock.now()
		res, err := ps.quizResultRepo.Upsert(dbc, &types.QuizResult{
			UserID:    userID,
			QuizID:    quizID,
			Score:     score,
			DateTaken: now.UTC(),
		})
		if err != nil {
			return fmt.Errorf("upsert quiz result: %w", err)
		}
		if quiz.SetCompleted(true, now) {
			if err := ps.quizRepo.SaveCompletion(dbc, quiz); err != nil {
				return fmt.Errorf("save quiz: %w", err)
			}
		}
		if err := ps.activity.RecordActivity(dbc, userID); err != nil {
			return err
		}
		if _, err := ps.stats.UpdateStats(dbc, userID); err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	observability.Current().IncQuizResult()
	return out, nil
}

func (ps *progressService) loadTopic(dbc dbctx.Context, topicID uuid.UUID) (*types.Topic, error) {
	topics, err := ps.topicRepo.GetByIDs(dbc, []uuid.UUID{topicID})
	if err != nil {
		return nil, fmt.Errorf("load topic: %w", err)
	}
	if len(topics) == 0 {
		return nil, apierr.NotFound("topic_not_found")
	}
	return topics[0], nil
}

// requireOwnedJourney reports content outside the caller's journeys as not
// found rather than forbidden.
func (ps *progressService) requireOwnedJourney(dbc dbctx.Context, journeyID, userID uuid.UUID, code string) error {
	journeys, err := ps.journeyRepo.GetByIDs(dbc, []uuid.UUID{journeyID})
	if err != nil {
		return fmt.Errorf("load journey: %w", err)
	}
	if len(journeys) == 0 || !journeys[0].Owner.Is(userID) {
		return apierr.NotFound(code)
	}
	return nil
}
