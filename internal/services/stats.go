package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edusmart-backend/internal/data/repos"
	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/domain/learning"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/platform/apierr"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

type Dashboard struct {
	CoursesCompleted          int `json:"courses_completed"`
	QuizzesTaken              int `json:"quizzes_taken"`
	OverallProgress           int `json:"overall_progress"`
	CoursesCompletedThisMonth int `json:"courses_completed_this_month"`
	QuizzesTakenThisWeek      int `json:"quizzes_taken_this_week"`
	Streak                    int `json:"streak"`
}

type QuizPerformance struct {
	QuizID uuid.UUID `json:"quiz_id"`
	Quiz   string    `json:"quiz"`
	Score  int       `json:"score"`
	Date   string    `json:"date"`
}

type LearningInsights struct {
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

type StatsService interface {
	UpdateStats(dbc dbctx.Context, userID uuid.UUID) (*types.UserStats, error)
	GetDashboard(dbc dbctx.Context, userID uuid.UUID) (*Dashboard, error)
	GetQuizPerformance(dbc dbctx.Context, userID uuid.UUID) ([]QuizPerformance, error)
	GetLearningInsights(dbc dbctx.Context, userID uuid.UUID) (*LearningInsights, error)
	AddInsight(dbc dbctx.Context, userID uuid.UUID, insightType, description string) (*types.LearningInsight, error)
}

type statsService struct {
	db             *gorm.DB
	log            *logger.Logger
	journeyRepo    repos.JourneyRepo
	topicRepo      repos.TopicRepo
	quizRepo       repos.QuizRepo
	quizResultRepo repos.QuizResultRepo
	insightRepo    repos.LearningInsightRepo
	statsRepo      repos.UserStatsRepo
	activity       ActivityTracker
	clock          Clock
}

func NewStatsService(
	db *gorm.DB,
	log *logger.Logger,
	journeyRepo repos.JourneyRepo,
	topicRepo repos.TopicRepo,
	quizRepo repos.QuizRepo,
	quizResultRepo repos.QuizResultRepo,
	insightRepo repos.LearningInsightRepo,
	statsRepo repos.UserStatsRepo,
	activity ActivityTracker,
	clock Clock,
) StatsService {
	return &statsService{
		db:             db,
		log:            log.With("service", "StatsService"),
		journeyRepo:    journeyRepo,
		topicRepo:      topicRepo,
		quizRepo:       quizRepo,
		quizResultRepo: quizResultRepo,
		insightRepo:    insightRepo,
		statsRepo:      statsRepo,
		activity:       activity,
		clock:          clock,
	}
}

func (ss *statsService) UpdateStats(dbc dbctx.Context, userID uuid.UUID) (*types.UserStats, error) {
	progress, err := ss.journeyRepo.ListProgressByOwner(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("list journey progress: %w", err)
	}
	completedCourses, overall := summarizeProgress(progress)

	quizzes, err := ss.quizRepo.CountCompletedByOwner(dbc, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("count completed quizzes: %w", err)
	}

	stats, err := ss.statsRepo.Upsert(dbc, &types.UserStats{
		UserID:           userID,
		CoursesCompleted: completedCourses,
		QuizzesTaken:     int(quizzes),
		OverallProgress:  overall,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert stats: %w", err)
	}
	return stats, nil
}

// summarizeProgress returns how many journeys are at 100 and the integer
// mean of all of them.
func summarizeProgress(progress []int) (completed int, overall int) {
	if len(progress) == 0 {
		return 0, 0
	}
	sum := 0
	for _, p := range progress {
		sum += p
		if p == 100 {
			completed++
		}
	}
	return completed, sum / len(progress)
}

func (ss *statsService) GetDashboard(dbc dbctx.Context, userID uuid.UUID) (*Dashboard, error) {
	var out *Dashboard
	err := dbctx.Transaction(dbc, ss.db, func(dbc dbctx.Context) error {
		stats, err := ss.UpdateStats(dbc, userID)
		if err != nil {
			return err
		}
		now := ss.clock.now()
		monthStart := startOfMonth(now)
		weekStart := startOfWeek(now)

		topicsThisMonth, err := ss.topicRepo.CountCompletedByOwner(dbc, userID, &monthStart)
		if err != nil {
			return fmt.Errorf("count topics this month: %w", err)
		}
		quizzesThisWeek, err := ss.quizRepo.CountCompletedByOwner(dbc, userID, &weekStart)
		if err != nil {
			return fmt.Errorf("count quizzes this week: %w", err)
		}
		streak, err := ss.activity.GetStreak(dbc, userID)
		if err != nil {
			return err
		}
		out = &Dashboard{
			CoursesCompleted:          stats.CoursesCompleted,
			QuizzesTaken:              stats.QuizzesTaken,
			OverallProgress:           stats.OverallProgress,
			CoursesCompletedThisMonth: int(topicsThisMonth),
			QuizzesTakenThisWeek:      int(quizzesThisWeek),
			Streak:                    streak,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ss *statsService) GetQuizPerformance(dbc dbctx.Context, userID uuid.UUID) ([]QuizPerformance, error) {
	results, err := ss.quizResultRepo.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	loc := ss.clock.now().Location()
	out := make([]QuizPerformance, 0, len(results))
	for _, r := range results {
		title := ""
		if r.Quiz != nil {
			title = r.Quiz.Title
		}
		out = append(out, QuizPerformance{
			QuizID: r.QuizID,
			Quiz:   title,
			Score:  r.Score,
			Date:   monthLabel(r.DateTaken, loc),
		})
	}
	return out, nil
}

func monthLabel(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("2006-01")
}

func (ss *statsService) GetLearningInsights(dbc dbctx.Context, userID uuid.UUID) (*LearningInsights, error) {
	insights, err := ss.insightRepo.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	out := &LearningInsights{Strengths: []string{}, Improvements: []string{}}
	for _, in := range insights {
		switch in.InsightType {
		case learning.InsightStrength:
			out.Strengths = append(out.Strengths, in.Description)
		case learning.InsightImprovement:
			out.Improvements = append(out.Improvements, in.Description)
		}
	}
	return out, nil
}

func (ss *statsService) AddInsight(dbc dbctx.Context, userID uuid.UUID, insightType, description string) (*types.LearningInsight, error) {
	insightType = strings.ToLower(strings.TrimSpace(insightType))
	description = strings.TrimSpace(description)
	if insightType != learning.InsightStrength && insightType != learning.InsightImprovement {
		return nil, apierr.BadRequest("invalid_insight_type", errors.New("insight_type must be strength or improvement"))
	}
	if description == "" {
		return nil, apierr.BadRequest("missing_description", errors.New("description is required"))
	}
	created, err := ss.insightRepo.Create(dbc, []*types.LearningInsight{{
		UserID:      userID,
		InsightType: insightType,
		Description: description,
	}})
	if err != nil {
		return nil, fmt.Errorf("create insight: %w", err)
	}
	return created[0], nil
}
