package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/edusmart-backend/internal/catalog"
	"github.com/yungbote/edusmart-backend/internal/observability"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/platform/apierr"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

const (
	TutorSourceAI       = "ai"
	TutorSourceFallback = "fallback"

	defaultTutorTimeout = 20 * time.Second
	maxQuestionLength   = 2000
	aiFeatureTutor      = "tutor"
)

type TutorAnswer struct {
	Answer string `json:"answer"`
	Source string `json:"source"`
}

type TutorService interface {
	Ask(dbc dbctx.Context, userID uuid.UUID, question string) (*TutorAnswer, error)
}

type tutorService struct {
	log     *logger.Logger
	answers []string
	gen     TextGenerator
	budget  AIBudget
	timeout time.Duration
	intn    func(n int) int
}

func NewTutorService(log *logger.Logger, cat *catalog.Catalog, gen TextGenerator, budget AIBudget, timeout time.Duration, intn func(n int) int) TutorService {
	if timeout <= 0 {
		timeout = defaultTutorTimeout
	}
	if intn == nil {
		intn = rand.IntN
	}
	return &tutorService{
		log:     log.With("service", "TutorService"),
		answers: cat.TutorAnswers(),
		gen:     gen,
		budget:  budget,
		timeout: timeout,
		intn:    intn,
	}
}

const tutorSystemPrompt = `You are a patient programming tutor. Answer the student's question in a few short paragraphs.
Prefer concrete examples over theory.`

func (ts *tutorService) Ask(dbc dbctx.Context, userID uuid.UUID, question string) (*TutorAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apierr.BadRequest("missing_question", errors.New("question is required"))
	}
	if len(question) > maxQuestionLength {
		return nil, apierr.BadRequest("question_too_long", errors.New("question is too long"))
	}

	if answer, ok := ts.askModel(dbc.Ctx, userID, question); ok {
		return &TutorAnswer{Answer: answer, Source: TutorSourceAI}, nil
	}
	return &TutorAnswer{
		Answer: ts.answers[ts.intn(len(ts.answers))],
		Source: TutorSourceFallback,
	}, nil
}

func (ts *tutorService) askModel(ctx context.Context, userID uuid.UUID, question string) (string, bool) {
	if ts.gen == nil {
		return "", false
	}
	if ctx == nil {
		ctx = context.Background()
	}
	metrics := observability.Current()
	if ts.budget != nil {
		ok, err := ts.budget.Allow(ctx, userID)
		if err != nil || !ok {
			ts.log.Info("Tutor call skipped", "user_id", userID, "budget_ok", ok, "error", err)
			metrics.ObserveAIRequest(aiFeatureTutor, observability.AIOutcomeSkipped, 0)
			return "", false
		}
	}
	callCtx, cancel := context.WithTimeout(ctx, ts.timeout)
	defer cancel()

	start := time.Now()
	answer, err := ts.gen.GenerateText(callCtx, tutorSystemPrompt, question)
	if err != nil {
		ts.log.Warn("Tutor call failed, using fallback answer", "user_id", userID, "error", err)
		metrics.ObserveAIRequest(aiFeatureTutor, observability.AIOutcomeError, time.Since(start))
		return "", false
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		metrics.ObserveAIRequest(aiFeatureTutor, observability.AIOutcomeRejected, time.Since(start))
		return "", false
	}
	metrics.ObserveAIRequest(aiFeatureTutor, observability.AIOutcomeOK, time.Since(start))
	return answer, true
}
