package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/edusmart-backend/internal/catalog"
	"github.com/yungbote/edusmart-backend/internal/data/repos"
	"github.com/yungbote/edusmart-backend/internal/data/repos/testutil"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
)

// Wednesday, so the week started two days earlier.
var fixedNow = time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)

type fakeGenerator struct {
	mu    sync.Mutex
	text  string
	err   error
	block bool
	calls int
}

func (f *fakeGenerator) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

func (f *fakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type testEnv struct {
	db  *gorm.DB
	dbc dbctx.Context
	now time.Time

	userRepo       repos.UserRepo
	activityRepo   repos.UserActivityRepo
	statsRepo      repos.UserStatsRepo
	pathRepo       repos.PathRepo
	journeyRepo    repos.JourneyRepo
	topicRepo      repos.TopicRepo
	quizRepo       repos.QuizRepo
	quizResultRepo repos.QuizResultRepo

	rollup   RollupEngine
	activity ActivityTracker
	stats    StatsService
	progress ProgressService
	content  ContentService
	pathgen  PathGenService
	tutor    TutorService
	auth     AuthService
	users    UserService
}

type envOptions struct {
	gen    TextGenerator
	budget AIBudget
	// timeout for generator calls; 0 keeps the service default.
	timeout time.Duration
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}

	env := &testEnv{db: db, dbc: dbctx.New(testutil.Ctx()), now: fixedNow}
	clock := Clock(func() time.Time { return env.now })

	env.userRepo = repos.NewUserRepo(db, log)
	env.activityRepo = repos.NewUserActivityRepo(db, log)
	env.statsRepo = repos.NewUserStatsRepo(db, log)
	env.pathRepo = repos.NewPathRepo(db, log)
	env.journeyRepo = repos.NewJourneyRepo(db, log)
	env.topicRepo = repos.NewTopicRepo(db, log)
	env.quizRepo = repos.NewQuizRepo(db, log)
	env.quizResultRepo = repos.NewQuizResultRepo(db, log)
	insightRepo := repos.NewLearningInsightRepo(db, log)
	tokenRepo := repos.NewUserTokenRepo(db, log)

	env.rollup = NewRollupEngine(db, log, env.journeyRepo, env.topicRepo)
	env.activity = NewActivityTracker(log, env.activityRepo, clock)
	env.stats = NewStatsService(db, log, env.journeyRepo, env.topicRepo, env.quizRepo, env.quizResultRepo, insightRepo, env.statsRepo, env.activity, clock)
	env.progress = NewProgressService(db, log, env.journeyRepo, env.topicRepo, env.quizRepo, env.quizResultRepo, env.rollup, env.activity, env.stats, clock)
	env.content = NewContentService(db, log, env.userRepo, env.pathRepo, env.journeyRepo)
	env.pathgen = NewPathGenService(db, log, cat, env.content, env.activity, env.stats, opts.gen, opts.budget, PathGenOptions{
		LLMTimeout: opts.timeout,
		Clock:      clock,
		Intn:       func(n int) int { return n - 1 },
	})
	env.tutor = NewTutorService(log, cat, opts.gen, opts.budget, opts.timeout, func(int) int { return 0 })
	env.auth = NewAuthService(db, log, env.userRepo, tokenRepo, "test-secret", 15*time.Minute, 24*time.Hour)
	env.users = NewUserService(log, env.userRepo)
	return env
}
