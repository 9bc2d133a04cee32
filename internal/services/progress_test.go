package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/edusmart-backend/internal/data/repos/testutil"
	"github.com/yungbote/edusmart-backend/internal/domain/learning"
	"github.com/yungbote/edusmart-backend/internal/domain/user"
	"github.com/yungbote/edusmart-backend/internal/platform/apierr"
)

func TestCompletingLastTopicFinishesJourney(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	ctx := env.dbc.Ctx
	u := testutil.SeedUser(t, ctx, env.db, "alice")
	p := testutil.SeedPath(t, ctx, env.db, "path", 90)
	j := testutil.SeedJourney(t, ctx, env.db, p.ID, learning.AssignedTo(u.ID), 0)
	earlier := env.now.AddDate(0, 0, -3)
	testutil.SeedTopic(t, ctx, env.db, j.ID, 1, &earlier)
	testutil.SeedTopic(t, ctx, env.db, j.ID, 2, &earlier)
	last := testutil.SeedTopic(t, ctx, env.db, j.ID, 3, nil)
	if _, err := env.rollup.Recompute(env.dbc, j.ID); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	got, err := env.progress.SetTopicCompletion(env.dbc, u.ID, last.ID, true)
	if err != nil {
		t.Fatalf("SetTopicCompletion: %v", err)
	}
	if got.Progress != 100 || got.CompletedLessons != 3 || got.TotalLessons != 3 {
		t.Fatalf("rollup %d/%d progress=%d", got.CompletedLessons, got.TotalLessons, got.Progress)
	}
	if deref(got.NextLesson) != learning.AllLessonsCompleted {
		t.Fatalf("next lesson=%q", deref(got.NextLesson))
	}
	if len(got.Topics) != 3 || !got.Topics[2].IsCompleted || got.Topics[2].CompletedAt == nil {
		t.Fatalf("returned tree does not show the completed topic: %+v", got.Topics)
	}

	days, err := env.activityRepo.ListDaysDesc(env.dbc, u.ID, "", 0)
	if err != nil || len(days) != 1 || days[0] != user.DayOf(env.now) {
		t.Fatalf("activity days=%v err=%v", days, err)
	}
	stats, err := env.statsRepo.GetByUserID(env.dbc, u.ID)
	if err != nil || stats == nil || stats.CoursesCompleted != 1 || stats.OverallProgress != 100 {
		t.Fatalf("stats=%+v err=%v", stats, err)
	}
}

func TestTopicCompletionToggleKeepsTimestampInStep(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	ctx := env.dbc.Ctx
	u := testutil.SeedUser(t, ctx, env.db, "alice")
	p := testutil.SeedPath(t, ctx, env.db, "path", 90)
	j := testutil.SeedJourney(t, ctx, env.db, p.ID, learning.AssignedTo(u.ID), 0)
	tp := testutil.SeedTopic(t, ctx, env.db, j.ID, 1, nil)
	testutil.SeedTopic(t, ctx, env.db, j.ID, 2, nil)

	for i, done := range []bool{true, true, false, true, false} {
		got, err := env.progress.SetTopicCompletion(env.dbc, u.ID, tp.ID, done)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		first := got.Topics[0]
		if first.IsCompleted != done || (first.CompletedAt != nil) != done {
			t.Fatalf("step %d: flag=%v completed_at=%v", i, first.IsCompleted, first.CompletedAt)
		}
		wantProgress, wantNext := 0, "topic 1"
		if done {
			wantProgress, wantNext = 50, "topic 2"
		}
		if got.Progress != wantProgress || deref(got.NextLesson) != wantNext {
			t.Fatalf("step %d: progress=%d next=%q", i, got.Progress, deref(got.NextLesson))
		}
	}
}

func TestTopicCompletionRequiresOwnership(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	ctx := env.dbc.Ctx
	alice := testutil.SeedUser(t, ctx, env.db, "alice")
	bob := testutil.SeedUser(t, ctx, env.db, "bob")
	p := testutil.SeedPath(t, ctx, env.db, "path", 90)
	j := testutil.SeedJourney(t, ctx, env.db, p.ID, learning.AssignedTo(bob.ID), 0)
	tp := testutil.SeedTopic(t, ctx, env.db, j.ID, 1, nil)

	if _, err := env.progress.SetTopicCompletion(env.dbc, alice.ID, tp.ID, true); apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("foreign topic err=%v, want 404", err)
	}
	if _, err := env.progress.SetTopicCompletion(env.dbc, alice.ID, uuid.New(), true); apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("missing topic err=%v, want 404", err)
	}
	n, _ := env.activityRepo.CountByUser(env.dbc, alice.ID)
	if n != 0 {
		t.Fatalf("failed request recorded activity")
	}
}

func TestSaveQuizResultUpsertsInPlace(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	ctx := env.dbc.Ctx
	u := testutil.SeedUser(t, ctx, env.db, "alice")
	p := testutil.SeedPath(t, ctx, env.db, "path", 90)
	j := testutil.SeedJourney(t, ctx, env.db, p.ID, learning.AssignedTo(u.ID), 0)
	tp := testutil.SeedTopic(t, ctx, env.db, j.ID, 1, nil)
	q := testutil.SeedQuiz(t, ctx, env.db, tp.ID, nil)

	first, err := env.progress.SaveQuizResult(env.dbc, u.ID, q.ID, 60)
	if err != nil {
		t.Fatalf("SaveQuizResult: %v", err)
	}
	second, err := env.progress.SaveQuizResult(env.dbc, u.ID, q.ID, 85)
	if err != nil {
		t.Fatalf("SaveQuizResult again: %v", err)
	}
	if first.ID != second.ID || second.Score != 85 {
		t.Fatalf("result not updated in place: first=%s second=%s score=%d", first.ID, second.ID, second.Score)
	}
	stored, err := env.quizResultRepo.ListByUser(env.dbc, u.ID)
	if err != nil || len(stored) != 1 || stored[0].Score != 85 {
		t.Fatalf("stored results=%d err=%v", len(stored), err)
	}

	quizzes, err := env.quizRepo.GetByIDs(env.dbc, []uuid.UUID{q.ID})
	if err != nil || len(quizzes) != 1 || !quizzes[0].IsCompleted || quizzes[0].CompletedAt == nil {
		t.Fatalf("quiz not marked completed: %+v err=%v", quizzes, err)
	}
	stats, err := env.statsRepo.GetByUserID(env.dbc, u.ID)
	if err != nil || stats == nil || stats.QuizzesTaken != 1 {
		t.Fatalf("stats=%+v err=%v", stats, err)
	}
}

func TestSaveQuizResultValidation(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	u := testutil.SeedUser(t, env.dbc.Ctx, env.db, "alice")

	cases := []struct {
		name   string
		quiz   uuid.UUID
		score  int
		status int
	}{
		{name: "score too high", quiz: uuid.New(), score: 101, status: http.StatusBadRequest},
		{name: "negative score", quiz: uuid.New(), score: -1, status: http.StatusBadRequest},
		{name: "missing quiz id", quiz: uuid.Nil, score: 50, status: http.StatusBadRequest},
		{name: "unknown quiz", quiz: uuid.New(), score: 50, status: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.progress.SaveQuizResult(env.dbc, u.ID, tc.quiz, tc.score)
			if apierr.StatusOf(err) != tc.status {
				t.Fatalf("err=%v, want status %d", err, tc.status)
			}
		})
	}
}
