package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/edusmart-backend/internal/data/repos/testutil"
	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/domain/learning"
	"github.com/yungbote/edusmart-backend/internal/platform/apierr"
)

func TestApplyRollup(t *testing.T) {
	topic := func(order int, title string, done bool) *types.Topic {
		return &types.Topic{Order: order, Title: title, IsCompleted: done}
	}
	cases := []struct {
		name      string
		topics    []*types.Topic
		total     int
		completed int
		progress  int
		next      *string
	}{
		{name: "empty", topics: nil, total: 0, completed: 0, progress: 0, next: nil},
		{
			name:   "none done",
			topics: []*types.Topic{topic(1, "a", false), topic(2, "b", false)},
			total:  2, completed: 0, progress: 0, next: strPtr("a"),
		},
		{
			name:   "lowest order open wins",
			topics: []*types.Topic{topic(3, "c", false), topic(1, "a", true), topic(2, "b", false)},
			total:  3, completed: 1, progress: 33, next: strPtr("b"),
		},
		{
			name:   "all done",
			topics: []*types.Topic{topic(1, "a", true), topic(2, "b", true)},
			total:  2, completed: 2, progress: 100, next: strPtr(learning.AllLessonsCompleted),
		},
		{
			name:   "floor",
			topics: []*types.Topic{topic(1, "a", true), topic(2, "b", true), topic(3, "c", false)},
			total:  3, completed: 2, progress: 66, next: strPtr("c"),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			j := &types.Journey{NextLesson: strPtr("stale")}
			if err := applyRollup(j, tc.topics); err != nil {
				t.Fatalf("applyRollup: %v", err)
			}
			if j.TotalLessons != tc.total || j.CompletedLessons != tc.completed || j.Progress != tc.progress {
				t.Fatalf("got total=%d completed=%d progress=%d", j.TotalLessons, j.CompletedLessons, j.Progress)
			}
			if !sameStr(j.NextLesson, tc.next) {
				t.Fatalf("next=%v, want %v", deref(j.NextLesson), deref(tc.next))
			}
		})
	}
}

func TestRecomputePersists(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	ctx := env.dbc.Ctx
	u := testutil.SeedUser(t, ctx, env.db, "alice")
	p := testutil.SeedPath(t, ctx, env.db, "path", 90)
	j := testutil.SeedJourney(t, ctx, env.db, p.ID, learning.AssignedTo(u.ID), 0)
	testutil.SeedTopic(t, ctx, env.db, j.ID, 1, testutil.PtrTime(env.now))
	testutil.SeedTopic(t, ctx, env.db, j.ID, 2, nil)

	got, err := env.rollup.Recompute(env.dbc, j.ID)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if got.Progress != 50 || deref(got.NextLesson) != "topic 2" {
		t.Fatalf("rollup=%d/%q", got.Progress, deref(got.NextLesson))
	}

	stored, err := env.journeyRepo.GetByIDs(env.dbc, []uuid.UUID{j.ID})
	if err != nil || len(stored) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(stored))
	}
	if stored[0].TotalLessons != 2 || stored[0].CompletedLessons != 1 || stored[0].Progress != 50 {
		t.Fatalf("stored rollup %+v", stored[0])
	}
}

func TestRecomputeEmptyJourneyClearsNextLesson(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	ctx := env.dbc.Ctx
	p := testutil.SeedPath(t, ctx, env.db, "path", 90)
	j := testutil.SeedJourney(t, ctx, env.db, p.ID, learning.Unassigned(), 0)

	got, err := env.rollup.Recompute(env.dbc, j.ID)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if got.Progress != 0 || got.TotalLessons != 0 || got.NextLesson != nil {
		t.Fatalf("empty rollup %+v", got)
	}
}

func TestRecomputeUnknownJourney(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	_, err := env.rollup.Recompute(env.dbc, uuid.New())
	if err == nil || apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("err=%v, want 404", err)
	}
}

func strPtr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func sameStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
