package learning

import (
	"testing"
	"time"

	"github.com/yungbote/edusmart-backend/internal/data/repos/testutil"
	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/domain/learning"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
)

func TestQuizResultUpsertKeepsOneRow(t *testing.T) {
	db := testutil.DB(t)
	ctx := testutil.Ctx()
	u := testutil.SeedUser(t, ctx, db, "alice")
	p := testutil.SeedPath(t, ctx, db, "path", 90)
	j := testutil.SeedJourney(t, ctx, db, p.ID, learning.AssignedTo(u.ID), 0)
	tp := testutil.SeedTopic(t, ctx, db, j.ID, 1, nil)
	q := testutil.SeedQuiz(t, ctx, db, tp.ID, nil)

	repo := NewQuizResultRepo(db, testutil.Logger(t))
	dbc := dbctx.New(ctx)

	first, err := repo.Upsert(dbc, &types.QuizResult{UserID: u.ID, QuizID: q.ID, Score: 55, DateTaken: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Upsert 1: %v", err)
	}
	second, err := repo.Upsert(dbc, &types.QuizResult{UserID: u.ID, QuizID: q.ID, Score: 92, DateTaken: time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Upsert 2: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert changed row id: %s -> %s", first.ID, second.ID)
	}
	if second.Score != 92 || second.DateTaken.Month() != time.February {
		t.Fatalf("latest score not kept: %+v", second)
	}

	var n int64
	db.Model(&types.QuizResult{}).Where("user_id = ? AND quiz_id = ?", u.ID, q.ID).Count(&n)
	if n != 1 {
		t.Fatalf("rows=%d, want 1", n)
	}

	list, err := repo.ListByUser(dbc, u.ID)
	if err != nil || len(list) != 1 || list[0].Quiz == nil || list[0].Quiz.Title != "quiz" {
		t.Fatalf("ListByUser: err=%v list=%v", err, list)
	}
}

func TestLearningInsightCreateAndList(t *testing.T) {
	db := testutil.DB(t)
	ctx := testutil.Ctx()
	u := testutil.SeedUser(t, ctx, db, "bob")
	repo := NewLearningInsightRepo(db, testutil.Logger(t))
	dbc := dbctx.New(ctx)

	_, err := repo.Create(dbc, []*types.LearningInsight{
		{UserID: u.ID, InsightType: learning.InsightStrength, Description: "Strong at loops"},
		{UserID: u.ID, InsightType: learning.InsightImprovement, Description: "Practice recursion"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	list, err := repo.ListByUser(dbc, u.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(list))
	}
}
