package user

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/edusmart-backend/internal/data/repos/testutil"
	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
)

func TestUserRepoCreateAndLookup(t *testing.T) {
	db := testutil.DB(t)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.New(testutil.Ctx())

	created, err := repo.Create(dbc, []*types.User{{
		Username: "bob", Email: "bob@example.com", Password: "hash", FirstName: "Bob", LastName: "B", UserType: "teacher",
	}})
	if err != nil || len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: err=%v created=%v", err, created)
	}

	if ok, err := repo.EmailExists(dbc, "bob@example.com"); err != nil || !ok {
		t.Fatalf("EmailExists: ok=%v err=%v", ok, err)
	}
	if ok, err := repo.UsernameExists(dbc, "nobody"); err != nil || ok {
		t.Fatalf("UsernameExists(nobody): ok=%v err=%v", ok, err)
	}
	got, err := repo.GetByUsernames(dbc, []string{"bob"})
	if err != nil || len(got) != 1 || got[0].UserType != "teacher" {
		t.Fatalf("GetByUsernames: err=%v got=%v", err, got)
	}
	if _, err := repo.Create(dbc, []*types.User{{Username: "bob", Email: "other@example.com", Password: "x", FirstName: "x", LastName: "y", UserType: "student"}}); err == nil {
		t.Fatalf("expected unique violation on duplicate username")
	}
}

func TestUserActivityRecordIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	ctx := testutil.Ctx()
	u := testutil.SeedUser(t, ctx, db, "carol")
	repo := NewUserActivityRepo(db, testutil.Logger(t))
	dbc := dbctx.New(ctx)

	first, err := repo.Record(dbc, u.ID, "2026-03-04")
	if err != nil || !first {
		t.Fatalf("first Record: inserted=%v err=%v", first, err)
	}
	second, err := repo.Record(dbc, u.ID, "2026-03-04")
	if err != nil || second {
		t.Fatalf("second Record: inserted=%v err=%v", second, err)
	}
	if n, err := repo.CountByUser(dbc, u.ID); err != nil || n != 1 {
		t.Fatalf("CountByUser: n=%d err=%v", n, err)
	}
}

func TestUserActivityListDaysDesc(t *testing.T) {
	db := testutil.DB(t)
	ctx := testutil.Ctx()
	u := testutil.SeedUser(t, ctx, db, "dan")
	repo := NewUserActivityRepo(db, testutil.Logger(t))
	dbc := dbctx.New(ctx)

	for _, d := range []string{"2026-03-01", "2026-03-03", "2026-02-01", "2026-03-02"} {
		if _, err := repo.Record(dbc, u.ID, d); err != nil {
			t.Fatalf("Record(%s): %v", d, err)
		}
	}
	days, err := repo.ListDaysDesc(dbc, u.ID, "2026-03-01", 0)
	if err != nil {
		t.Fatalf("ListDaysDesc: %v", err)
	}
	want := []string{"2026-03-03", "2026-03-02", "2026-03-01"}
	if len(days) != len(want) {
		t.Fatalf("ListDaysDesc len=%d want %d (%v)", len(days), len(want), days)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("ListDaysDesc[%d]=%s, want %s", i, days[i], want[i])
		}
	}
}

func TestUserStatsUpsert(t *testing.T) {
	db := testutil.DB(t)
	ctx := testutil.Ctx()
	u := testutil.SeedUser(t, ctx, db, "erin")
	repo := NewUserStatsRepo(db, testutil.Logger(t))
	dbc := dbctx.New(ctx)

	if got, err := repo.GetByUserID(dbc, u.ID); err != nil || got != nil {
		t.Fatalf("GetByUserID before upsert: got=%v err=%v", got, err)
	}
	if _, err := repo.Upsert(dbc, &types.UserStats{UserID: u.ID, CoursesCompleted: 1, QuizzesTaken: 2, OverallProgress: 50}); err != nil {
		t.Fatalf("Upsert 1: %v", err)
	}
	got, err := repo.Upsert(dbc, &types.UserStats{UserID: u.ID, CoursesCompleted: 2, QuizzesTaken: 5, OverallProgress: 75})
	if err != nil {
		t.Fatalf("Upsert 2: %v", err)
	}
	if got.CoursesCompleted != 2 || got.QuizzesTaken != 5 || got.OverallProgress != 75 {
		t.Fatalf("after upsert: %+v", got)
	}
	var n int64
	db.Model(&types.UserStats{}).Where("user_id = ?", u.ID).Count(&n)
	if n != 1 {
		t.Fatalf("user_stats rows=%d, want 1", n)
	}
}
