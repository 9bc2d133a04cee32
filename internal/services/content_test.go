package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/edusmart-backend/internal/catalog"
	"github.com/yungbote/edusmart-backend/internal/data/repos/testutil"
	"github.com/yungbote/edusmart-backend/internal/domain/learning"
	"github.com/yungbote/edusmart-backend/internal/domain/user"
	"github.com/yungbote/edusmart-backend/internal/platform/apierr"
)

func importSamples(t *testing.T, env *testEnv) []uuid.UUID {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	var ids []uuid.UUID
	for _, def := range cat.Samples() {
		p, err := env.content.ImportPath(env.dbc, def, learning.Unassigned(), learning.SourceSeed, nil)
		if err != nil {
			t.Fatalf("ImportPath(%q): %v", def.Title, err)
		}
		ids = append(ids, p.ID)
	}
	return ids
}

func TestImportedSamplesAndTopPaths(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	ids := importSamples(t, env)

	all, err := env.content.ListPaths(env.dbc)
	if err != nil || len(all) != len(ids) {
		t.Fatalf("ListPaths: err=%v len=%d", err, len(all))
	}
	top, err := env.content.TopPaths(env.dbc)
	if err != nil {
		t.Fatalf("TopPaths: %v", err)
	}
	if len(top) != 3 || top[0].MatchPercentage != 95 || top[1].MatchPercentage != 92 || top[2].MatchPercentage != 88 {
		t.Fatalf("top paths not ordered by match: %+v", top)
	}

	tree, err := env.content.GetPathTree(env.dbc, ids[0])
	if err != nil {
		t.Fatalf("GetPathTree: %v", err)
	}
	for _, j := range tree.Journeys {
		if j.Owner.IsAssigned() {
			t.Fatalf("seeded journey %q is assigned", j.Title)
		}
		if j.TotalLessons != len(j.Topics) || j.Progress != 0 {
			t.Fatalf("journey %q rollup %d/%d", j.Title, j.TotalLessons, len(j.Topics))
		}
		for i, tp := range j.Topics {
			if tp.Order != i+1 {
				t.Fatalf("journey %q topic %d has order %d", j.Title, i, tp.Order)
			}
		}
	}

	if _, err := env.content.GetPathTree(env.dbc, uuid.New()); apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("missing path err=%v, want 404", err)
	}
	if _, err := env.content.GetJourneyTree(env.dbc, uuid.New()); apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("missing journey err=%v, want 404", err)
	}
}

func TestClaimUnassignedJourneys(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	importSamples(t, env)
	u := testutil.SeedUser(t, env.dbc.Ctx, env.db, "alice")

	n, err := env.content.ClaimUnassignedJourneys(env.dbc, u.ID)
	if err != nil || n == 0 {
		t.Fatalf("Claim: n=%d err=%v", n, err)
	}
	mine, err := env.content.ListUserJourneys(env.dbc, u.ID)
	if err != nil || int64(len(mine)) != n {
		t.Fatalf("ListUserJourneys: err=%v len=%d, want %d", err, len(mine), n)
	}
	again, err := env.content.ClaimUnassignedJourneys(env.dbc, u.ID)
	if err != nil || again != 0 {
		t.Fatalf("second claim n=%d err=%v", again, err)
	}
}

func TestDeletePathRequiresTeacher(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	ids := importSamples(t, env)
	student := testutil.SeedUser(t, env.dbc.Ctx, env.db, "student")
	teacher := testutil.SeedUser(t, env.dbc.Ctx, env.db, "teacher")
	if err := env.db.Model(teacher).Update("user_type", user.TypeTeacher).Error; err != nil {
		t.Fatalf("promote teacher: %v", err)
	}

	if err := env.content.DeletePath(env.dbc, student.ID, ids[0]); apierr.StatusOf(err) != http.StatusForbidden {
		t.Fatalf("student delete err=%v, want 403", err)
	}
	if err := env.content.DeletePath(env.dbc, teacher.ID, ids[0]); err != nil {
		t.Fatalf("teacher delete: %v", err)
	}
	if _, err := env.content.GetPathTree(env.dbc, ids[0]); apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("deleted path still readable: %v", err)
	}
	if err := env.content.DeletePath(env.dbc, teacher.ID, ids[0]); apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("second delete err=%v, want 404", err)
	}
}

func TestPathFromDefRollsUpFreshJourneys(t *testing.T) {
	def := catalog.PathDef{
		Title: " Go Path ",
		Journeys: []catalog.JourneyDef{
			{Title: "Basics", Topics: []catalog.TopicDef{{Title: "Syntax"}, {Title: "Types"}}},
			{Title: "Empty"},
		},
	}
	p, err := pathFromDef(def, learning.Unassigned())
	if err != nil {
		t.Fatalf("pathFromDef: %v", err)
	}
	if p.Title != "Go Path" || len(p.Journeys) != 2 {
		t.Fatalf("path=%q journeys=%d", p.Title, len(p.Journeys))
	}
	basics := p.Journeys[0]
	if basics.TotalLessons != 2 || basics.Progress != 0 || basics.NextLesson == nil || *basics.NextLesson != "Syntax" {
		t.Fatalf("basics rollup: total=%d progress=%d next=%v", basics.TotalLessons, basics.Progress, basics.NextLesson)
	}
	if basics.Topics[1].Order != 2 {
		t.Fatalf("second topic order=%d", basics.Topics[1].Order)
	}
	if empty := p.Journeys[1]; empty.TotalLessons != 0 || empty.NextLesson != nil {
		t.Fatalf("empty journey rollup: %+v", empty)
	}
}
