package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/edusmart-backend/internal/data/repos/testutil"
	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
)

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := testutil.Ctx()
	u := testutil.SeedUser(t, ctx, db, "alice")
	repo := NewUserTokenRepo(db, testutil.Logger(t))
	dbc := dbctx.New(ctx)

	created, err := repo.Create(dbc, []*types.UserToken{{
		UserID:       u.ID,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour).UTC(),
	}})
	if err != nil || len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: err=%v created=%v", err, created)
	}

	byAccess, err := repo.GetByAccessTokens(dbc, []string{"access-1"})
	if err != nil || len(byAccess) != 1 {
		t.Fatalf("GetByAccessTokens: err=%v len=%d", err, len(byAccess))
	}
	byRefresh, err := repo.GetByRefreshTokens(dbc, []string{"refresh-1"})
	if err != nil || len(byRefresh) != 1 || byRefresh[0].UserID != u.ID {
		t.Fatalf("GetByRefreshTokens: err=%v len=%d", err, len(byRefresh))
	}

	if err := repo.DeleteByAccessTokens(dbc, []string{"access-1"}); err != nil {
		t.Fatalf("DeleteByAccessTokens: %v", err)
	}
	byAccess, err = repo.GetByAccessTokens(dbc, []string{"access-1"})
	if err != nil || len(byAccess) != 0 {
		t.Fatalf("after delete: err=%v len=%d", err, len(byAccess))
	}
}

func TestUserTokenRepoDeleteExpired(t *testing.T) {
	db := testutil.DB(t)
	ctx := testutil.Ctx()
	u := testutil.SeedUser(t, ctx, db, "bob")
	repo := NewUserTokenRepo(db, testutil.Logger(t))
	dbc := dbctx.New(ctx)

	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	_, err := repo.Create(dbc, []*types.UserToken{
		{UserID: u.ID, AccessToken: "old", RefreshToken: "old-r", ExpiresAt: now.Add(-time.Minute)},
		{UserID: u.ID, AccessToken: "live", RefreshToken: "live-r", ExpiresAt: now.Add(time.Hour)},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := repo.DeleteExpired(dbc, now)
	if err != nil || n != 1 {
		t.Fatalf("DeleteExpired: n=%d err=%v", n, err)
	}
	left, err := repo.GetByAccessTokens(dbc, []string{"old", "live"})
	if err != nil || len(left) != 1 || left[0].AccessToken != "live" {
		t.Fatalf("remaining tokens: err=%v %+v", err, left)
	}
}
