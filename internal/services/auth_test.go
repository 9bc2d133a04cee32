package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/platform/apierr"
	"github.com/yungbote/edusmart-backend/internal/platform/ctxutil"
)

func validRegistration() RegisterInput {
	return RegisterInput{
		Username:  "alice",
		Email:     "Alice@Example.com",
		Password:  "correct-horse",
		Password2: "correct-horse",
		FirstName: "Alice",
		LastName:  "Liddell",
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	u, err := env.auth.RegisterUser(env.dbc, validRegistration())
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if u.UserType != "student" || u.Email != "alice@example.com" || u.Password == "correct-horse" {
		t.Fatalf("registered user %+v", u)
	}

	access, refresh, err := env.auth.LoginUser(env.dbc, "alice", "correct-horse")
	if err != nil || access == "" || refresh == "" {
		t.Fatalf("LoginUser: err=%v", err)
	}
	if _, _, err := env.auth.LoginUser(env.dbc, "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("login by email: %v", err)
	}

	ctx, err := env.auth.SetContextFromToken(env.dbc.Ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID != u.ID {
		t.Fatalf("request data=%+v", rd)
	}
	me, err := env.users.GetMe(dbctx.New(ctx))
	if err != nil || me.ID != u.ID {
		t.Fatalf("GetMe: %v", err)
	}

	if err := env.auth.LogoutUser(dbctx.New(ctx)); err != nil {
		t.Fatalf("LogoutUser: %v", err)
	}
	if _, err := env.auth.SetContextFromToken(env.dbc.Ctx, access); apierr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("revoked token err=%v, want 401", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	if _, err := env.auth.RegisterUser(env.dbc, validRegistration()); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	for _, tc := range [][2]string{{"alice", "wrong-password"}, {"nobody", "correct-horse"}} {
		if _, _, err := env.auth.LoginUser(env.dbc, tc[0], tc[1]); apierr.StatusOf(err) != http.StatusUnauthorized {
			t.Fatalf("login %q err=%v, want 401", tc[0], err)
		}
	}
	if _, _, err := env.auth.LoginUser(env.dbc, "", ""); apierr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("empty login err=%v, want 400", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	if _, err := env.auth.RegisterUser(env.dbc, validRegistration()); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	access, refresh, err := env.auth.LoginUser(env.dbc, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	newAccess, newRefresh, err := env.auth.RefreshUser(env.dbc, refresh)
	if err != nil {
		t.Fatalf("RefreshUser: %v", err)
	}
	if newAccess == access || newRefresh == refresh {
		t.Fatalf("tokens were not rotated")
	}
	if _, _, err := env.auth.RefreshUser(env.dbc, refresh); apierr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("reused refresh token err=%v, want 401", err)
	}
	if _, err := env.auth.SetContextFromToken(env.dbc.Ctx, access); apierr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("old access token err=%v, want 401", err)
	}
	if _, err := env.auth.SetContextFromToken(env.dbc.Ctx, newAccess); err != nil {
		t.Fatalf("new access token: %v", err)
	}
}

func TestPurgeExpiredTokens(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	if _, err := env.auth.RegisterUser(env.dbc, validRegistration()); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if _, _, err := env.auth.LoginUser(env.dbc, "alice", "correct-horse"); err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	n, err := env.auth.PurgeExpiredTokens(env.dbc, time.Now())
	if err != nil || n != 0 {
		t.Fatalf("purge of live sessions: n=%d err=%v", n, err)
	}
	n, err = env.auth.PurgeExpiredTokens(env.dbc, time.Now().Add(48*time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("purge after refresh window: n=%d err=%v", n, err)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	if _, err := env.auth.RegisterUser(env.dbc, validRegistration()); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	mutate := func(f func(*RegisterInput)) RegisterInput {
		in := validRegistration()
		in.Username, in.Email = "bob", "bob@example.com"
		f(&in)
		return in
	}
	cases := []struct {
		name   string
		in     RegisterInput
		status int
	}{
		{"password mismatch", mutate(func(in *RegisterInput) { in.Password2 = "other-horse" }), http.StatusBadRequest},
		{"short password", mutate(func(in *RegisterInput) { in.Password, in.Password2 = "short", "short" }), http.StatusBadRequest},
		{"bad email", mutate(func(in *RegisterInput) { in.Email = "not-an-email" }), http.StatusBadRequest},
		{"bad user type", mutate(func(in *RegisterInput) { in.UserType = "admin" }), http.StatusBadRequest},
		{"missing name", mutate(func(in *RegisterInput) { in.LastName = "" }), http.StatusBadRequest},
		{"username taken", mutate(func(in *RegisterInput) { in.Username = "alice" }), http.StatusConflict},
		{"email taken", mutate(func(in *RegisterInput) { in.Email = "ALICE@example.com" }), http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.auth.RegisterUser(env.dbc, tc.in); apierr.StatusOf(err) != tc.status {
				t.Fatalf("err=%v, want %d", err, tc.status)
			}
		})
	}

	teacher := mutate(func(in *RegisterInput) { in.UserType = "Teacher" })
	u, err := env.auth.RegisterUser(env.dbc, teacher)
	if err != nil || u.UserType != "teacher" {
		t.Fatalf("teacher registration: %v", err)
	}
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := env.auth.SetContextFromToken(env.dbc.Ctx, tok); apierr.StatusOf(err) != http.StatusUnauthorized {
			t.Fatalf("token %q err=%v, want 401", tok, err)
		}
	}
}
