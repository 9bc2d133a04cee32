package services

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/edusmart-backend/internal/platform/apierr"
)

func TestTutorUsesModelAnswer(t *testing.T) {
	gen := &fakeGenerator{text: "  Use a loop.  "}
	env := newTestEnv(t, envOptions{gen: gen})
	got, err := env.tutor.Ask(env.dbc, uuid.New(), "How do I repeat things?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got.Source != TutorSourceAI || got.Answer != "Use a loop." {
		t.Fatalf("answer=%+v", got)
	}
}

func TestTutorFallsBack(t *testing.T) {
	cases := map[string]envOptions{
		"no generator":    {},
		"generator error": {gen: &fakeGenerator{err: errors.New("boom")}},
		"empty answer":    {gen: &fakeGenerator{text: "   "}},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, opts)
			got, err := env.tutor.Ask(env.dbc, uuid.New(), "What is a closure?")
			if err != nil {
				t.Fatalf("Ask: %v", err)
			}
			if got.Source != TutorSourceFallback || !strings.HasPrefix(got.Answer, "That's a great question!") {
				t.Fatalf("answer=%+v", got)
			}
		})
	}
}

func TestTutorRejectsEmptyQuestion(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	if _, err := env.tutor.Ask(env.dbc, uuid.New(), "  "); apierr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("err=%v, want 400", err)
	}
	if _, err := env.tutor.Ask(env.dbc, uuid.New(), strings.Repeat("x", maxQuestionLength+1)); apierr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("long question err=%v, want 400", err)
	}
}
