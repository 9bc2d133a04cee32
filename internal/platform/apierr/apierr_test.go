package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusOfWrapped(t *testing.T) {
	base := NotFound("topic_not_found")
	wrapped := fmt.Errorf("set completion: %w", base)
	if got := StatusOf(wrapped); got != http.StatusNotFound {
		t.Fatalf("StatusOf=%d, want 404", got)
	}
	ae, ok := As(wrapped)
	if !ok || ae.Code != "topic_not_found" {
		t.Fatalf("As: ok=%v ae=%+v", ok, ae)
	}
	if got := StatusOf(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("StatusOf(plain)=%d, want 500", got)
	}
}

func TestErrorMessage(t *testing.T) {
	if got := BadRequest("invalid_score", nil).Error(); got != "invalid_score" {
		t.Fatalf("Error()=%q", got)
	}
	if got := BadRequest("invalid_score", errors.New("score must be 0-100")).Error(); got != "score must be 0-100" {
		t.Fatalf("Error()=%q", got)
	}
}
