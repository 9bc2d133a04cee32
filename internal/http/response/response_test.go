package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edusmart-backend/internal/platform/apierr"
)

func render(err error) (*httptest.ResponseRecorder, ErrorEnvelope) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondServiceError(c, err)
	var env ErrorEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestRespondServiceErrorKeepsCallerFacingErrors(t *testing.T) {
	wrapped := fmt.Errorf("generate: %w", apierr.BadRequest("invalid_study_hours", errors.New("study_hours must be positive")))
	rec, env := render(wrapped)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}
	if env.Error.Code != "invalid_study_hours" || env.Error.Message != "study_hours must be positive" {
		t.Fatalf("envelope=%+v", env)
	}

	rec, env = render(apierr.NotFound("topic_not_found"))
	if rec.Code != http.StatusNotFound || env.Error.Message != "topic_not_found" {
		t.Fatalf("not found: status=%d envelope=%+v", rec.Code, env)
	}
}

func TestRespondServiceErrorHidesInternalErrors(t *testing.T) {
	rec, env := render(errors.New("pq: connection refused"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rec.Code)
	}
	if env.Error.Code != "internal_error" || env.Error.Message != "internal server error" {
		t.Fatalf("envelope=%+v", env)
	}
}
