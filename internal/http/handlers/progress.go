package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/edusmart-backend/internal/http/response"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/services"
)

type ProgressHandler struct {
	progress services.ProgressService
}

func NewProgressHandler(progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// PATCH /api/topics/:id
func (ph *ProgressHandler) UpdateTopic(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	topicID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		IsCompleted *bool `json:"is_completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.IsCompleted == nil {
		response.RespondError(c, http.StatusBadRequest, "missing_is_completed", errors.New("is_completed is required"))
		return
	}
	j, err := ph.progress.SetTopicCompletion(dbctx.New(c.Request.Context()), userID, topicID, *req.IsCompleted)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, j)
}

// POST /api/quiz-results
func (ph *ProgressHandler) SaveQuizResult(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		QuizID uuid.UUID `json:"quiz_id"`
		Score  *int      `json:"score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Score == nil {
		response.RespondError(c, http.StatusBadRequest, "missing_score", errors.New("score is required"))
		return
	}
	res, err := ph.progress.SaveQuizResult(dbctx.New(c.Request.Context()), userID, req.QuizID, *req.Score)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}
