package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edusmart-backend/internal/http/response"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/services"
)

type TutorHandler struct {
	tutor services.TutorService
}

func NewTutorHandler(tutor services.TutorService) *TutorHandler {
	return &TutorHandler{tutor: tutor}
}

// POST /api/tutor/ask
func (th *TutorHandler) Ask(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Question string `json:"question"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ans, err := th.tutor.Ask(dbctx.New(c.Request.Context()), userID, req.Question)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, ans)
}
