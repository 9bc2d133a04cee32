package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/edusmart-backend/internal/http/response"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/services"
)

type JourneyHandler struct {
	content services.ContentService
}

func NewJourneyHandler(content services.ContentService) *JourneyHandler {
	return &JourneyHandler{content: content}
}

// GET /api/learning-journeys/:id
func (jh *JourneyHandler) GetJourney(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	j, err := jh.content.GetJourneyTree(dbctx.New(c.Request.Context()), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, j)
}

// GET /api/me/journeys
func (jh *JourneyHandler) ListMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	js, err := jh.content.ListUserJourneys(dbctx.New(c.Request.Context()), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, js)
}

// POST /api/me/journeys/claim
func (jh *JourneyHandler) ClaimUnassigned(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	n, err := jh.content.ClaimUnassignedJourneys(dbctx.New(c.Request.Context()), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"claimed": n})
}
