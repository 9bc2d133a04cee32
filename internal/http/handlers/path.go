package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edusmart-backend/internal/http/response"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/services"
)

type PathHandler struct {
	content services.ContentService
	pathgen services.PathGenService
}

func NewPathHandler(content services.ContentService, pathgen services.PathGenService) *PathHandler {
	return &PathHandler{content: content, pathgen: pathgen}
}

// GET /api/learning-paths
func (ph *PathHandler) ListPaths(c *gin.Context) {
	paths, err := ph.content.ListPaths(dbctx.New(c.Request.Context()))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, paths)
}

// GET /api/learning-paths/:id
func (ph *PathHandler) GetPath(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	p, err := ph.content.GetPathTree(dbctx.New(c.Request.Context()), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, p)
}

// DELETE /api/learning-paths/:id
func (ph *PathHandler) DeletePath(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := ph.content.DeletePath(dbctx.New(c.Request.Context()), userID, id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/top-learning-paths
func (ph *PathHandler) TopPaths(c *gin.Context) {
	paths, err := ph.content.TopPaths(dbctx.New(c.Request.Context()))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, paths)
}

// POST /api/generate-learning-path
func (ph *PathHandler) GeneratePath(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req services.GeneratePathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := ph.pathgen.Generate(dbctx.New(c.Request.Context()), userID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}
