package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edusmart-backend/internal/http/response"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/reports"
	"github.com/yungbote/edusmart-backend/internal/services"
)

type StatsHandler struct {
	stats services.StatsService
}

func NewStatsHandler(stats services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// GET /api/me/stats
func (sh *StatsHandler) GetStats(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	d, err := sh.stats.GetDashboard(dbctx.New(c.Request.Context()), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, d)
}

// GET /api/me/quiz-performance
func (sh *StatsHandler) GetQuizPerformance(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	perf, err := sh.stats.GetQuizPerformance(dbctx.New(c.Request.Context()), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, perf)
}

// GET /api/me/quiz-performance/export
func (sh *StatsHandler) ExportQuizPerformance(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	perf, err := sh.stats.GetQuizPerformance(dbctx.New(c.Request.Context()), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := reports.WriteQuizPerformance(&buf, perf); err != nil {
		response.RespondServiceError(c, fmt.Errorf("render quiz report: %w", err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="quiz-performance.xlsx"`)
	c.Data(http.StatusOK, reports.XLSXContentType, buf.Bytes())
}

// GET /api/me/insights
func (sh *StatsHandler) GetInsights(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	ins, err := sh.stats.GetLearningInsights(dbctx.New(c.Request.Context()), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, ins)
}

// POST /api/me/insights
func (sh *StatsHandler) AddInsight(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		InsightType string `json:"insight_type"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	in, err := sh.stats.AddInsight(dbctx.New(c.Request.Context()), userID, req.InsightType, req.Description)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, in)
}
