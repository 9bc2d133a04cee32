package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/edusmart-backend/internal/http/handlers"
	httpMW "github.com/yungbote/edusmart-backend/internal/http/middleware"
	"github.com/yungbote/edusmart-backend/internal/observability"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	// TraceServiceName enables otelgin spans when non-empty.
	TraceServiceName string
	CORSOrigins      []string
	// Metrics adds request instrumentation and GET /metrics when non-nil.
	Metrics *observability.Metrics

	AuthHandler     *httpH.AuthHandler
	AuthMiddleware  *httpMW.AuthMiddleware
	UserHandler     *httpH.UserHandler
	PathHandler     *httpH.PathHandler
	JourneyHandler  *httpH.JourneyHandler
	ProgressHandler *httpH.ProgressHandler
	StatsHandler    *httpH.StatsHandler
	TutorHandler    *httpH.TutorHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TraceServiceName != "" {
		r.Use(otelgin.Middleware(cfg.TraceServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/login", cfg.AuthHandler.Login)
			api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
		}

		// Catalogue (public)
		if cfg.PathHandler != nil {
			api.GET("/learning-paths", cfg.PathHandler.ListPaths)
			api.GET("/learning-paths/:id", cfg.PathHandler.GetPath)
			api.GET("/top-learning-paths", cfg.PathHandler.TopPaths)
		}
		if cfg.JourneyHandler != nil {
			api.GET("/learning-journeys/:id", cfg.JourneyHandler.GetJourney)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}
		if cfg.UserHandler != nil {
			protected.GET("/auth/user", cfg.UserHandler.GetMe)
		}

		if cfg.PathHandler != nil {
			protected.DELETE("/learning-paths/:id", cfg.PathHandler.DeletePath)
			protected.POST("/generate-learning-path", cfg.PathHandler.GeneratePath)
		}

		if cfg.JourneyHandler != nil {
			protected.GET("/me/journeys", cfg.JourneyHandler.ListMine)
			protected.POST("/me/journeys/claim", cfg.JourneyHandler.ClaimUnassigned)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			protected.PATCH("/topics/:id", cfg.ProgressHandler.UpdateTopic)
			protected.POST("/quiz-results", cfg.ProgressHandler.SaveQuizResult)
		}

		// Stats
		if cfg.StatsHandler != nil {
			protected.GET("/me/stats", cfg.StatsHandler.GetStats)
			protected.GET("/me/quiz-performance", cfg.StatsHandler.GetQuizPerformance)
			protected.GET("/me/quiz-performance/export", cfg.StatsHandler.ExportQuizPerformance)
			protected.GET("/me/insights", cfg.StatsHandler.GetInsights)
			protected.POST("/me/insights", cfg.StatsHandler.AddInsight)
		}

		if cfg.TutorHandler != nil {
			protected.POST("/tutor/ask", cfg.TutorHandler.Ask)
		}
	}

	return r
}
