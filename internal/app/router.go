package app

import (
	httpserver "github.com/yungbote/edusmart-backend/internal/http"
	"github.com/yungbote/edusmart-backend/internal/observability"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *httpserver.Server {
	return httpserver.NewServer(httpserver.RouterConfig{
		Log:              log,
		TraceServiceName: cfg.TraceServiceName,
		CORSOrigins:      cfg.CORSOrigins,
		Metrics:          metrics,

		AuthHandler:     handlers.Auth,
		AuthMiddleware:  middleware.Auth,
		UserHandler:     handlers.User,
		PathHandler:     handlers.Path,
		JourneyHandler:  handlers.Journey,
		ProgressHandler: handlers.Progress,
		StatsHandler:    handlers.Stats,
		TutorHandler:    handlers.Tutor,
		HealthHandler:   handlers.Health,
	})
}
