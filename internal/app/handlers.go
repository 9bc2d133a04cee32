package app

import (
	"context"

	httpH "github.com/yungbote/edusmart-backend/internal/http/handlers"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	User     *httpH.UserHandler
	Path     *httpH.PathHandler
	Journey  *httpH.JourneyHandler
	Progress *httpH.ProgressHandler
	Stats    *httpH.StatsHandler
	Tutor    *httpH.TutorHandler
}

func wireHandlers(log *logger.Logger, services Services, ping func(ctx context.Context) error) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(ping),
		Auth:     httpH.NewAuthHandler(services.Auth),
		User:     httpH.NewUserHandler(services.User),
		Path:     httpH.NewPathHandler(services.Content, services.PathGen),
		Journey:  httpH.NewJourneyHandler(services.Content),
		Progress: httpH.NewProgressHandler(services.Progress),
		Stats:    httpH.NewStatsHandler(services.Stats),
		Tutor:    httpH.NewTutorHandler(services.Tutor),
	}
}
