package app

import (
	"context"

	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
	"github.com/yungbote/edusmart-backend/internal/scheduler"
	"github.com/yungbote/edusmart-backend/internal/services"
)

func wireScheduler(log *logger.Logger, cfg Config, serviceset Services, clock services.Clock) (*scheduler.Scheduler, error) {
	log.Info("Wiring scheduled jobs...")
	s := scheduler.New(log)
	if cfg.TokenCleanupInterval > 0 {
		err := s.Add(scheduler.Job{
			Name:  "purge_expired_tokens",
			Every: cfg.TokenCleanupInterval,
			Run: func(ctx context.Context) error {
				_, err := serviceset.Auth.PurgeExpiredTokens(dbctx.New(ctx), clock())
				return err
			},
		})
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}
