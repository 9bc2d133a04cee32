package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/edusmart-backend/internal/catalog"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
	"github.com/yungbote/edusmart-backend/internal/services"
)

type Services struct {
	Catalog *catalog.Catalog
	Budget  services.AIBudget

	Auth     services.AuthService
	User     services.UserService
	Rollup   services.RollupEngine
	Activity services.ActivityTracker
	Stats    services.StatsService
	Content  services.ContentService
	Progress services.ProgressService
	PathGen  services.PathGenService
	Tutor    services.TutorService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, clock services.Clock) (Services, error) {
	log.Info("Wiring services...")

	cat, err := catalog.Load()
	if err != nil {
		return Services{}, fmt.Errorf("load catalog: %w", err)
	}

	var budget services.AIBudget
	if clients.Cache != nil {
		budget = services.NewRedisAIBudget(clients.Cache, cfg.AIDailyCallLimit, clock)
	} else {
		budget = services.NewInMemoryAIBudget(cfg.AIDailyCallLimit, clock)
	}

	authService := services.NewAuthService(db, log, repos.User, repos.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := services.NewUserService(log, repos.User)

	rollup := services.NewRollupEngine(db, log, repos.Journey, repos.Topic)
	activity := services.NewActivityTracker(log, repos.UserActivity, clock)
	stats := services.NewStatsService(
		db,
		log,
		repos.Journey,
		repos.Topic,
		repos.Quiz,
		repos.QuizResult,
		repos.Insight,
		repos.UserStats,
		activity,
		clock,
	)
	content := services.NewContentService(db, log, repos.User, repos.Path, repos.Journey)
	progress := services.NewProgressService(
		db,
		log,
		repos.Journey,
		repos.Topic,
		repos.Quiz,
		repos.QuizResult,
		rollup,
		activity,
		stats,
		clock,
	)
	pathGen := services.NewPathGenService(db, log, cat, content, activity, stats, clients.Generator, budget, services.PathGenOptions{
		LLMTimeout: cfg.PathGenLLMTimeout,
		Clock:      clock,
	})
	tutor := services.NewTutorService(log, cat, clients.Generator, budget, cfg.TutorLLMTimeout, nil)

	return Services{
		Catalog:  cat,
		Budget:   budget,
		Auth:     authService,
		User:     userService,
		Rollup:   rollup,
		Activity: activity,
		Stats:    stats,
		Content:  content,
		Progress: progress,
		PathGen:  pathGen,
		Tutor:    tutor,
	}, nil
}
