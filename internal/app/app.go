package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/edusmart-backend/internal/data/db"
	httpserver "github.com/yungbote/edusmart-backend/internal/http"
	"github.com/yungbote/edusmart-backend/internal/observability"
	"github.com/yungbote/edusmart-backend/internal/platform/envutil"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
	"github.com/yungbote/edusmart-backend/internal/scheduler"
	"github.com/yungbote/edusmart-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Server   *httpserver.Server
	Jobs     *scheduler.Scheduler
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	Metrics  *observability.Metrics

	closeDB func() error
}

// Options lets callers replace the pieces New would build from the
// environment.
type Options struct {
	// Clients replaces wireClients when non-nil.
	Clients *Clients
	Clock   services.Clock
	Metrics *observability.Metrics
}

// New builds the whole application from environment variables: logger,
// database (migrated), external clients and the HTTP stack.
func New(ctx context.Context) (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	dbs, err := db.NewDatabaseService(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbs.AutoMigrateAll(); err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, err
	}

	a, err := Build(log, cfg, dbs.DB(), Options{
		Clients: &clients,
		Metrics: observability.Init(log),
	})
	if err != nil {
		clients.Close()
		_ = dbs.Close()
		log.Sync()
		return nil, err
	}
	a.closeDB = dbs.Close
	return a, nil
}

// Build wires repos, services and the HTTP stack on an already migrated db.
func Build(log *logger.Logger, cfg Config, theDB *gorm.DB, opts Options) (*App, error) {
	if log == nil || theDB == nil {
		return nil, errors.New("app: logger and db are required")
	}
	var clients Clients
	if opts.Clients != nil {
		clients = *opts.Clients
	}
	clock := opts.Clock
	if clock == nil {
		clock = services.SystemClock
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, clients, clock)
	if err != nil {
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, healthPing(theDB, clients))
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, handlerset, middleware, opts.Metrics)
	jobs, err := wireScheduler(log, cfg, serviceset, clock)
	if err != nil {
		return nil, err
	}

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   server.Engine,
		Server:   server,
		Jobs:     jobs,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Clients:  clients,
		Metrics:  opts.Metrics,
	}, nil
}

func healthPing(theDB *gorm.DB, clients Clients) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := theDB.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		if clients.Cache != nil {
			if err := clients.Cache.HealthCheck(ctx); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		return nil
	}
}

// Run serves on addr and runs the scheduled jobs until ctx is cancelled or
// either of them fails.
func (a *App) Run(ctx context.Context, addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	a.Metrics.StartDBCollector(gctx, a.Log, a.DB)
	if a.Clients.Cache != nil {
		a.Metrics.StartRedisCollector(gctx, a.Log, a.Clients.Cache.Client)
	}
	if a.Jobs != nil {
		g.Go(func() error { return a.Jobs.Run(gctx) })
	}
	g.Go(func() error {
		a.Log.Info("Server listening", "addr", addr)
		if err := a.Server.Run(gctx, addr); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.closeDB != nil {
		if err := a.closeDB(); err != nil && a.Log != nil {
			a.Log.Warn("closing database failed", "error", err)
		}
		a.closeDB = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
