package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/edusmart-backend/internal/platform/cache"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
	"github.com/yungbote/edusmart-backend/internal/platform/openai"
	"github.com/yungbote/edusmart-backend/internal/services"
)

type Clients struct {
	// Generator is nil when no OpenAI key is configured.
	Generator services.TextGenerator
	// Cache is nil when REDIS_URL is empty.
	Cache *cache.Cache
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis
	if cfg.RedisURL != "" {
		c, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Cache = c
	}

	// Openai
	client, err := openai.NewClient(log, openai.ConfigFromEnv())
	switch {
	case errors.Is(err, openai.ErrMissingAPIKey):
		log.Warn("OPENAI_API_KEY not set, path generation and tutor use fallbacks only")
	case err != nil:
		out.Close()
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	default:
		out.Generator = client
	}

	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
}
