package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/edusmart-backend/internal/domain/user"
	"github.com/yungbote/edusmart-backend/internal/platform/cache"
)

// AIBudget caps how many text-generation calls a user may trigger per day.
// Allow consumes one call when it returns true.
type AIBudget interface {
	Allow(ctx context.Context, userID uuid.UUID) (bool, error)
}

const aiBudgetKeyTTL = 48 * time.Hour

func aiBudgetKey(userID uuid.UUID, day string) string {
	return fmt.Sprintf("ai_calls:%s:%s", userID, day)
}

type redisAIBudget struct {
	cache *cache.Cache
	limit int
	clock Clock
}

// NewRedisAIBudget counts calls in Redis so the limit holds across instances.
// A limit <= 0 means unlimited.
func NewRedisAIBudget(c *cache.Cache, limit int, clock Clock) AIBudget {
	return &redisAIBudget{cache: c, limit: limit, clock: clock}
}

func (b *redisAIBudget) Allow(ctx context.Context, userID uuid.UUID) (bool, error) {
	if b.limit <= 0 {
		return true, nil
	}
	n, err := b.cache.IncrWithTTL(ctx, aiBudgetKey(userID, user.DayOf(b.clock.now())), aiBudgetKeyTTL)
	if err != nil {
		return false, err
	}
	return n <= int64(b.limit), nil
}

type inMemoryAIBudget struct {
	mu    sync.Mutex
	limit int
	clock Clock
	used  map[string]int
}

func NewInMemoryAIBudget(limit int, clock Clock) AIBudget {
	return &inMemoryAIBudget{limit: limit, clock: clock, used: map[string]int{}}
}

func (b *inMemoryAIBudget) Allow(_ context.Context, userID uuid.UUID) (bool, error) {
	if b.limit <= 0 {
		return true, nil
	}
	day := user.DayOf(b.clock.now())
	key := aiBudgetKey(userID, day)

	b.mu.Lock()
	defer b.mu.Unlock()
	// Drop counters from earlier days.
	for k := range b.used {
		if len(k) < len(day) || k[len(k)-len(day):] != day {
			delete(b.used, k)
		}
	}
	if b.used[key] >= b.limit {
		return false, nil
	}
	b.used[key]++
	return true, nil
}
