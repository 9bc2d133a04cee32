package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/edusmart-backend/internal/domain"
	"github.com/yungbote/edusmart-backend/internal/domain/learning"
	"github.com/yungbote/edusmart-backend/internal/domain/user"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	now := time.Now().UTC()
	u := &types.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     username + "@example.com",
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		UserType:  user.TypeStudent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedPath(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, match int) *types.Path {
	tb.Helper()
	now := time.Now().UTC()
	p := &types.Path{
		ID:              uuid.New(),
		Title:           title,
		Description:     "path",
		Duration:        "4 weeks",
		MatchPercentage: match,
		Source:          learning.SourceSeed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed path: %v", err)
	}
	return p
}

func SeedJourney(tb testing.TB, ctx context.Context, tx *gorm.DB, pathID uuid.UUID, owner learning.Owner, position int) *types.Journey {
	tb.Helper()
	now := time.Now().UTC()
	j := &types.Journey{
		ID:          uuid.New(),
		PathID:      pathID,
		Position:    position,
		Title:       fmt.Sprintf("journey %d", position),
		Description: "journey",
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(j).Error; err != nil {
		tb.Fatalf("seed journey: %v", err)
	}
	return j
}

// SeedTopic creates a topic; completedAt non-nil marks it completed at that instant.
func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, journeyID uuid.UUID, order int, completedAt *time.Time) *types.Topic {
	tb.Helper()
	now := time.Now().UTC()
	t := &types.Topic{
		ID:          uuid.New(),
		JourneyID:   journeyID,
		Title:       fmt.Sprintf("topic %d", order),
		Description: "topic",
		Order:       order,
		Duration:    "2 hours",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if completedAt != nil {
		t.SetCompleted(true, *completedAt)
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return t
}

func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID, completedAt *time.Time) *types.Quiz {
	tb.Helper()
	now := time.Now().UTC()
	q := &types.Quiz{
		ID:             uuid.New(),
		TopicID:        topicID,
		Title:          "quiz",
		Description:    "quiz",
		Duration:       "30 minutes",
		Difficulty:     learning.DifficultyBeginner,
		QuestionsCount: 10,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if completedAt != nil {
		q.SetCompleted(true, *completedAt)
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

func PtrTime(v time.Time) *time.Time { return &v }
