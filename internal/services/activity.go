package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/edusmart-backend/internal/data/repos"
	"github.com/yungbote/edusmart-backend/internal/domain/user"
	"github.com/yungbote/edusmart-backend/internal/pkg/dbctx"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

// streakWindowDays bounds how much history a streak read scans.
const streakWindowDays = 366

type ActivityTracker interface {
	// RecordActivity marks today (server-local) as active for userID. Safe to
	// call any number of times per day.
	RecordActivity(dbc dbctx.Context, userID uuid.UUID) error
	// GetStreak counts consecutive active days ending today; 0 when today
	// has no activity.
	GetStreak(dbc dbctx.Context, userID uuid.UUID) (int, error)
}

type activityTracker struct {
	log          *logger.Logger
	activityRepo repos.UserActivityRepo
	clock        Clock
}

func NewActivityTracker(log *logger.Logger, activityRepo repos.UserActivityRepo, clock Clock) ActivityTracker {
	return &activityTracker{
		log:          log.With("service", "ActivityTracker"),
		activityRepo: activityRepo,
		clock:        clock,
	}
}

func (at *activityTracker) RecordActivity(dbc dbctx.Context, userID uuid.UUID) error {
	day := user.DayOf(at.clock.now())
	inserted, err := at.activityRepo.Record(dbc, userID, day)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	if inserted {
		at.log.Debug("First activity of the day", "user_id", userID, "day", day)
	}
	return nil
}

func (at *activityTracker) GetStreak(dbc dbctx.Context, userID uuid.UUID) (int, error) {
	now := at.clock.now()
	today := user.DayOf(now)
	since := user.DayOf(now.AddDate(0, 0, -(streakWindowDays - 1)))

	days, err := at.activityRepo.ListDaysDesc(dbc, userID, since, streakWindowDays)
	if err != nil {
		return 0, fmt.Errorf("list activity days: %w", err)
	}
	return streakFromDays(today, days), nil
}

// streakFromDays walks days (descending, distinct) from today backwards and
// stops at the first gap.
func streakFromDays(today string, days []string) int {
	if len(days) == 0 || days[0] != today {
		return 0
	}
	streak := 1
	prev, err := time.Parse(user.DayLayout, days[0])
	if err != nil {
		return 0
	}
	for _, d := range days[1:] {
		cur, err := time.Parse(user.DayLayout, d)
		if err != nil {
			break
		}
		if !prev.AddDate(0, 0, -1).Equal(cur) {
			break
		}
		streak++
		prev = cur
	}
	return streak
}
