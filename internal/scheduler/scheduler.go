package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

// Job is a periodic maintenance task. Run receives the scheduler's context
// and must return promptly once it is cancelled.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
}

// Scheduler runs maintenance jobs in the background for the lifetime of
// the server. A job never overlaps with itself.
type Scheduler struct {
	log   *logger.Logger
	sched *gocron.Scheduler
	jobs  []Job
}

func New(log *logger.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		log:   log.With("component", "Scheduler"),
		sched: s,
	}
}

func (s *Scheduler) Add(job Job) error {
	if job.Run == nil {
		return fmt.Errorf("job %q: no run func", job.Name)
	}
	if job.Every <= 0 {
		return fmt.Errorf("job %q: interval must be positive", job.Name)
	}
	s.jobs = append(s.jobs, job)
	return nil
}

func (s *Scheduler) Len() int { return len(s.jobs) }

// Run registers every job, starts them and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	for _, job := range s.jobs {
		if _, err := s.sched.Every(job.Every).Do(s.runOnce, ctx, job); err != nil {
			return fmt.Errorf("schedule %q: %w", job.Name, err)
		}
	}
	if len(s.jobs) > 0 {
		s.log.Info("Scheduler started", "jobs", len(s.jobs))
	}
	s.sched.StartAsync()
	<-ctx.Done()
	s.sched.Stop()
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.log.Warn("Scheduled job failed", "job", job.Name, "error", err)
		return
	}
	s.log.Debug("Scheduled job finished", "job", job.Name, "duration", time.Since(start))
}
