package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/elevate/clubhub/internal/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Job is a named unit of scheduled work
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
	// Timeout bounds one run; zero means one minute
	Timeout time.Duration
}

// Scheduler runs registered jobs on cron specs
type Scheduler struct {
	cron *cron.Cron
}

// New creates a scheduler in UTC with seconds precision
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
}

// Register adds a job. Each run gets its own context with the job timeout.
func (s *Scheduler) Register(job Job) error {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}

	_, err := s.cron.AddFunc(job.Spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		if err := job.Run(ctx); err != nil {
			logger.Error().Err(err).Str("job", job.Name).Msg("Scheduled job failed")
			return
		}
		logger.Debug().Str("job", job.Name).Dur("took", time.Since(start)).Msg("Scheduled job finished")
	})
	if err != nil {
		return fmt.Errorf("failed to register job %s with spec %q: %w", job.Name, job.Spec, err)
	}
	logger.Info().Str("job", job.Name).Str("spec", job.Spec).Msg("Scheduled job registered")
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info().Int("jobs", len(s.cron.Entries())).Msg("Starting cron scheduler")
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

// JobCount returns the number of registered jobs
func (s *Scheduler) JobCount() int {
	return len(s.cron.Entries())
}
