package cronjob

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job is one scheduled task. Spec uses the six-field (seconds first) format.
type Job struct {
	Name    string
	Spec    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

type Scheduler struct {
	c    *cron.Cron
	jobs []Job
}

func NewScheduler(jobs ...Job) *Scheduler {
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			cron.Recover(cron.PrintfLogger(&log.Logger)),
			cron.SkipIfStillRunning(cron.DiscardLogger),
		),
	)
	return &Scheduler{c: c, jobs: jobs}
}

// Start registers every job and starts the cron loop in its own goroutine.
func (s *Scheduler) Start() error {
	for _, job := range s.jobs {
		job := job
		if _, err := s.c.AddFunc(job.Spec, func() { RunJob(context.Background(), job) }); err != nil {
			return err
		}
		log.Info().Str("job", job.Name).Str("spec", job.Spec).Msg("cron job registered")
	}
	s.c.Start()
	log.Info().Int("jobs", len(s.jobs)).Msg("cron scheduler started")
	return nil
}

// Stop halts scheduling; the returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.c.Stop()
}

// RunJob executes one job with its timeout and logs the outcome.
func RunJob(ctx context.Context, job Job) {
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		log.Error().Err(err).Str("job", job.Name).Dur("took", time.Since(start)).Msg("cron job failed")
		return
	}
	log.Info().Str("job", job.Name).Dur("took", time.Since(start)).Msg("cron job completed")
}
