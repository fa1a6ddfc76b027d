package cronjob

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ctrl-alt-vibe/vibe-backend/config"
)

// Nightly at 03:00 server time.
const nightly = "0 0 3 * * *"

type NotificationPurger interface {
	PurgeRead(ctx context.Context, retentionDays int) (int64, error)
}

type VibeCheckPurger interface {
	PurgeAnonymous(ctx context.Context, retentionDays int) (int64, error)
}

type Sweeper interface {
	Sweep() int
}

// RetentionJobs deletes old read notifications and anonymous vibe checks.
func RetentionJobs(cfg config.SchedulerConfig, notifications NotificationPurger, vibeChecks VibeCheckPurger) []Job {
	return []Job{
		{
			Name:    "purge-read-notifications",
			Spec:    nightly,
			Timeout: 5 * time.Minute,
			Run: func(ctx context.Context) error {
				n, err := notifications.PurgeRead(ctx, cfg.NotificationRetentionDays)
				if err == nil {
					log.Info().Int64("deleted", n).Int("retention_days", cfg.NotificationRetentionDays).Msg("purged read notifications")
				}
				return err
			},
		},
		{
			Name:    "purge-anonymous-vibe-checks",
			Spec:    nightly,
			Timeout: 5 * time.Minute,
			Run: func(ctx context.Context) error {
				n, err := vibeChecks.PurgeAnonymous(ctx, cfg.VibeCheckRetentionDays)
				if err == nil {
					log.Info().Int64("deleted", n).Int("retention_days", cfg.VibeCheckRetentionDays).Msg("purged anonymous vibe checks")
				}
				return err
			},
		},
	}
}

// SweepJob drops idle rate limiter buckets every ten minutes.
func SweepJob(name string, s Sweeper) Job {
	return Job{
		Name: name,
		Spec: "0 */10 * * * *",
		Run: func(context.Context) error {
			if n := s.Sweep(); n > 0 {
				log.Debug().Str("limiter", name).Int("removed", n).Msg("swept idle clients")
			}
			return nil
		},
	}
}
