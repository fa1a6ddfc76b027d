package cronjob

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctrl-alt-vibe/vibe-backend/config"
)

type fakePurger struct {
	days int
	err  error
}

func (f *fakePurger) PurgeRead(_ context.Context, days int) (int64, error) {
	f.days = days
	return 3, f.err
}

func (f *fakePurger) PurgeAnonymous(_ context.Context, days int) (int64, error) {
	f.days = days
	return 1, f.err
}

type fakeSweeper struct{ calls int }

func (f *fakeSweeper) Sweep() int { f.calls++; return 2 }

func TestRetentionJobs(t *testing.T) {
	notif, vibes := &fakePurger{}, &fakePurger{}
	jobs := RetentionJobs(config.SchedulerConfig{NotificationRetentionDays: 90, VibeCheckRetentionDays: 30}, notif, vibes)
	require.Len(t, jobs, 2)

	for _, j := range jobs {
		RunJob(context.Background(), j)
	}
	assert.Equal(t, 90, notif.days)
	assert.Equal(t, 30, vibes.days)
}

func TestRunJob_TimeoutAndError(t *testing.T) {
	var deadline time.Time
	RunJob(context.Background(), Job{
		Name:    "t",
		Timeout: time.Minute,
		Run: func(ctx context.Context) error {
			deadline, _ = ctx.Deadline()
			return errors.New("boom")
		},
	})
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestSchedulerStart(t *testing.T) {
	sw := &fakeSweeper{}
	s := NewScheduler(SweepJob("api", sw))
	require.NoError(t, s.Start())
	assert.Len(t, s.c.Entries(), 1)
	<-s.Stop().Done()

	bad := NewScheduler(Job{Name: "bad", Spec: "not a spec", Run: func(context.Context) error { return nil }})
	assert.Error(t, bad.Start())
}

func TestSweepJob(t *testing.T) {
	sw := &fakeSweeper{}
	RunJob(context.Background(), SweepJob("api", sw))
	assert.Equal(t, 1, sw.calls)
}
