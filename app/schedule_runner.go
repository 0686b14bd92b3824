package app

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DispatchFunc hands one due schedule to report delivery
type DispatchFunc func(ctx context.Context, run DueRun) error

// ScheduleRunner checks for due report schedules once a minute
type ScheduleRunner struct {
	schedules *ScheduleService
	dispatch  DispatchFunc
	cron      *cron.Cron
	log       zerolog.Logger

	mu      sync.Mutex
	lastRun time.Time
}

// NewScheduleRunner creates a runner; the first window starts at now
func NewScheduleRunner(schedules *ScheduleService, dispatch DispatchFunc, log zerolog.Logger) *ScheduleRunner {
	return &ScheduleRunner{
		schedules: schedules,
		dispatch:  dispatch,
		cron:      cron.New(cron.WithLocation(schedules.loc)),
		log:       log.With().Str("component", "schedule_runner").Logger(),
		lastRun:   time.Now().UTC(),
	}
}

// Start registers the minute tick and starts the cron loop in its own goroutine
func (r *ScheduleRunner) Start() error {
	if _, err := r.cron.AddFunc("* * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()
		r.RunOnce(ctx, time.Now().UTC())
	}); err != nil {
		return err
	}

	r.cron.Start()
	r.log.Info().Msg("📅 Schedule runner started")
	return nil
}

// AddJob registers a housekeeping job on the runner's cron loop.
// Each run gets its own context bounded by timeout.
func (r *ScheduleRunner) AddJob(spec, name string, timeout time.Duration, job func(ctx context.Context) error) error {
	_, err := r.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := job(ctx); err != nil {
			r.log.Error().Err(err).Str("job", name).Msg("❌ Job failed")
		}
	})
	return err
}

// Stop stops the cron loop and waits for a running tick
func (r *ScheduleRunner) Stop() {
	<-r.cron.Stop().Done()
	r.log.Info().Msg("📅 Schedule runner stopped")
}

// RunOnce dispatches every schedule due since the previous call and marks it
// run. It returns the number of schedules dispatched.
func (r *ScheduleRunner) RunOnce(ctx context.Context, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	due, err := r.schedules.DueSchedules(ctx, r.lastRun, now)
	if err != nil {
		r.log.Error().Err(err).Msg("❌ Failed to load due schedules")
		return 0
	}
	r.lastRun = now

	dispatched := 0
	for _, run := range due {
		if err := r.dispatch(ctx, run); err != nil {
			r.log.Warn().Err(err).Int64("schedule_id", run.Schedule.ID).Msg("⚠️  Dispatch failed")
			continue
		}
		if err := r.schedules.MarkRun(ctx, run.Schedule.ID, run.RunAt); err != nil {
			r.log.Warn().Err(err).Int64("schedule_id", run.Schedule.ID).Msg("⚠️  Failed to record run")
			continue
		}
		dispatched++
	}

	if dispatched > 0 {
		r.log.Info().Int("count", dispatched).Msg("✅ Scheduled reports dispatched")
	}
	return dispatched
}
