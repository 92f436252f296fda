// Package scheduler provides unified scheduled-job management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"calmora/internal/shared/biztime"
	"calmora/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// Manager manages all scheduled jobs with a single gocron instance.
type Manager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewManager creates a Manager. Cron expressions evaluate in the
// business timezone.
func NewManager(log logger.Interface) (*Manager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterSubscriptionJobs registers subscription maintenance jobs:
//   - mark active subscriptions past their end date as expired and
//     rewrite the affected users' entitlement snapshots
//   - charge and extend auto-renewing subscriptions that are due
func (m *Manager) RegisterSubscriptionJobs(
	expireJob BatchJob,
	autoRenewJob BatchJob,
	interval time.Duration,
) error {
	if interval <= 0 {
		interval = time.Hour
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.processSubscriptionTasks(ctx, expireJob, autoRenewJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("subscription", "expire", "auto-renew"),
		gocron.WithName("subscription-maintenance"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered subscription jobs", "interval", interval)
	return nil
}

func (m *Manager) processSubscriptionTasks(
	ctx context.Context,
	expireJob BatchJob,
	autoRenewJob BatchJob,
) {
	m.logger.Debugw("subscription maintenance started")

	startTime := biztime.NowUTC()

	// Renewal runs first so a subscription due today is extended rather
	// than expired by the same pass.
	if autoRenewJob != nil {
		renewedCount, err := autoRenewJob.Execute(ctx)
		if err != nil {
			m.logger.Errorw("failed to process auto-renewals",
				"error", err,
				"duration", time.Since(startTime),
			)
		} else if renewedCount > 0 {
			m.logger.Infow("subscriptions auto-renewed",
				"count", renewedCount,
				"duration", time.Since(startTime),
			)
		}
	}

	expiredCount, err := expireJob.Execute(ctx)
	if err != nil {
		m.logger.Errorw("failed to process expired subscriptions",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if expiredCount > 0 {
		m.logger.Infow("expired subscriptions processed",
			"count", expiredCount,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("no expired subscriptions to process",
			"duration", time.Since(startTime),
		)
	}
}

// RegisterSessionSweepJobs registers the abandoned listening session sweep.
// Sessions left open past the abandonment threshold are force-closed so
// listening statistics stay meaningful.
func (m *Manager) RegisterSessionSweepJobs(sweepJob BatchJob, interval time.Duration) error {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			m.processSessionSweep(ctx, sweepJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("listening", "session-sweep"),
		gocron.WithName("session-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered session sweep job", "interval", interval)
	return nil
}

func (m *Manager) processSessionSweep(ctx context.Context, sweepJob BatchJob) {
	m.logger.Debugw("abandoned session sweep started")

	startTime := biztime.NowUTC()

	sweptCount, err := sweepJob.Execute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("failed to sweep abandoned sessions",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if sweptCount > 0 {
		m.logger.Infow("abandoned sessions closed",
			"count", sweptCount,
			"duration", time.Since(startTime),
		)
	}
}

// RegisterReminderJobs registers the renewal reminder job. It runs at
// 09:00 business timezone every day and notifies users whose
// subscriptions expire within the reminder window.
func (m *Manager) RegisterReminderJobs(reminderJob BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob("0 9 * * *", false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.processReminders(ctx, reminderJob)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("notification", "renewal-reminder"),
		gocron.WithName("renewal-reminder"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered reminder jobs", "schedule", "09:00 daily")
	return nil
}

func (m *Manager) processReminders(ctx context.Context, reminderJob BatchJob) {
	m.logger.Debugw("renewal reminder run started")

	sentCount, err := reminderJob.Execute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("failed to send renewal reminders", "error", err)
		return
	}

	if sentCount > 0 {
		m.logger.Infow("renewal reminders sent", "count", sentCount)
	}
}

// Start starts the scheduler and all registered jobs.
func (m *Manager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (m *Manager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler stopped")
	return nil
}

// IsStarted reports whether the scheduler is running.
func (m *Manager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *Manager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
