package jobs

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds the knobs of the scheduled jobs.
type Config struct {
	RedispatchSchedule string
	FeedRetention      time.Duration
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	redispatchJob    *RedispatchJob
	feedSweepJob     *FeedSweepJob
	cooldownPruneJob *CooldownPruneJob
}

func NewJobManager(
	cfg Config,
	dispatcher Redispatcher,
	sweeper FeedSweeper,
	pruner CooldownPruner,
	logger *logrus.Entry,
) *JobManager {
	return &JobManager{
		redispatchJob:    NewRedispatchJob(dispatcher, cfg.RedispatchSchedule, logger),
		feedSweepJob:     NewFeedSweepJob(sweeper, cfg.FeedRetention, time.Now, logger),
		cooldownPruneJob: NewCooldownPruneJob(pruner, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.redispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start redispatch job: %w", err)
	}

	if err := jm.feedSweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.redispatchJob.Stop()
		return fmt.Errorf("failed to start feed sweep job: %w", err)
	}

	if err := jm.cooldownPruneJob.Start(); err != nil {
		jm.redispatchJob.Stop()
		jm.feedSweepJob.Stop()
		return fmt.Errorf("failed to start cooldown prune job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.redispatchJob.Stop()
	jm.feedSweepJob.Stop()
	jm.cooldownPruneJob.Stop()
}
