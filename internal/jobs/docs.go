// Package jobs provides scheduled background tasks for the dispatcher.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// (seconds-resolution schedules).
//
// # Available Jobs
//
//  1. RedispatchJob - re-offers ready orders that still have no partner
//     (REDISPATCH_SCHEDULE, every 30 seconds by default)
//  2. FeedSweepJob - drops broadcaster feeds of finished or abandoned orders
//     older than FEED_RETENTION, once a minute
//  3. CooldownPruneJob - forgets expired notification cooldowns every five minutes
//
// # Usage
//
//	jobManager := jobs.NewJobManager(cfg, coordinator, broadcaster, notifier, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed round is logged and retried on the next tick. Jobs never cancel
// orders; a ready order waits until a partner accepts it.
package jobs
