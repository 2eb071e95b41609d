package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultFeedRetention is how long an idle or closed order feed is kept.
const DefaultFeedRetention = 10 * time.Minute

// FeedSweeper drops broadcaster feeds untouched since before.
type FeedSweeper interface {
	Sweep(before time.Time) int
}

// FeedSweepJob releases the per-order state of delivered, cancelled and
// abandoned orders once a minute.
type FeedSweepJob struct {
	sweeper   FeedSweeper
	retention time.Duration
	now       func() time.Time
	cron      *cron.Cron
	logger    *logrus.Entry
}

func NewFeedSweepJob(sweeper FeedSweeper, retention time.Duration, now func() time.Time, logger *logrus.Entry) *FeedSweepJob {
	if retention <= 0 {
		retention = DefaultFeedRetention
	}
	if now == nil {
		now = time.Now
	}
	return &FeedSweepJob{
		sweeper:   sweeper,
		retention: retention,
		now:       now,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.WithField("component", "feed_sweep_job"),
	}
}

// Run sweeps once and returns the number of feeds dropped.
func (j *FeedSweepJob) Run() int {
	n := j.sweeper.Sweep(j.now().Add(-j.retention))
	if n > 0 {
		j.logger.WithField("feeds", n).Debug("Swept order feeds")
	}
	return n
}

func (j *FeedSweepJob) Start() error {
	if _, err := j.cron.AddFunc("0 * * * * *", func() { j.Run() }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.WithField("retention", j.retention.String()).Info("Feed sweep job started")
	return nil
}

func (j *FeedSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Feed sweep job stopped")
}
