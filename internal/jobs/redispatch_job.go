package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultRedispatchSchedule runs a matching round every 30 seconds.
const DefaultRedispatchSchedule = "*/30 * * * * *"

// Redispatcher re-offers orders that are still waiting for a partner.
type Redispatcher interface {
	RedispatchWaiting(ctx context.Context) (int, error)
}

// RedispatchJob is the scheduler that retries dispatch for ready orders
// nobody has accepted. It never cancels an order.
type RedispatchJob struct {
	dispatcher Redispatcher
	schedule   string
	timeout    time.Duration
	cron       *cron.Cron
	logger     *logrus.Entry
}

func NewRedispatchJob(dispatcher Redispatcher, schedule string, logger *logrus.Entry) *RedispatchJob {
	if schedule == "" {
		schedule = DefaultRedispatchSchedule
	}
	return &RedispatchJob{
		dispatcher: dispatcher,
		schedule:   schedule,
		timeout:    20 * time.Second,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.WithField("component", "redispatch_job"),
	}
}

// Run performs one round.
func (j *RedispatchJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	offered, err := j.dispatcher.RedispatchWaiting(ctx)
	if err != nil {
		j.logger.WithError(err).Error("Redispatch round failed")
		return
	}
	if offered > 0 {
		j.logger.WithField("offered", offered).Info("Redispatch round sent delivery opportunities")
	}
}

func (j *RedispatchJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.WithField("schedule", j.schedule).Info("Redispatch job started")
	return nil
}

// Stop waits for a running round to finish.
func (j *RedispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Redispatch job stopped")
}
