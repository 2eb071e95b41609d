package jobs

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CooldownPruner forgets notification cooldowns that have expired.
type CooldownPruner interface {
	PruneCooldowns() int
}

type CooldownPruneJob struct {
	pruner CooldownPruner
	cron   *cron.Cron
	logger *logrus.Entry
}

func NewCooldownPruneJob(pruner CooldownPruner, logger *logrus.Entry) *CooldownPruneJob {
	return &CooldownPruneJob{
		pruner: pruner,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.WithField("component", "cooldown_prune_job"),
	}
}

func (j *CooldownPruneJob) Run() int {
	n := j.pruner.PruneCooldowns()
	if n > 0 {
		j.logger.WithField("entries", n).Debug("Pruned notification cooldowns")
	}
	return n
}

func (j *CooldownPruneJob) Start() error {
	if _, err := j.cron.AddFunc("30 */5 * * * *", func() { j.Run() }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Cooldown prune job started")
	return nil
}

func (j *CooldownPruneJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Cooldown prune job stopped")
}
