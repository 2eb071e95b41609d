package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"dispatch/internal/jobs"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type redispatcherMock struct {
	mock.Mock
}

func (m *redispatcherMock) RedispatchWaiting(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type sweeperFunc func(before time.Time) int

func (f sweeperFunc) Sweep(before time.Time) int { return f(before) }

type prunerFunc func() int

func (f prunerFunc) PruneCooldowns() int { return f() }

func newLogger() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(logger), hook
}

func TestRedispatchJobRun(t *testing.T) {
	log, hook := newLogger()
	d := new(redispatcherMock)
	d.On("RedispatchWaiting", mock.Anything).Return(2, nil).Once()
	d.On("RedispatchWaiting", mock.Anything).Return(0, errors.New("store unavailable")).Once()

	job := jobs.NewRedispatchJob(d, "", log)

	job.Run(t.Context())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, 2, hook.LastEntry().Data["offered"])

	job.Run(t.Context())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "redispatch_job", hook.LastEntry().Data["component"])

	d.AssertExpectations(t)
}

func TestRedispatchJobRunsOnSchedule(t *testing.T) {
	log, _ := newLogger()
	var calls atomic.Int32
	d := new(redispatcherMock)
	d.On("RedispatchWaiting", mock.Anything).Run(func(mock.Arguments) { calls.Add(1) }).Return(0, nil)

	job := jobs.NewRedispatchJob(d, "* * * * * *", log)
	require.NoError(t, job.Start())
	defer job.Stop()

	assert.Eventually(t, func() bool { return calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestRedispatchJobRejectsBadSchedule(t *testing.T) {
	log, _ := newLogger()
	job := jobs.NewRedispatchJob(new(redispatcherMock), "every minute", log)
	assert.Error(t, job.Start())
}

func TestFeedSweepJobUsesRetention(t *testing.T) {
	log, _ := newLogger()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var got time.Time
	sweeper := sweeperFunc(func(before time.Time) int {
		got = before
		return 3
	})

	job := jobs.NewFeedSweepJob(sweeper, 5*time.Minute, func() time.Time { return now }, log)
	assert.Equal(t, 3, job.Run())
	assert.Equal(t, now.Add(-5*time.Minute), got)

	job = jobs.NewFeedSweepJob(sweeper, 0, func() time.Time { return now }, log)
	job.Run()
	assert.Equal(t, now.Add(-jobs.DefaultFeedRetention), got)
}

func TestCooldownPruneJobRun(t *testing.T) {
	log, hook := newLogger()
	job := jobs.NewCooldownPruneJob(prunerFunc(func() int { return 4 }), log)

	assert.Equal(t, 4, job.Run())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, 4, hook.LastEntry().Data["entries"])
}

func TestJobManagerStartStop(t *testing.T) {
	log, _ := newLogger()
	d := new(redispatcherMock)
	d.On("RedispatchWaiting", mock.Anything).Return(0, nil).Maybe()

	jm := jobs.NewJobManager(
		jobs.Config{RedispatchSchedule: "0 0 * * * *", FeedRetention: time.Minute},
		d,
		sweeperFunc(func(time.Time) int { return 0 }),
		prunerFunc(func() int { return 0 }),
		log,
	)
	require.NoError(t, jm.StartAll())
	jm.StopAll()
}

func TestJobManagerFailsOnBadSchedule(t *testing.T) {
	log, _ := newLogger()
	jm := jobs.NewJobManager(
		jobs.Config{RedispatchSchedule: "not a schedule"},
		new(redispatcherMock),
		sweeperFunc(func(time.Time) int { return 0 }),
		prunerFunc(func() int { return 0 }),
		log,
	)
	assert.Error(t, jm.StartAll())
}
