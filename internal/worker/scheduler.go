package worker

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// TokenPurger removes one-time tokens that can no longer be consumed.
type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// NewScheduler returns a gocron scheduler logging through zap. Jobs run one
// at a time.
func NewScheduler(logger *zap.Logger) (gocron.Scheduler, error) {
	return gocron.NewScheduler(
		gocron.WithLimitConcurrentJobs(1, gocron.LimitModeWait),
		gocron.WithLogger(newSchedulerLog(logger.Sugar())),
	)
}

// ScheduleTokenPurge registers the expired token cleanup. A non-positive
// interval leaves the scheduler untouched.
func ScheduleTokenPurge(s gocron.Scheduler, purger TokenPurger, interval time.Duration, logger *zap.Logger) error {
	if interval <= 0 || purger == nil {
		return nil
	}
	_, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(purgeTokens, purger, interval, logger),
		gocron.WithName("purge-expired-tokens"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

func purgeTokens(purger TokenPurger, timeout time.Duration, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if _, err := purger.PurgeExpiredTokens(ctx); err != nil {
		logger.Warn("token purge failed", zap.Error(err))
	}
}

type schedulerLog struct {
	logger *zap.SugaredLogger
}

func newSchedulerLog(logger *zap.SugaredLogger) gocron.Logger {
	return &schedulerLog{logger: logger}
}

func (l *schedulerLog) Debug(msg string, args ...any) { l.logger.Debugw(msg, args...) }
func (l *schedulerLog) Error(msg string, args ...any) { l.logger.Errorw(msg, args...) }
func (l *schedulerLog) Info(msg string, args ...any)  { l.logger.Infow(msg, args...) }
func (l *schedulerLog) Warn(msg string, args ...any)  { l.logger.Warnw(msg, args...) }
