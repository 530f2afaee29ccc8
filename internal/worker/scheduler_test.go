package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingPurger struct {
	calls int
	err   error
}

func (p *countingPurger) PurgeExpiredTokens(context.Context) (int64, error) {
	p.calls++
	return 3, p.err
}

func TestScheduleTokenPurge(t *testing.T) {
	s, err := NewScheduler(zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown() })

	require.NoError(t, ScheduleTokenPurge(s, &countingPurger{}, time.Hour, zap.NewNop()))
	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "purge-expired-tokens", jobs[0].Name())
}

func TestScheduleTokenPurgeDisabled(t *testing.T) {
	s, err := NewScheduler(zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown() })

	require.NoError(t, ScheduleTokenPurge(s, &countingPurger{}, 0, zap.NewNop()))
	assert.Empty(t, s.Jobs())
}

func TestPurgeTokensSwallowsErrors(t *testing.T) {
	purger := &countingPurger{err: errors.New("db down")}
	assert.NotPanics(t, func() { purgeTokens(purger, time.Second, zap.NewNop()) })
	assert.Equal(t, 1, purger.calls)
}
