package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewPeriodicTrigger_Validates(t *testing.T) {
	noop := func(context.Context) error { return nil }

	_, err := NewPeriodicTrigger(nil, Job{Name: "sweep", Interval: 0, Run: noop})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewPeriodicTrigger(nil, Job{Name: "", Interval: time.Second, Run: noop})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewPeriodicTrigger(nil, Job{Name: "sweep", Interval: time.Second})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	p, err := NewPeriodicTrigger(nil, Job{Name: "sweep", Interval: time.Second, Run: noop})
	require.NoError(t, err)
	assert.NotNil(t, p.logger)
}

func TestPeriodicTrigger_RunsJobs(t *testing.T) {
	var ticks, boots atomic.Int32
	p, err := NewPeriodicTrigger(zap.NewNop(),
		Job{Name: "tick", Interval: 10 * time.Millisecond, Run: func(context.Context) error {
			ticks.Add(1)
			return nil
		}},
		Job{Name: "boot", Interval: time.Hour, RunOnStart: true, Run: func(context.Context) error {
			boots.Add(1)
			return nil
		}},
	)
	require.NoError(t, err)

	require.NoError(t, p.Start(context.Background()))
	require.NoError(t, p.Start(context.Background()))

	assert.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return boots.Load() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Stop(ctx))
	require.NoError(t, p.Stop(ctx))

	after := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, ticks.Load())
	assert.Equal(t, int32(1), boots.Load())
}

func TestPeriodicTrigger_FailuresAreLoggedAndRetried(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	var calls atomic.Int32
	p, err := NewPeriodicTrigger(zap.New(core), Job{
		Name:     "flaky",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context) error {
			if calls.Add(1) == 1 {
				panic("boom")
			}
			return errors.New("disk full")
		},
	})
	require.NoError(t, err)

	require.NoError(t, p.Start(context.Background()))
	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, p.Stop(context.Background()))

	assert.Equal(t, 1, logs.FilterMessage("Periodic job panicked").Len())
	assert.GreaterOrEqual(t, logs.FilterMessage("Periodic job failed").Len(), 1)
}
