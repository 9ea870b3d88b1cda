//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurxplore/learnstate/internal/clock"
)

const waitFor = 2 * time.Second

func TestSweepRunsOnInterval(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	var runs atomic.Int64
	s := New(func(context.Context) { runs.Add(1) }, WithClock(fake))
	s.Start()
	defer s.Stop()

	fake.Advance(DefaultInterval)
	require.Eventually(t, func() bool {
		return runs.Load() == 1
	}, waitFor, 5*time.Millisecond)

	fake.Advance(2 * DefaultInterval)
	require.Eventually(t, func() bool {
		return runs.Load() == 3
	}, waitFor, 5*time.Millisecond)
}

func TestRestartKeepsSingleLoop(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	var runs atomic.Int64
	s := New(func(context.Context) { runs.Add(1) },
		WithClock(fake), WithInterval(time.Hour))
	s.Start()
	s.Start()
	s.Start()
	defer s.Stop()

	fake.Advance(time.Hour)
	require.Eventually(t, func() bool {
		return runs.Load() >= 1
	}, waitFor, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), runs.Load(), "only the latest loop may run the sweep")
}

func TestStopHaltsSweeps(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	var runs atomic.Int64
	s := New(func(context.Context) { runs.Add(1) }, WithClock(fake))

	s.Start()
	assert.True(t, s.Running())
	s.Stop()
	assert.False(t, s.Running())

	fake.Advance(3 * DefaultInterval)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(0), runs.Load())

	// Stop is idempotent, including without a running loop.
	s.Stop()
	s.Stop()
}

func TestTriggerNowRunsSynchronously(t *testing.T) {
	var runs atomic.Int64
	s := New(func(context.Context) { runs.Add(1) })

	s.TriggerNow(context.Background())
	assert.Equal(t, int64(1), runs.Load(), "manual trigger needs no running loop")
}

func TestSweepPanicIsContained(t *testing.T) {
	s := New(func(context.Context) { panic("boom") })
	assert.NotPanics(t, func() { s.TriggerNow(context.Background()) })
}
