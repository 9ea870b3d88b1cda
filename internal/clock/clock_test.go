//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeNow(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f := NewFake(start)
	assert.Equal(t, start, f.Now())

	f.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), f.Now())
}

func TestFakeTickerDelivery(t *testing.T) {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)
	ticker := f.NewTicker(5 * time.Second)

	// Less than one interval: nothing delivered.
	f.Advance(4 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("unexpected tick before interval elapsed")
	default:
	}

	// Crossing the interval delivers exactly one tick.
	f.Advance(time.Second)
	select {
	case tick := <-ticker.C():
		assert.Equal(t, start.Add(5*time.Second), tick)
	default:
		t.Fatal("expected a tick at the interval boundary")
	}
}

func TestFakeTickerMultipleIntervals(t *testing.T) {
	f := NewFake(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	ticker := f.NewTicker(time.Second)

	f.Advance(3 * time.Second)

	for i := 0; i < 3; i++ {
		select {
		case <-ticker.C():
		default:
			t.Fatalf("expected tick %d to be buffered", i+1)
		}
	}
	select {
	case <-ticker.C():
		t.Fatal("expected exactly three ticks")
	default:
	}
}

func TestFakeTickerOrdering(t *testing.T) {
	f := NewFake(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	fast := f.NewTicker(time.Second)
	slow := f.NewTicker(3 * time.Second)

	f.Advance(3 * time.Second)

	require.Len(t, drain(fast), 3)
	slowTicks := drain(slow)
	require.Len(t, slowTicks, 1)
	assert.Equal(t, f.Now(), slowTicks[0])
}

func TestFakeTickerStop(t *testing.T) {
	f := NewFake(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	ticker := f.NewTicker(time.Second)
	ticker.Stop()

	f.Advance(10 * time.Second)
	assert.Empty(t, drain(ticker))
}

func drain(t Ticker) []time.Time {
	var out []time.Time
	for {
		select {
		case tick := <-t.C():
			out = append(out, tick)
		default:
			return out
		}
	}
}
