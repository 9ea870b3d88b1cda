//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

// Package autosave provides the periodic lesson-checkpoint engine.
//
// The engine is deliberately decoupled from the session record so that
// lesson progress survives session expiry; the session service merges
// the autosave table back in during expiry handling.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/futurxplore/learnstate/internal/clock"
	"github.com/futurxplore/learnstate/log"
	"github.com/futurxplore/learnstate/session"
	"github.com/futurxplore/learnstate/storage"
	"github.com/futurxplore/learnstate/telemetry/metric"
)

const (
	// DefaultInterval is the autosave tick interval.
	DefaultInterval = 5 * time.Second
	// DefaultMaxRetries is the number of persist attempts per tick.
	DefaultMaxRetries = 3
	// DefaultTableKey is the storage key of the autosave table.
	DefaultTableKey = "futurxplore_autosave"
)

// SnapshotFunc captures the current checkpoint for a lesson. Returning
// false means the lesson state is not observable right now (e.g. the
// lesson view is not mounted); the tick is skipped, not an error.
type SnapshotFunc func(lessonID string) (session.Checkpoint, bool)

// Config tunes autosave for one lesson. The autosave table key is an
// engine-level setting (WithTableKey), not per lesson: recovery and
// the session expiry merge read one shared table.
type Config struct {
	Interval   time.Duration // tick interval, defaults to the engine's interval
	MaxRetries int           // persist attempts per tick, default 3
}

func (c Config) withDefaults(interval time.Duration) Config {
	if c.Interval <= 0 {
		c.Interval = interval
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	return c
}

type lessonTimer struct {
	ticker clock.Ticker
	done   chan struct{}
}

// Engine runs at most one autosave timer per lesson id.
type Engine struct {
	mu       sync.Mutex
	store    storage.Store
	clock    clock.Clock
	snapshot SnapshotFunc
	tableKey string
	interval time.Duration
	timers   map[string]*lessonTimer
	wg       sync.WaitGroup
	closed   bool
}

// Option configures the engine.
type Option func(*Engine)

// WithClock injects a clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithTableKey overrides the storage key of the autosave table.
func WithTableKey(key string) Option {
	return func(e *Engine) {
		if key != "" {
			e.tableKey = key
		}
	}
}

// WithDefaultInterval sets the tick interval used when a lesson's
// Config leaves Interval unset.
func WithDefaultInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// NewEngine creates an autosave engine. snapshot supplies the current
// lesson state on each tick.
func NewEngine(store storage.Store, snapshot SnapshotFunc, options ...Option) *Engine {
	e := &Engine{
		store:    store,
		clock:    clock.System{},
		snapshot: snapshot,
		tableKey: DefaultTableKey,
		interval: DefaultInterval,
		timers:   make(map[string]*lessonTimer),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Start begins autosaving the given lesson. Any existing timer for the
// same lesson id is cancelled first, so Start is idempotent with
// respect to the number of active timers.
func (e *Engine) Start(lessonID string, cfg Config) error {
	if lessonID == "" {
		return session.ErrLessonIDRequired
	}
	cfg = cfg.withDefaults(e.interval)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.stopLocked(lessonID)

	timer := &lessonTimer{
		ticker: e.clock.NewTicker(cfg.Interval),
		done:   make(chan struct{}),
	}
	e.timers[lessonID] = timer

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for {
			select {
			case <-timer.ticker.C():
				e.tick(lessonID, cfg)
			case <-timer.done:
				return
			}
		}
	}()

	log.Infof("autosave: started for lesson %s", lessonID)
	return nil
}

// Stop cancels the timer for the lesson id. Stopping an unknown lesson
// is a no-op.
func (e *Engine) Stop(lessonID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopLocked(lessonID) {
		log.Infof("autosave: stopped for lesson %s", lessonID)
	}
}

func (e *Engine) stopLocked(lessonID string) bool {
	timer, ok := e.timers[lessonID]
	if !ok {
		return false
	}
	// Stop the ticker here, not in the goroutine, so no further tick
	// can be delivered once the timer is considered gone.
	timer.ticker.Stop()
	close(timer.done)
	delete(e.timers, lessonID)
	return true
}

// tick captures a checkpoint and merges it into the autosave table. A
// snapshot that cannot be captured is skipped. Persist failures are
// retried immediately up to cfg.MaxRetries attempts; the store is
// synchronous and local, so there is nothing to gain from backoff.
func (e *Engine) tick(lessonID string, cfg Config) {
	cp, ok := e.snapshot(lessonID)
	if !ok {
		return
	}
	cp.LessonID = lessonID
	cp.Timestamp = e.clock.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	table := make(map[string]session.Checkpoint)
	storage.GetJSON(e.store, e.tableKey, &table)
	table[lessonID] = cp

	var err error
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		if err = storage.SetJSON(e.store, e.tableKey, table); err == nil {
			metric.AutosaveTicks.Add(context.Background(), 1)
			log.Debugf("autosave: saved checkpoint for lesson %s", lessonID)
			return
		}
	}
	metric.AutosavePersistFailures.Add(context.Background(), 1)
	log.Errorf("autosave: failed to save lesson %s after %d attempts: %v", lessonID, cfg.MaxRetries, err)
}

// Recover returns the saved checkpoint for the lesson id, if any.
func (e *Engine) Recover(lessonID string) (session.Checkpoint, bool) {
	table := e.LoadAll()
	cp, ok := table[lessonID]
	return cp, ok
}

// Clear removes the entry for the lesson id from the autosave table,
// typically after the lesson is marked complete.
func (e *Engine) Clear(lessonID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	table := make(map[string]session.Checkpoint)
	if !storage.GetJSON(e.store, e.tableKey, &table) {
		return
	}
	if _, ok := table[lessonID]; !ok {
		return
	}
	delete(table, lessonID)
	if err := storage.SetJSON(e.store, e.tableKey, table); err != nil {
		log.Errorf("autosave: failed to persist clear of lesson %s: %v", lessonID, err)
	}
	log.Infof("autosave: cleared for completed lesson %s", lessonID)
}

// LoadAll returns the whole autosave table.
func (e *Engine) LoadAll() map[string]session.Checkpoint {
	table := make(map[string]session.Checkpoint)
	storage.GetJSON(e.store, e.tableKey, &table)
	return table
}

// Close stops every timer and waits for in-flight ticks to finish.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	for lessonID := range e.timers {
		e.stopLocked(lessonID)
	}
	e.mu.Unlock()

	e.wg.Wait()
	log.Info("autosave: engine closed")
	return nil
}
