//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

// Package scheduler drives a periodic sweep task, by default hourly.
// At most one sweep loop runs per scheduler: Start replaces any loop
// started earlier.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/futurxplore/learnstate/internal/clock"
	"github.com/futurxplore/learnstate/log"
)

// DefaultInterval is the sweep period.
const DefaultInterval = time.Hour

// Task is one sweep pass. It must tolerate being invoked again before
// a slow previous pass finished only via TriggerNow; the loop itself
// never overlaps passes.
type Task func(ctx context.Context)

type loop struct {
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func (l *loop) stop() {
	l.once.Do(func() { close(l.done) })
	l.wg.Wait()
}

// Scheduler runs a Task on a fixed interval.
type Scheduler struct {
	mu       sync.Mutex
	task     Task
	interval time.Duration
	clock    clock.Clock
	current  *loop
}

// Option configures the scheduler.
type Option func(*Scheduler)

// WithInterval overrides the sweep period.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock injects a clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// New creates a scheduler for the given task.
func New(task Task, options ...Option) *Scheduler {
	s := &Scheduler{
		task:     task,
		interval: DefaultInterval,
		clock:    clock.System{},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Start begins the sweep loop. A loop already running is stopped
// first, so repeated Start calls keep exactly one loop alive.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.stop()
	}
	l := &loop{done: make(chan struct{})}
	s.current = l

	ticker := s.clock.NewTicker(s.interval)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C():
				s.runTask()
			case <-l.done:
				return
			}
		}
	}()
	log.Debugf("scheduler: started, interval %s", s.interval)
}

// Stop halts the sweep loop. Safe to call repeatedly or without a
// prior Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	s.current.stop()
	s.current = nil
}

// Running reports whether a sweep loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// TriggerNow runs one sweep pass immediately on the caller's
// goroutine, independent of the loop's ticker.
func (s *Scheduler) TriggerNow(ctx context.Context) {
	s.runTaskCtx(ctx)
}

func (s *Scheduler) runTask() {
	s.runTaskCtx(context.Background())
}

func (s *Scheduler) runTaskCtx(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("scheduler: sweep panic: %v", r)
		}
	}()
	s.task(ctx)
}
