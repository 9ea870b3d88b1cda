//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

// Package learnstate composes the client-state services for the
// FuturExplore learning product: session lifecycle, lesson autosave,
// audit logging, lifecycle notifications, and the sweep scheduler,
// over a configurable storage backend.
package learnstate

import (
	"context"
	"fmt"

	"github.com/futurxplore/learnstate/audit"
	"github.com/futurxplore/learnstate/automation"
	"github.com/futurxplore/learnstate/autosave"
	"github.com/futurxplore/learnstate/email"
	"github.com/futurxplore/learnstate/internal/clock"
	"github.com/futurxplore/learnstate/log"
	"github.com/futurxplore/learnstate/scheduler"
	"github.com/futurxplore/learnstate/session"
	"github.com/futurxplore/learnstate/storage"
	"github.com/futurxplore/learnstate/storage/file"
	"github.com/futurxplore/learnstate/storage/inmemory"
	"github.com/futurxplore/learnstate/storage/redis"
	"github.com/futurxplore/learnstate/storage/sqlite"
)

// App bundles the composed services. Construct with New and release
// with Close.
type App struct {
	Store      storage.Store
	Session    *session.Service
	Autosave   *autosave.Engine
	Audit      *audit.Logger
	Automation *automation.Service
	Scheduler  *scheduler.Scheduler
}

type appOptions struct {
	sender   email.Sender
	snapshot autosave.SnapshotFunc
	clock    clock.Clock
}

// AppOption customizes composition.
type AppOption func(*appOptions)

// WithSender sets the notification sender. Defaults to the logging
// stub, which records messages without delivering anything.
func WithSender(s email.Sender) AppOption {
	return func(o *appOptions) {
		if s != nil {
			o.sender = s
		}
	}
}

// WithSnapshotFunc sets the autosave capture function. By default the
// engine snapshots the lesson's checkpoint from the current session.
func WithSnapshotFunc(fn autosave.SnapshotFunc) AppOption {
	return func(o *appOptions) {
		if fn != nil {
			o.snapshot = fn
		}
	}
}

// WithAppClock injects a clock into every composed service.
func WithAppClock(c clock.Clock) AppOption {
	return func(o *appOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// New validates the configuration, opens the storage backend, and
// wires the services together. The scheduler is created but not
// started; call App.Start when sweeps should begin.
func New(cfg Config, options ...AppOption) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := appOptions{
		sender: email.NewLogSender(),
		clock:  clock.System{},
	}
	for _, option := range options {
		option(&opts)
	}

	store, err := openStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	prefix := cfg.Storage.KeyPrefix
	if prefix == "" {
		prefix = "futurxplore"
	}

	sess := session.NewService(store,
		session.WithTTL(cfg.SessionTTL),
		session.WithKeyPrefix(prefix),
		session.WithClock(opts.clock),
	)

	snapshot := opts.snapshot
	if snapshot == nil {
		snapshot = func(lessonID string) (session.Checkpoint, bool) {
			current := sess.Load()
			if current == nil {
				return session.Checkpoint{}, false
			}
			cp, ok := current.LessonProgress[lessonID]
			return cp, ok
		}
	}
	engine := autosave.NewEngine(store, snapshot,
		autosave.WithClock(opts.clock),
		autosave.WithTableKey(prefix+"_autosave"),
		autosave.WithDefaultInterval(cfg.AutosaveInterval),
	)

	auditLog := audit.NewLogger(store,
		audit.WithStorageKey(prefix+"_audit_logs"),
		audit.WithMaxEntries(cfg.AuditMaxEntries),
		audit.WithClock(opts.clock),
	)

	auto := automation.NewService(opts.sender,
		automation.WithClock(opts.clock),
		automation.WithSweepWorkers(cfg.SweepWorkers),
	)

	sched := scheduler.New(func(ctx context.Context) { runSweep(ctx, auto) },
		scheduler.WithInterval(cfg.SweepInterval),
		scheduler.WithClock(opts.clock),
	)

	return &App{
		Store:      store,
		Session:    sess,
		Autosave:   engine,
		Audit:      auditLog,
		Automation: auto,
		Scheduler:  sched,
	}, nil
}

func openStore(cfg StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return inmemory.New(), nil
	case BackendFile:
		return file.New(cfg.Path)
	case BackendSQLite:
		return sqlite.New(cfg.Path)
	case BackendRedis:
		return redis.New(cfg.RedisURL, redis.WithKeyPrefix(cfg.KeyPrefix))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// runSweep is one scheduler pass: evaluate the one-shot reminders for
// every user, then the weekly summaries.
func runSweep(ctx context.Context, auto *automation.Service) {
	for _, user := range auto.Users() {
		if err := auto.CheckWelcome(ctx, user.ID); err != nil {
			log.Errorf("sweep: welcome check for %s: %v", user.ID, err)
		}
		if err := auto.CheckProfileCompletionReminder(ctx, user.ID); err != nil {
			log.Errorf("sweep: profile reminder check for %s: %v", user.ID, err)
		}
		if err := auto.CheckFirstMissionReminder(ctx, user.ID); err != nil {
			log.Errorf("sweep: first mission check for %s: %v", user.ID, err)
		}
	}
	if err := auto.SendWeeklySummaries(ctx); err != nil {
		log.Errorf("sweep: weekly summaries: %v", err)
	}
}

// Start begins periodic sweeps.
func (a *App) Start() {
	a.Scheduler.Start()
}

// Close stops the scheduler, halts all autosave tickers, and closes
// the storage backend.
func (a *App) Close() error {
	a.Scheduler.Stop()
	if err := a.Autosave.Close(); err != nil {
		log.Errorf("close autosave engine: %v", err)
	}
	return a.Store.Close()
}
