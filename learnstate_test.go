//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

package learnstate

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurxplore/learnstate/autosave"
	"github.com/futurxplore/learnstate/internal/clock"
	"github.com/futurxplore/learnstate/session"
)

func TestNewComposesServices(t *testing.T) {
	app, err := New(DefaultConfig())
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.Store)
	require.NotNil(t, app.Session)
	require.NotNil(t, app.Autosave)
	require.NotNil(t, app.Audit)
	require.NotNil(t, app.Automation)
	require.NotNil(t, app.Scheduler)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = "etcd"
	_, err := New(cfg)
	require.Error(t, err)
}

func TestNewWithFileBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = BackendFile
	cfg.Storage.Path = filepath.Join(t.TempDir(), "state.json")

	app, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, app.Session.Initialize("u1", "Dana", nil))
	require.NoError(t, app.Close())

	// State survives a full recompose.
	reopened, err := New(cfg)
	require.NoError(t, err)
	defer reopened.Close()
	assert.True(t, reopened.Session.IsValid())
}

func TestDefaultSnapshotReadsSessionProgress(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	app, err := New(DefaultConfig(), WithAppClock(fake))
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.Session.Initialize("u1", "Dana", nil))
	require.NoError(t, app.Session.UpdateProgress(session.Checkpoint{
		LessonID:    "lesson-1",
		CurrentStep: 3,
	}))

	require.NoError(t, app.Autosave.Start("lesson-1", autosave.Config{}))

	fake.Advance(DefaultConfig().AutosaveInterval)
	require.Eventually(t, func() bool {
		cp, ok := app.Autosave.Recover("lesson-1")
		return ok && cp.CurrentStep == 3
	}, 2*time.Second, 5*time.Millisecond)
}

func TestAutosaveIntervalFromConfig(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	cfg := DefaultConfig()
	cfg.AutosaveInterval = 30 * time.Second

	app, err := New(cfg, WithAppClock(fake))
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.Session.Initialize("u1", "Dana", nil))
	require.NoError(t, app.Session.UpdateProgress(session.Checkpoint{
		LessonID:    "lesson-1",
		CurrentStep: 2,
	}))
	require.NoError(t, app.Autosave.Start("lesson-1", autosave.Config{}))

	// The stock 5s cadence passes without a tick.
	fake.Advance(autosave.DefaultInterval)
	time.Sleep(50 * time.Millisecond)
	_, ok := app.Autosave.Recover("lesson-1")
	assert.False(t, ok)

	fake.Advance(25 * time.Second)
	require.Eventually(t, func() bool {
		_, ok := app.Autosave.Recover("lesson-1")
		return ok
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSweepDrivesAutomation(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	app, err := New(DefaultConfig(), WithAppClock(fake))
	require.NoError(t, err)
	defer app.Close()

	user, err := app.Automation.RegisterUser(context.Background(), "dana@example.com", "Dana", nil)
	require.NoError(t, err)

	// A day later the hourly sweep fires the profile reminder.
	fake.Advance(25 * time.Hour)
	app.Scheduler.TriggerNow(context.Background())

	_, state, ok := app.Automation.GetUser(user.ID)
	require.True(t, ok)
	assert.True(t, state.ProfileReminderSent)
}
