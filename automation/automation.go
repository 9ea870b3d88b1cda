//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

// Package automation decides when lifecycle notifications fire: a
// welcome on registration, a profile-completion reminder after 24
// hours, a first-mission reminder after 48 hours, and a weekly summary
// per child re-armed every 7 days.
//
// One-shot flags are monotonic and transition only after the sender
// reports success; a failed send leaves the notification eligible for
// the next check. Automation state is held in process memory only.
package automation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/futurxplore/learnstate/email"
	"github.com/futurxplore/learnstate/internal/clock"
	"github.com/futurxplore/learnstate/log"
	"github.com/futurxplore/learnstate/session"
	"github.com/futurxplore/learnstate/telemetry/metric"
)

// Lifecycle thresholds.
const (
	ProfileReminderAfter  = 24 * time.Hour
	FirstMissionAfter     = 48 * time.Hour
	WeeklySummaryInterval = 7 * 24 * time.Hour
	defaultSweepWorkers   = 4
)

var (
	// ErrUserNotFound is returned for checks on unknown users.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailRequired is the error for email required.
	ErrEmailRequired = errors.New("email is required")
)

// User is a registered parent account tracked by the automation.
type User struct {
	ID            string
	Email         string
	ParentName    string
	ChildProfiles []session.ChildProfile
	CreatedAt     time.Time
	LastActivity  time.Time
}

// State holds the per-user notification flags. The three "sent" flags
// are one-shot; the weekly summary is time-windowed.
type State struct {
	WelcomeSent              bool
	ProfileReminderSent      bool
	FirstMissionReminderSent bool
	LastWeeklySummary        *time.Time
}

type record struct {
	user  User
	state State
}

// Service is the lifecycle notifier.
type Service struct {
	mu           sync.Mutex
	users        map[string]*record
	sender       email.Sender
	clock        clock.Clock
	sweepWorkers int
}

// Option configures the service.
type Option func(*Service)

// WithClock injects a clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithSweepWorkers sets the weekly-sweep worker pool size.
func WithSweepWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sweepWorkers = n
		}
	}
}

// NewService creates the automation service over the given sender.
func NewService(sender email.Sender, options ...Option) *Service {
	s := &Service{
		users:        make(map[string]*record),
		sender:       sender,
		clock:        clock.System{},
		sweepWorkers: defaultSweepWorkers,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// RegisterUser creates the user with a fresh automation state and
// fires the welcome notification synchronously. Registration succeeds
// even when the welcome send fails: the flag stays false and the
// welcome is re-attempted by CheckWelcome.
func (s *Service) RegisterUser(ctx context.Context, emailAddr, parentName string, children []session.ChildProfile) (User, error) {
	if emailAddr == "" {
		return User{}, ErrEmailRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	rec := &record{
		user: User{
			ID:            uuid.NewString(),
			Email:         emailAddr,
			ParentName:    parentName,
			ChildProfiles: children,
			CreatedAt:     now,
			LastActivity:  now,
		},
	}
	s.users[rec.user.ID] = rec

	if s.sendWelcome(ctx, rec) {
		rec.state.WelcomeSent = true
	}
	return rec.user, nil
}

// CheckWelcome re-attempts the welcome notification if it has not been
// delivered yet.
func (s *Service) CheckWelcome(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if rec.state.WelcomeSent {
		return nil
	}
	if s.sendWelcome(ctx, rec) {
		rec.state.WelcomeSent = true
	}
	return nil
}

func (s *Service) sendWelcome(ctx context.Context, rec *record) bool {
	msg, err := email.NewWelcome(rec.user.Email, rec.user.ParentName, childNames(rec.user.ChildProfiles))
	if err != nil {
		log.Errorf("automation: build welcome for %s: %v", rec.user.ID, err)
		return false
	}
	return s.send(ctx, msg, "welcome", rec.user.ID)
}

// send delivers one message, counting and logging the outcome.
func (s *Service) send(ctx context.Context, msg email.Message, kind, userID string) bool {
	if err := s.sender.Send(ctx, msg); err != nil {
		metric.NotificationsFailed.Add(ctx, 1)
		log.Errorf("automation: %s send failed for user %s: %v", kind, userID, err)
		return false
	}
	metric.NotificationsSent.Add(ctx, 1)
	return true
}

// UpdateChildProfiles replaces the user's child profiles, stamps
// activity and evaluates the profile-completion reminder condition.
func (s *Service) UpdateChildProfiles(ctx context.Context, userID string, children []session.ChildProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	rec.user.ChildProfiles = children
	rec.user.LastActivity = s.clock.Now()
	s.checkProfileReminderLocked(ctx, rec)
	return nil
}

// TrackLessonActivity stamps activity, records the child's lesson
// date, and evaluates the first-mission reminder when no lesson has
// started yet.
func (s *Service) TrackLessonActivity(ctx context.Context, userID, childID string, hasStartedLesson bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	now := s.clock.Now()
	rec.user.LastActivity = now
	for i := range rec.user.ChildProfiles {
		if rec.user.ChildProfiles[i].ID == childID {
			t := now
			rec.user.ChildProfiles[i].LastLessonAt = &t
			break
		}
	}
	if !hasStartedLesson {
		s.checkFirstMissionLocked(ctx, rec)
	}
	return nil
}

// LessonProgress carries a child's updated progress totals.
type LessonProgress struct {
	LessonsCompleted int
	Achievements     []string
	WeeklyMinutes    int
	CurrentMission   string
}

// UpdateLessonProgress updates one child's progress totals.
func (s *Service) UpdateLessonProgress(ctx context.Context, userID, childID string, progress LessonProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	rec.user.LastActivity = s.clock.Now()
	for i := range rec.user.ChildProfiles {
		child := &rec.user.ChildProfiles[i]
		if child.ID != childID {
			continue
		}
		child.LessonsDone = progress.LessonsCompleted
		child.Achievements = progress.Achievements
		child.WeeklyMinutes = progress.WeeklyMinutes
		child.Mission = progress.CurrentMission
		break
	}
	return nil
}

// GetUser returns the user and its automation state.
func (s *Service) GetUser(userID string) (User, State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return User{}, State{}, false
	}
	return cloneUser(rec.user), rec.state, true
}

// Users returns a snapshot of all registered users.
func (s *Service) Users() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]User, 0, len(s.users))
	for _, rec := range s.users {
		out = append(out, cloneUser(rec.user))
	}
	return out
}

func cloneUser(u User) User {
	copied := u
	if len(u.ChildProfiles) > 0 {
		copied.ChildProfiles = make([]session.ChildProfile, len(u.ChildProfiles))
		copy(copied.ChildProfiles, u.ChildProfiles)
	}
	return copied
}

func childNames(children []session.ChildProfile) []string {
	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.Name)
	}
	return names
}
