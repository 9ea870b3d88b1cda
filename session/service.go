//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

package session

import (
	"context"
	"sync"

	"github.com/futurxplore/learnstate/log"
	"github.com/futurxplore/learnstate/storage"
	"github.com/futurxplore/learnstate/telemetry/metric"
)

// ExpiredHandler is notified when a session is found expired on read.
// It receives the merged session that was written into the recovery
// envelope. Handlers run synchronously after the envelope is persisted;
// the presentation layer typically redirects or prompts from here.
type ExpiredHandler func(expired *Session)

// Service owns the single active session record over a storage.Store.
//
// All operations are safe for concurrent use within one process. There
// is no cross-process coordination: two processes sharing a store are
// last-writer-wins.
type Service struct {
	mu       sync.Mutex
	store    storage.Store
	opts     ServiceOpts
	onExpire []ExpiredHandler
}

// NewService creates a session service over the given store.
func NewService(store storage.Store, options ...ServiceOpt) *Service {
	opts := defaultOptions
	for _, option := range options {
		option(&opts)
	}
	return &Service{store: store, opts: opts}
}

// OnExpired registers a handler for the session-expired boundary event.
func (s *Service) OnExpired(h ExpiredHandler) {
	if h == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = append(s.onExpire, h)
}

// Initialize creates a new session for the user with last activity =
// now and expiry = now + TTL, unconditionally replacing any prior
// session.
func (s *Service) Initialize(userID, parentName string, children []ChildProfile) error {
	if userID == "" {
		return ErrUserIDRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.clock.Now()
	sess := &Session{
		UserID:         userID,
		ParentName:     parentName,
		ChildProfiles:  children,
		LessonProgress: make(map[string]Checkpoint),
		LastActivity:   now,
		ExpiresAt:      now.Add(s.opts.ttl),
	}
	if err := storage.SetJSON(s.store, s.opts.sessionKey(), sess); err != nil {
		return err
	}
	metric.SessionsInitialized.Add(context.Background(), 1)
	log.Infof("session: initialized for user %s", userID)
	return nil
}

// Load returns the active session, or nil when none exists or the
// stored one has expired. A valid read re-stamps last activity and
// expiry (sliding expiration) before returning. An expired read runs
// expiry handling exactly once: merge pending autosave checkpoints,
// delete the session, write a recovery envelope, notify handlers.
func (s *Service) Load() *Session {
	s.mu.Lock()
	sess, expired := s.loadLocked()
	handlers := s.onExpire
	s.mu.Unlock()

	if expired != nil {
		for _, h := range handlers {
			h(expired)
		}
	}
	return sess
}

// loadLocked implements Load under s.mu. It returns the valid session
// (nil if none) and, when expiry handling ran, the merged expired
// session for handler notification.
func (s *Service) loadLocked() (valid *Session, expired *Session) {
	var sess Session
	if !storage.GetJSON(s.store, s.opts.sessionKey(), &sess) {
		return nil, nil
	}
	now := s.opts.clock.Now()
	// The expiry instant itself is already expired.
	if !now.Before(sess.ExpiresAt) {
		return nil, s.expireLocked(&sess)
	}

	sess.LastActivity = now
	sess.ExpiresAt = now.Add(s.opts.ttl)
	if err := storage.SetJSON(s.store, s.opts.sessionKey(), &sess); err != nil {
		log.Errorf("session: failed to persist refreshed session: %v", err)
	}
	return &sess, nil
}

// expireLocked merges any autosave checkpoints into the expiring
// session (autosave entries win on collision since they are more
// recent by construction), deletes the live session and writes the
// read-once recovery envelope.
func (s *Service) expireLocked(sess *Session) *Session {
	log.Infof("session: expired for user %s", sess.UserID)

	var table map[string]Checkpoint
	if storage.GetJSON(s.store, s.opts.autosaveKey(), &table) && len(table) > 0 {
		log.Info("session: preserving lesson progress from expired session")
		if sess.LessonProgress == nil {
			sess.LessonProgress = make(map[string]Checkpoint, len(table))
		}
		for lessonID, cp := range table {
			sess.LessonProgress[lessonID] = cp
		}
	}

	s.store.Delete(s.opts.sessionKey())

	envelope := RecoveryEnvelope{
		ExpiredSession: *sess,
		RecoveredAt:    s.opts.clock.Now(),
	}
	if err := storage.SetJSON(s.store, s.opts.recoveryKey(), &envelope); err != nil {
		log.Errorf("session: failed to persist recovery envelope: %v", err)
	}
	metric.SessionsExpired.Add(context.Background(), 1)
	return sess
}

// Extend re-stamps the expiry of the current session to now + TTL.
// No-op when no valid session exists.
func (s *Service) Extend() {
	if s.Load() != nil {
		log.Debug("session: extended")
	}
}

// Clear deletes the session and any pending recovery envelope.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Delete(s.opts.sessionKey())
	s.store.Delete(s.opts.recoveryKey())
	log.Info("session: cleared")
}

// IsValid reports whether a valid session exists.
func (s *Service) IsValid() bool {
	return s.Load() != nil
}

// Info returns the current identity and whole minutes remaining until
// expiry. A missing or expired session reports an empty identity and
// zero minutes.
func (s *Service) Info() Info {
	sess := s.Load()
	if sess == nil {
		return Info{}
	}
	remaining := sess.ExpiresAt.Sub(s.opts.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	return Info{
		UserID:           sess.UserID,
		MinutesRemaining: int(remaining.Minutes()),
	}
}

// UpdateProgress writes a checkpoint into the session's progress map.
// The write re-stamps activity and expiry like any other valid access.
func (s *Service) UpdateProgress(cp Checkpoint) error {
	if err := cp.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	sess, expired := s.loadLocked()
	if sess != nil {
		sess.LessonProgress[cp.LessonID] = cp
		if err := storage.SetJSON(s.store, s.opts.sessionKey(), sess); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	handlers := s.onExpire
	s.mu.Unlock()

	if expired != nil {
		for _, h := range handlers {
			h(expired)
		}
	}
	return nil
}

// RecoveryData returns the pending recovery envelope, if any. The
// envelope is consumed: a second call returns nothing.
func (s *Service) RecoveryData() (*RecoveryEnvelope, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var envelope RecoveryEnvelope
	if !storage.GetJSON(s.store, s.opts.recoveryKey(), &envelope) {
		return nil, false
	}
	s.store.Delete(s.opts.recoveryKey())
	metric.SessionsRecovered.Add(context.Background(), 1)
	return &envelope, true
}
