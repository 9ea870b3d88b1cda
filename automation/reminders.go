//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

package automation

import (
	"context"

	"github.com/futurxplore/learnstate/email"
	"github.com/futurxplore/learnstate/log"
)

// CheckProfileCompletionReminder fires the profile-completion reminder
// when the account is at least 24 hours old and still has no child
// profiles. One-shot: once delivered it never fires again, even if all
// profiles are later removed.
func (s *Service) CheckProfileCompletionReminder(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	s.checkProfileReminderLocked(ctx, rec)
	return nil
}

func (s *Service) checkProfileReminderLocked(ctx context.Context, rec *record) {
	if rec.state.ProfileReminderSent || len(rec.user.ChildProfiles) > 0 {
		return
	}
	if s.clock.Now().Sub(rec.user.CreatedAt) < ProfileReminderAfter {
		return
	}
	msg, err := email.NewProfileReminder(rec.user.Email, rec.user.ParentName)
	if err != nil {
		log.Errorf("automation: build profile reminder for %s: %v", rec.user.ID, err)
		return
	}
	if s.send(ctx, msg, "profile reminder", rec.user.ID) {
		rec.state.ProfileReminderSent = true
	}
}

// CheckFirstMissionReminder fires the first-mission reminder when the
// account is at least 48 hours old and no child has started a lesson
// yet. One-shot.
func (s *Service) CheckFirstMissionReminder(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	s.checkFirstMissionLocked(ctx, rec)
	return nil
}

func (s *Service) checkFirstMissionLocked(ctx context.Context, rec *record) {
	if rec.state.FirstMissionReminderSent {
		return
	}
	if s.clock.Now().Sub(rec.user.CreatedAt) < FirstMissionAfter {
		return
	}
	for _, child := range rec.user.ChildProfiles {
		if child.LastLessonAt != nil {
			return
		}
	}
	msg, err := email.NewFirstMissionReminder(rec.user.Email, rec.user.ParentName, childNames(rec.user.ChildProfiles))
	if err != nil {
		log.Errorf("automation: build first mission reminder for %s: %v", rec.user.ID, err)
		return
	}
	if s.send(ctx, msg, "first mission reminder", rec.user.ID) {
		rec.state.FirstMissionReminderSent = true
	}
}
