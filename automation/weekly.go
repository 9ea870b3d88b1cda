//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

package automation

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/futurxplore/learnstate/email"
	"github.com/futurxplore/learnstate/log"
)

type weeklyParam struct {
	ctx  context.Context
	svc  *Service
	user User
	wg   *sync.WaitGroup
}

// SendWeeklySummaries sweeps all users and delivers one summary per
// child to every user who never received a summary or whose last one
// is at least 7 days old. Users are processed by a worker
// pool; per-user sends run sequentially. The window re-arms by
// stamping the send time, so failed sends are logged but not retried
// until the next window.
func (s *Service) SendWeeklySummaries(ctx context.Context) error {
	due := s.collectDue()
	if len(due) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(s.sweepWorkers, func(i interface{}) {
		p := i.(*weeklyParam)
		defer p.wg.Done()
		p.svc.sendSummariesFor(p.ctx, p.user)
	})
	if err != nil {
		return err
	}
	defer pool.Release()

	for _, user := range due {
		wg.Add(1)
		if err := pool.Invoke(&weeklyParam{ctx: ctx, svc: s, user: user, wg: &wg}); err != nil {
			wg.Done()
			log.Errorf("automation: weekly sweep submit for user %s: %v", user.ID, err)
		}
	}
	wg.Wait()
	return nil
}

// collectDue snapshots the users whose weekly window has elapsed. A
// user that never received a summary is due immediately.
func (s *Service) collectDue() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	var due []User
	for _, rec := range s.users {
		if len(rec.user.ChildProfiles) == 0 {
			continue
		}
		last := rec.state.LastWeeklySummary
		if last != nil && now.Sub(*last) < WeeklySummaryInterval {
			continue
		}
		due = append(due, cloneUser(rec.user))
	}
	return due
}

// sendSummariesFor delivers one summary per child, then stamps the
// user's weekly window.
func (s *Service) sendSummariesFor(ctx context.Context, user User) {
	for _, child := range user.ChildProfiles {
		msg, err := email.NewWeeklySummary(user.Email, email.WeeklySummaryData{
			ParentName:       user.ParentName,
			ChildName:        child.Name,
			LessonsCompleted: child.LessonsDone,
			Achievements:     child.Achievements,
			WeeklyMinutes:    child.WeeklyMinutes,
			CurrentMission:   child.Mission,
		})
		if err != nil {
			log.Errorf("automation: build weekly summary for %s/%s: %v", user.ID, child.ID, err)
			continue
		}
		s.send(ctx, msg, "weekly summary", user.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[user.ID]
	if !ok {
		return
	}
	now := s.clock.Now()
	rec.state.LastWeeklySummary = &now
}
