//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

// Package session provides the core session lifecycle functionality:
// one active session per store, sliding expiration, and merge-on-expiry
// recovery of in-flight lesson progress.
package session

import (
	"errors"
	"time"
)

var (
	// ErrUserIDRequired is the error for user id required.
	ErrUserIDRequired = errors.New("userID is required")
	// ErrLessonIDRequired is the error for lesson id required.
	ErrLessonIDRequired = errors.New("lessonID is required")
	// ErrMasteryBelowThreshold is returned when a checkpoint is marked
	// complete with a mastery score below the threshold.
	ErrMasteryBelowThreshold = errors.New("completed checkpoint requires mastery score at or above threshold")
)

const (
	// DefaultTTL is the sliding session duration.
	DefaultTTL = 24 * time.Hour
	// MasteryThreshold is the minimum mastery score (out of 100)
	// required to mark a lesson complete.
	MasteryThreshold = 80
)

// ChildProfile is the per-child summary embedded in a session.
type ChildProfile struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Age           int        `json:"age"`
	LearningLevel string     `json:"learningLevel"`
	LessonsDone   int        `json:"lessonsCompleted"`
	Achievements  []string   `json:"achievements,omitempty"`
	WeeklyMinutes int        `json:"weeklyMinutes"`
	Mission       string     `json:"currentMission,omitempty"`
	LastLessonAt  *time.Time `json:"lastLessonDate,omitempty"`
}

// RequiresParentalConsent reports whether a child of the given age
// falls under the COPPA verifiable-consent requirement.
func RequiresParentalConsent(age int) bool {
	return age < 13
}

// Checkpoint is a serializable snapshot of a lesson's in-progress
// state. Checkpoints are written by the autosave engine and referenced
// by the session's progress map during expiry handling.
type Checkpoint struct {
	LessonID       string    `json:"lessonId"`
	CurrentStep    int       `json:"currentStep"`
	QuizActive     bool      `json:"quizActive"`
	SelectedAnswer *int      `json:"selectedAnswer,omitempty"`
	Attempts       int       `json:"attempts"`
	MasteryScore   int       `json:"masteryScore"` // 0-100, meaningful once Attempts > 0
	Complete       bool      `json:"isComplete"`
	Timestamp      time.Time `json:"timestamp"`
	WeeklyMinutes  int       `json:"weeklyMinutes"`
}

// Validate checks checkpoint invariants.
func (c *Checkpoint) Validate() error {
	if c.LessonID == "" {
		return ErrLessonIDRequired
	}
	if c.Complete && c.MasteryScore < MasteryThreshold {
		return ErrMasteryBelowThreshold
	}
	return nil
}

// MeetsMastery reports whether the checkpoint's score clears the
// completion threshold. The score is only meaningful once at least one
// quiz attempt exists.
func (c *Checkpoint) MeetsMastery() bool {
	return c.Attempts > 0 && c.MasteryScore >= MasteryThreshold
}

// Session is the single active session record.
type Session struct {
	UserID         string                `json:"userId"`
	ParentName     string                `json:"parentName"`
	ChildProfiles  []ChildProfile        `json:"childProfiles"`
	LessonProgress map[string]Checkpoint `json:"lessonProgress"`
	LastActivity   time.Time             `json:"lastActivity"`
	ExpiresAt      time.Time             `json:"expiresAt"`
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	copied := &Session{
		UserID:         s.UserID,
		ParentName:     s.ParentName,
		LastActivity:   s.LastActivity,
		ExpiresAt:      s.ExpiresAt,
		LessonProgress: make(map[string]Checkpoint, len(s.LessonProgress)),
	}
	if len(s.ChildProfiles) > 0 {
		copied.ChildProfiles = make([]ChildProfile, len(s.ChildProfiles))
		copy(copied.ChildProfiles, s.ChildProfiles)
	}
	for id, cp := range s.LessonProgress {
		copied.LessonProgress[id] = cp
	}
	return copied
}

// RecoveryEnvelope is the read-once record written when a session is
// found expired: the expired session merged with any pending autosave
// checkpoints.
type RecoveryEnvelope struct {
	ExpiredSession Session   `json:"expiredSession"`
	RecoveredAt    time.Time `json:"recoveredAt"`
}

// Info is the summary returned by Service.Info.
type Info struct {
	UserID           string // empty when no valid session exists
	MinutesRemaining int
}
