//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

// Package audit provides the append-only log of compliance and
// security relevant account actions.
package audit

import (
	"time"
)

// Severity classifies an audit entry.
type Severity string

// Severity levels.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// rank orders severities for minimum-severity queries.
func (s Severity) rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	default:
		return -1
	}
}

// Tracked business actions.
const (
	// Account management
	ActionAccountCreated  = "account_created"
	ActionAccountDeleted  = "account_deleted"
	ActionPasswordChanged = "password_changed"
	ActionEmailUpdated    = "email_updated"

	// Child profile management
	ActionChildProfileCreated = "child_profile_created"
	ActionChildProfileUpdated = "child_profile_updated"
	ActionChildProfileDeleted = "child_profile_deleted"

	// Subscription management
	ActionSubscriptionStarted   = "subscription_started"
	ActionSubscriptionCancelled = "subscription_cancelled"
	ActionSubscriptionChanged   = "subscription_changed"

	// Data management
	ActionDataExported     = "data_exported"
	ActionDataDeleted      = "data_deleted"
	ActionConsentGiven     = "consent_given"
	ActionConsentWithdrawn = "consent_withdrawn"

	// Security events
	ActionLoginSuccess       = "login_success"
	ActionLoginFailed        = "login_failed"
	ActionLogout             = "logout"
	ActionSuspiciousActivity = "suspicious_activity"

	// Learning progress
	ActionLessonCompleted = "lesson_completed"
	ActionBadgeEarned     = "badge_earned"
)

// Entry is one immutable audit record.
type Entry struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Action    string         `json:"action"`
	Resource  string         `json:"resource"`
	Details   map[string]any `json:"details"`
	IPAddress string         `json:"ipAddress,omitempty"`
	UserAgent string         `json:"userAgent,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Severity  Severity       `json:"severity"`
}

// Event is the caller-supplied part of an audit entry. Severity
// defaults to medium when empty.
type Event struct {
	Action   string
	Resource string
	Details  map[string]any
	Severity Severity
}

// Export is the compliance/data-portability bundle produced by
// Logger.Export.
type Export struct {
	ExportedAt time.Time `json:"exportedAt"`
	Total      int       `json:"totalLogs"`
	Entries    []Entry   `json:"logs"`
}
