//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

package audit

// Convenience helpers for the common business events.

// AccountCreated records a new parent account.
func (l *Logger) AccountCreated(userID, email string) {
	l.Log(Event{
		Action:   ActionAccountCreated,
		Resource: "user_account",
		Details:  map[string]any{"email": email},
		Severity: SeverityMedium,
	}, userID)
}

// ChildProfileCreated records a new child profile.
func (l *Logger) ChildProfileCreated(userID, childName string, childAge int) {
	l.Log(Event{
		Action:   ActionChildProfileCreated,
		Resource: "child_profile",
		Details:  map[string]any{"childName": childName, "childAge": childAge},
		Severity: SeverityMedium,
	}, userID)
}

// DataExported records a data-portability export.
func (l *Logger) DataExported(userID, dataType string) {
	l.Log(Event{
		Action:   ActionDataExported,
		Resource: dataType,
		Details:  map[string]any{"dataType": dataType},
		Severity: SeverityMedium,
	}, userID)
}

// DataDeleted records a data-deletion request.
func (l *Logger) DataDeleted(userID, dataType string) {
	l.Log(Event{
		Action:   ActionDataDeleted,
		Resource: dataType,
		Details:  map[string]any{"dataType": dataType},
		Severity: SeverityHigh,
	}, userID)
}

// ConsentGiven records a verifiable parental consent grant.
func (l *Logger) ConsentGiven(userID, consentType string) {
	l.Log(Event{
		Action:   ActionConsentGiven,
		Resource: "consent",
		Details:  map[string]any{"consentType": consentType},
		Severity: SeverityHigh,
	}, userID)
}

// ConsentWithdrawn records a consent withdrawal.
func (l *Logger) ConsentWithdrawn(userID, consentType string) {
	l.Log(Event{
		Action:   ActionConsentWithdrawn,
		Resource: "consent",
		Details:  map[string]any{"consentType": consentType},
		Severity: SeverityHigh,
	}, userID)
}

// LessonCompleted records a completed lesson with its mastery score.
func (l *Logger) LessonCompleted(userID, lessonID string, masteryScore int) {
	l.Log(Event{
		Action:   ActionLessonCompleted,
		Resource: "lesson",
		Details:  map[string]any{"lessonId": lessonID, "masteryScore": masteryScore},
		Severity: SeverityLow,
	}, userID)
}
