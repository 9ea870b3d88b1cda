//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelcomeMessage(t *testing.T) {
	msg, err := NewWelcome("dana@example.com", "Dana", []string{"Milo", "Ada"})
	require.NoError(t, err)

	assert.Equal(t, "dana@example.com", msg.To)
	assert.Equal(t, "Welcome to FuturExplore! 🚀", msg.Subject)
	assert.Contains(t, msg.HTML, "Hi Dana")
	assert.Contains(t, msg.HTML, "<li>Milo</li>")
	assert.Contains(t, msg.HTML, "<li>Ada</li>")
}

func TestWelcomeMessageWithoutChildren(t *testing.T) {
	msg, err := NewWelcome("dana@example.com", "Dana", nil)
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "adding your child profiles")
}

func TestProfileReminderMessage(t *testing.T) {
	msg, err := NewProfileReminder("dana@example.com", "Dana")
	require.NoError(t, err)
	assert.Equal(t, "Complete your child profiles to start the adventure! 🌟", msg.Subject)
	assert.Contains(t, msg.HTML, "Hi Dana")
}

func TestFirstMissionMessage(t *testing.T) {
	msg, err := NewFirstMissionReminder("dana@example.com", "Dana", []string{"Milo", "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ready for your first AI mission? 🚀", msg.Subject)
	assert.Contains(t, msg.HTML, "Milo, Ada")
}

func TestWeeklySummaryMessage(t *testing.T) {
	msg, err := NewWeeklySummary("dana@example.com", WeeklySummaryData{
		ParentName:       "Dana",
		ChildName:        "Milo",
		LessonsCompleted: 3,
		Achievements:     []string{"First Steps", "Quiz Whiz"},
		WeeklyMinutes:    45,
		CurrentMission:   "What is AI?",
	})
	require.NoError(t, err)

	assert.Equal(t, "Weekly Progress: Milo's AI Adventure 📊", msg.Subject)
	assert.Contains(t, msg.HTML, "Lessons completed: 3")
	assert.Contains(t, msg.HTML, "Minutes explored: 45")
	assert.Contains(t, msg.HTML, "Quiz Whiz")
	assert.Contains(t, msg.HTML, "What is AI?")
}

func TestTemplatesEscapeUserContent(t *testing.T) {
	msg, err := NewWelcome("x@example.com", `<script>alert("x")</script>`, nil)
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
}

func TestLogSenderRecords(t *testing.T) {
	s := NewLogSender()
	require.NoError(t, s.Send(context.Background(), Message{To: "a@example.com", Subject: "one"}))
	require.NoError(t, s.Send(context.Background(), Message{To: "b@example.com", Subject: "two"}))

	sent := s.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "one", sent[0].Subject)

	// Sent returns a copy; mutating it does not affect the sender.
	sent[0].Subject = "mutated"
	assert.Equal(t, "one", s.Sent()[0].Subject)
}
