//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

// Package email defines the outbound email collaborator used by the
// lifecycle automation. Delivery is an external concern: production
// deployments plug in a provider-backed Sender, while the bundled
// LogSender only records what would have been sent.
package email

import (
	"context"
	"sync"

	"github.com/futurxplore/learnstate/log"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers messages. A nil error means the attempt completed;
// callers do not retry.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender is the default stub Sender: it logs each message and keeps
// it for inspection. It never fails.
type LogSender struct {
	mu   sync.Mutex
	sent []Message
}

var _ Sender = (*LogSender)(nil)

// NewLogSender creates an empty LogSender.
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send records the message.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	log.Infof("email: to=%s subject=%q", msg.To, msg.Subject)
	return nil
}

// Sent returns a copy of everything sent so far.
func (s *LogSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}
