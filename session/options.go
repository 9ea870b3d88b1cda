//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

package session

import (
	"time"

	"github.com/futurxplore/learnstate/internal/clock"
)

const defaultKeyPrefix = "futurxplore"

// ServiceOpts is the options for the session service.
type ServiceOpts struct {
	ttl       time.Duration
	keyPrefix string
	clock     clock.Clock
}

// ServiceOpt is the option for the session service.
type ServiceOpt func(*ServiceOpts)

var defaultOptions = ServiceOpts{
	ttl:       DefaultTTL,
	keyPrefix: defaultKeyPrefix,
	clock:     clock.System{},
}

// WithTTL sets the sliding session duration. If not set, sessions
// expire 24 hours after the last valid read.
func WithTTL(ttl time.Duration) ServiceOpt {
	return func(opts *ServiceOpts) {
		if ttl > 0 {
			opts.ttl = ttl
		}
	}
}

// WithKeyPrefix sets the prefix for all storage keys. The session,
// autosave table and recovery keys become prefix_session,
// prefix_autosave and prefix_session_recovery.
func WithKeyPrefix(prefix string) ServiceOpt {
	return func(opts *ServiceOpts) {
		if prefix != "" {
			opts.keyPrefix = prefix
		}
	}
}

// WithClock injects a clock, mainly for tests.
func WithClock(c clock.Clock) ServiceOpt {
	return func(opts *ServiceOpts) {
		if c != nil {
			opts.clock = c
		}
	}
}

func (o *ServiceOpts) sessionKey() string  { return o.keyPrefix + "_session" }
func (o *ServiceOpts) autosaveKey() string { return o.keyPrefix + "_autosave" }
func (o *ServiceOpts) recoveryKey() string { return o.keyPrefix + "_session_recovery" }
