//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

// Package redis provides a redis-backed store implementation.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/futurxplore/learnstate/log"
	"github.com/futurxplore/learnstate/storage"
)

var _ storage.Store = (*Store)(nil)

const defaultTimeout = 2 * time.Second

// Store reads and writes plain string keys on a redis instance. Keys
// are namespaced with an optional prefix so multiple applications can
// share one instance.
type Store struct {
	client    *redis.Client
	keyPrefix string
	timeout   time.Duration
}

// Option configures the store.
type Option func(*Store)

// WithKeyPrefix prefixes all keys with prefix followed by a colon.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		s.keyPrefix = prefix
	}
}

// WithTimeout sets the per-operation timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a store from a redis URL, e.g. redis://localhost:6379/0.
func New(url string, opts ...Option) (*Store, error) {
	if url == "" {
		return nil, errors.New("redis url is required")
	}
	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	s := &Store{
		client:  redis.NewClient(redisOpts),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) key(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + ":" + key
}

// Get returns the value for key. Network faults are logged and report
// a miss.
func (s *Store) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("redis store: get %s: %v", key, err)
		}
		return "", false
	}
	return value, true
}

// Set writes the value for key without expiry; session-level expiry is
// handled above the store.
func (s *Store) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		log.Errorf("redis store: set %s: %v", key, err)
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		log.Errorf("redis store: delete %s: %v", key, err)
	}
}

// Close closes the client connection.
func (s *Store) Close() error {
	return s.client.Close()
}
