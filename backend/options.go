// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package backend

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Option alters the behavior of a job created by Resource.Run or
// Resource.NewJob. See the descriptions of functions returning instances
// of this type for implemented options.
type Option func(*Config) error

// Config is the resolved job configuration with the options applied.
type Config struct {
	Shots        int
	Memory       bool
	PollPeriod   time.Duration
	Timeout      time.Duration
	Label        string
	ProgressFunc ProgressFunc
}

// ProgressFunc receives coarse progress while Result waits for a job: the
// number of circuits the provider reports finished, and the batch size. It
// is invoked once per poll from the waiting goroutine; it must be fast and
// must not call back into the job.
type ProgressFunc func(finished, total int)

// NewConfig returns a default Config with the given options applied:
// 100 shots, no memory, a 1s poll period, no timeout and a fresh UUID
// label.
func NewConfig(opts ...Option) (Config, error) {
	cfg := Config{
		Shots:      100,
		PollPeriod: time.Second,
		Label:      uuid.NewString(),
	}
	for _, option := range opts {
		if err := option(&cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// WithShots sets how many times each circuit of the job runs.
func WithShots(shots int) Option {
	return func(cfg *Config) error {
		if shots <= 0 {
			return fmt.Errorf("shots must be positive, got %d", shots)
		}
		cfg.Shots = shots
		return nil
	}
}

// WithMemory requests per-shot memory bitstrings in addition to the counts
// histogram.
func WithMemory() Option {
	return func(cfg *Config) error {
		cfg.Memory = true
		return nil
	}
}

// WithPollPeriod sets the sleep between status polls while waiting for a
// result.
func WithPollPeriod(period time.Duration) Option {
	return func(cfg *Config) error {
		if period <= 0 {
			return fmt.Errorf("poll period must be positive, got %s", period)
		}
		cfg.PollPeriod = period
		return nil
	}
}

// WithTimeout bounds the wall-clock time Result waits for a terminal
// state, measured from the start of the wait. Zero waits forever.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *Config) error {
		if timeout < 0 {
			return fmt.Errorf("timeout must not be negative, got %s", timeout)
		}
		cfg.Timeout = timeout
		return nil
	}
}

// WithLabel sets the human-readable label attached to the submission.
func WithLabel(label string) Option {
	return func(cfg *Config) error {
		if label == "" {
			return fmt.Errorf("label must not be empty")
		}
		cfg.Label = label
		return nil
	}
}

// WithProgressFunc registers a progress callback invoked between polls
// while Result waits. Presentation only; the wait loop does not depend on
// it.
func WithProgressFunc(fn ProgressFunc) Option {
	return func(cfg *Config) error {
		cfg.ProgressFunc = fn
		return nil
	}
}
