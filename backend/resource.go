// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package backend

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/iontide/iontide-go/circuit"
	"github.com/iontide/iontide-go/result"
)

// Resource is one machine or simulator of an IonTide workspace, bound to
// the gateway that reaches it.
type Resource struct {
	gw        Gateway
	Workspace string
	ID        string
	Name      string
}

// NewResource binds a resource identifier within a workspace to a gateway.
func NewResource(gw Gateway, workspace, id string) *Resource {
	return &Resource{gw: gw, Workspace: workspace, ID: id, Name: id}
}

// NewJob assembles a job for the given circuits without submitting it.
// Option validation happens here; circuit conversion is deferred to
// Submit.
func (r *Resource) NewJob(circuits []*circuit.Circuit, opts ...Option) (*Job, error) {
	if len(circuits) == 0 {
		return nil, errors.New("a job needs at least one circuit")
	}
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	cs := make([]*circuit.Circuit, len(circuits))
	copy(cs, circuits)
	return &Job{
		gw:        r.gw,
		workspace: r.Workspace,
		resource:  r.ID,
		circuits:  cs,
		cfg:       cfg,
	}, nil
}

// Run submits the circuits as one batch and returns the tracking job.
// This is the entry point of the SDK: follow with job.Result to block for
// the outcome.
func (r *Resource) Run(ctx context.Context, circuits []*circuit.Circuit, opts ...Option) (*Job, error) {
	job, err := r.NewJob(circuits, opts...)
	if err != nil {
		return nil, err
	}
	if err := job.Submit(ctx); err != nil {
		return nil, err
	}
	return job, nil
}

// WaitAll drives Result on several jobs concurrently and returns their
// results in order. Each job is still awaited by exactly one goroutine;
// the first error cancels the remaining waits.
func WaitAll(ctx context.Context, jobs ...*Job) ([]*result.Result, error) {
	results := make([]*result.Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := job.Result(ctx)
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
