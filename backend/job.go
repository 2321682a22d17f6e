// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iontide/iontide-go/circuit"
	"github.com/iontide/iontide-go/logger"
	"github.com/iontide/iontide-go/result"
	"github.com/iontide/iontide-go/wire"
)

// Job is one submitted circuit batch and its lifecycle.
//
// The circuits and configuration are fixed at creation; the provider
// identifier is set once by Submit; the status is an immutable snapshot
// replaced wholesale on each poll. A Job is driven by a single caller —
// its methods are safe to call from the WaitAll helper goroutines, but it
// is not meant for concurrent polling from several goroutines at once.
type Job struct {
	gw        Gateway
	workspace string
	resource  string
	circuits  []*circuit.Circuit
	cfg       Config

	mu       sync.Mutex
	id       string
	snapshot *wire.StatusResponse // nil until the first poll
}

// ID returns the provider-assigned job identifier, empty before a
// successful Submit.
func (j *Job) ID() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.id
}

// Circuits returns the job's circuits in submission order.
func (j *Job) Circuits() []*circuit.Circuit {
	out := make([]*circuit.Circuit, len(j.circuits))
	copy(out, j.circuits)
	return out
}

// Submit encodes the job's circuits and sends them through the gateway.
//
// It fails with ErrAlreadySubmitted if the job already holds an
// identifier; no second request is issued. Circuit conversion errors
// surface before anything touches the network. If the gateway fails, the
// identifier stays empty and Submit may be retried.
func (j *Job) Submit(ctx context.Context) error {
	j.mu.Lock()
	if j.id != "" {
		j.mu.Unlock()
		return ErrAlreadySubmitted
	}
	j.mu.Unlock()

	req, err := wire.NewJobRequest(j.cfg.Label, j.cfg.Shots, j.circuits...)
	if err != nil {
		return err
	}
	id, err := j.gw.SubmitJob(ctx, j.workspace, j.resource, req)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: submission acknowledged without a job identifier", ErrMalformedResponse)
	}

	j.mu.Lock()
	j.id = id
	j.mu.Unlock()

	log := logger.Logger()
	log.Debug().Str("jobID", id).Str("label", j.cfg.Label).Int("circuits", len(j.circuits)).Msg("job submitted")
	return nil
}

// Status performs one poll round-trip and returns the job's lifecycle
// state. Once a terminal state has been observed the cached state is
// returned without querying the gateway again; a terminal state never
// reverts.
func (j *Job) Status(ctx context.Context) (wire.JobStatus, error) {
	j.mu.Lock()
	id := j.id
	if j.snapshot != nil && j.snapshot.Status.Terminal() {
		status := j.snapshot.Status
		j.mu.Unlock()
		return status, nil
	}
	j.mu.Unlock()

	if id == "" {
		return 0, ErrNotSubmitted
	}

	resp, err := j.gw.JobStatus(ctx, id)
	if err != nil {
		return 0, err
	}
	if resp.Status == wire.StatusUnknownJob {
		return 0, fmt.Errorf("%w: %q", ErrUnknownJob, id)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	// a terminal snapshot recorded in the meantime wins over a stale reply
	if j.snapshot != nil && j.snapshot.Status.Terminal() {
		return j.snapshot.Status, nil
	}
	j.snapshot = resp
	return resp.Status, nil
}

// Progress returns how many of the job's circuits the provider reports
// finished, and the batch size. It is derived from the last observed
// status, without polling: zero while queued, the provider's count while
// ongoing, the batch size for any terminal state.
func (j *Job) Progress() (finished, total int) {
	total = len(j.circuits)
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.snapshot == nil {
		return 0, total
	}
	switch j.snapshot.Status {
	case wire.StatusOngoing:
		return j.snapshot.FinishedCount, total
	case wire.StatusFinished, wire.StatusError, wire.StatusCancelled:
		return total, total
	default:
		return 0, total
	}
}

// Result waits for the job to reach a terminal state and assembles the
// SDK-native result.
//
// The wait polls the gateway every poll period until the state is
// terminal, the configured timeout elapses or ctx is done. A timeout —
// configured or via ctx deadline — surfaces as ErrJobTimeout and leaves
// the job intact: a later Result call with a larger budget picks up where
// this one gave up. Context cancellation passes through untouched.
//
// A finished job yields one ExperimentResult per circuit, with counts
// formatted through the circuit's memory map. A job the provider reports
// as error or cancelled yields a Result with Success false and the
// provider's message (empty for cancelled); that is not a Go error.
func (j *Job) Result(ctx context.Context) (*result.Result, error) {
	if err := j.wait(ctx); err != nil {
		return nil, err
	}

	j.mu.Lock()
	id := j.id
	snap := j.snapshot
	j.mu.Unlock()

	res := &result.Result{
		JobID:   id,
		Label:   j.cfg.Label,
		Success: snap.Status == wire.StatusFinished,
	}
	switch snap.Status {
	case wire.StatusFinished:
		res.Experiments = make([]result.ExperimentResult, len(j.circuits))
		for i, c := range j.circuits {
			samples, ok := snap.Results[i]
			if !ok {
				return nil, fmt.Errorf("%w: finished reply carries no samples for circuit %d", ErrMalformedResponse, i)
			}
			res.Experiments[i] = result.FromSamples(c, samples, j.cfg.Memory)
		}
	case wire.StatusError:
		res.Message = snap.Message
	case wire.StatusCancelled:
		// cancellation carries no message
	}
	return res, nil
}

// wait blocks until the job's state is terminal.
func (j *Job) wait(ctx context.Context) error {
	var timeout <-chan time.Time
	if j.cfg.Timeout > 0 {
		timer := time.NewTimer(j.cfg.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		status, err := j.Status(ctx)
		if err != nil {
			return err
		}
		if status.Terminal() {
			return nil
		}
		if j.cfg.ProgressFunc != nil {
			finished, total := j.Progress()
			j.cfg.ProgressFunc(finished, total)
		}

		poll := time.NewTimer(j.cfg.PollPeriod)
		select {
		case <-poll.C:
		case <-timeout:
			poll.Stop()
			return fmt.Errorf("%w: no terminal state after %s", ErrJobTimeout, j.cfg.Timeout)
		case <-ctx.Done():
			poll.Stop()
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: %v", ErrJobTimeout, ctx.Err())
			}
			return ctx.Err()
		}
	}
}

// Archive packages the finished job's raw samples for later replay. It
// fails if the job has not finished successfully.
func (j *Job) Archive() (*result.Archive, error) {
	j.mu.Lock()
	id := j.id
	snap := j.snapshot
	j.mu.Unlock()

	if snap == nil || snap.Status != wire.StatusFinished {
		return nil, errors.New("job has not finished; no samples to archive")
	}
	a := &result.Archive{
		JobID:    id,
		Label:    j.cfg.Label,
		Circuits: make([]result.CircuitSamples, len(j.circuits)),
	}
	for i, c := range j.circuits {
		samples, ok := snap.Results[i]
		if !ok {
			return nil, fmt.Errorf("%w: finished reply carries no samples for circuit %d", ErrMalformedResponse, i)
		}
		a.Circuits[i] = result.CircuitSamples{NumQubits: c.NumQubits(), Samples: samples}
	}
	return a, nil
}
