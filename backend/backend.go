// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package backend drives circuit jobs on IonTide resources.
//
// A Resource represents one machine or simulator of a workspace. Run
// encodes a batch of circuits, submits it through a Gateway and returns a
// Job tracking the provider-side lifecycle: queued, ongoing, then exactly
// one of finished, error or cancelled. Terminal states are absorbing; once
// a job reached one, the gateway is no longer polled and the state never
// changes again.
//
// Remote failure and cancellation are ordinary outcomes of a quantum
// workload, not Go errors: Result returns them as a result.Result with
// Success false. Errors are reserved for local and transport problems —
// malformed circuits, rejected submissions, unknown job identifiers and
// client-side timeouts.
package backend

import (
	"context"
	"errors"

	"github.com/iontide/iontide-go/wire"
)

var (
	// ErrAlreadySubmitted is returned by Submit when the job already holds
	// a provider identifier. A job is submitted at most once.
	ErrAlreadySubmitted = errors.New("job already submitted")

	// ErrNotSubmitted is returned when polling a job that has no provider
	// identifier yet.
	ErrNotSubmitted = errors.New("job not submitted")

	// ErrJobTimeout is returned by Result when the job did not reach a
	// terminal state within the configured timeout. The job itself is
	// unaffected; a later Result call may still succeed.
	ErrJobTimeout = errors.New("timed out waiting for the job to finish")

	// ErrUnknownJob is returned when the provider no longer recognizes the
	// job identifier, typically because the job expired server-side.
	ErrUnknownJob = errors.New("job identifier not recognized by the provider")

	// ErrMalformedResponse is returned when a provider reply is missing a
	// required field, such as a submission acknowledgment without a job
	// identifier.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// Gateway submits circuit batches and reports job status. The client
// package provides the HTTP implementation; tests script their own.
//
// SubmitJob returns the provider-assigned job identifier. JobStatus
// returns the current lifecycle payload of a previously submitted job and
// fails with ErrUnknownJob (possibly wrapped) for identifiers the provider
// does not recognize.
type Gateway interface {
	SubmitJob(ctx context.Context, workspace, resource string, req *wire.JobRequest) (string, error)
	JobStatus(ctx context.Context, jobID string) (*wire.StatusResponse, error)
}
