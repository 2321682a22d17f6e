// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package iontest provides scripted fakes for testing code built on the
// IonTide SDK without a live endpoint: an in-memory gateway whose status
// replies are queued up front, and a deterministic sample generator.
package iontest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/iontide/iontide-go/wire"
)

// Submission records one SubmitJob call made against a Gateway.
type Submission struct {
	Workspace string
	Resource  string
	Request   *wire.JobRequest
}

// Gateway is a scripted in-memory implementation of the backend gateway
// contract. Configure it before use: SubmitErr short-circuits submission,
// StatusErr short-circuits polling, and the reply queue drives JobStatus.
// The zero value accepts submissions and reports every job as queued.
//
// Unlike a Job, a Gateway tolerates concurrent calls, so it can back
// WaitAll tests.
type Gateway struct {
	// SubmitErr, when set, is returned by every SubmitJob call.
	SubmitErr error
	// StatusErr, when set, is returned by every JobStatus call.
	StatusErr error
	// ForgetJobs, when set, makes JobStatus report every identifier as
	// unknown, imitating a provider that expired the job.
	ForgetJobs bool

	mu          sync.Mutex
	jobID       string
	submissions []Submission
	replies     []*wire.StatusResponse
	polls       int
}

// NewGateway returns a gateway that assigns the given replies to the
// first submitted job, in order. The last reply repeats once the queue is
// exhausted; with no replies every poll reports queued.
func NewGateway(replies ...*wire.StatusResponse) *Gateway {
	return &Gateway{jobID: uuid.NewString(), replies: replies}
}

// SubmitJob implements the gateway contract, recording the submission.
func (g *Gateway) SubmitJob(_ context.Context, workspace, resource string, req *wire.JobRequest) (string, error) {
	if g.SubmitErr != nil {
		return "", g.SubmitErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.jobID == "" {
		g.jobID = uuid.NewString()
	}
	g.submissions = append(g.submissions, Submission{Workspace: workspace, Resource: resource, Request: req})
	return g.jobID, nil
}

// JobStatus implements the gateway contract, dequeuing the next scripted
// reply. An unknown identifier yields the provider's unknown-job variant.
func (g *Gateway) JobStatus(_ context.Context, jobID string) (*wire.StatusResponse, error) {
	if g.StatusErr != nil {
		return nil, g.StatusErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.polls++
	if g.ForgetJobs || jobID != g.jobID {
		return &wire.StatusResponse{Status: wire.StatusUnknownJob}, nil
	}
	if len(g.replies) == 0 {
		return &wire.StatusResponse{Status: wire.StatusQueued}, nil
	}
	reply := g.replies[0]
	if len(g.replies) > 1 {
		g.replies = g.replies[1:]
	}
	return reply, nil
}

// JobID returns the identifier the gateway hands out on submission.
func (g *Gateway) JobID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.jobID
}

// Submissions returns the recorded SubmitJob calls, in order.
func (g *Gateway) Submissions() []Submission {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Submission, len(g.submissions))
	copy(out, g.submissions)
	return out
}

// Polls returns how many JobStatus calls the gateway has served.
func (g *Gateway) Polls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.polls
}

// Queued returns a queued status reply.
func Queued() *wire.StatusResponse {
	return &wire.StatusResponse{Status: wire.StatusQueued}
}

// Ongoing returns an ongoing status reply with the given finished count.
func Ongoing(finished int) *wire.StatusResponse {
	return &wire.StatusResponse{Status: wire.StatusOngoing, FinishedCount: finished}
}

// Finished returns a finished status reply carrying the given samples per
// circuit index.
func Finished(results map[int][][]uint8) *wire.StatusResponse {
	return &wire.StatusResponse{Status: wire.StatusFinished, Results: results}
}

// Failed returns an error status reply with the provider's message.
func Failed(message string) *wire.StatusResponse {
	return &wire.StatusResponse{Status: wire.StatusError, Message: message}
}

// Cancelled returns a cancelled status reply.
func Cancelled() *wire.StatusResponse {
	return &wire.StatusResponse{Status: wire.StatusCancelled}
}
