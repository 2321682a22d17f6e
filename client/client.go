// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package client implements the HTTP gateway to the IonTide cloud API.
//
// A Client satisfies the backend gateway contract over plain JSON/HTTP
// with bearer-token authentication. It stays deliberately thin: request
// and response shapes live in the wire package, lifecycle logic in
// backend. What belongs here is transport — URLs, headers, status codes —
// and the mapping of HTTP-level failures onto the SDK error taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iontide/iontide-go/backend"
	"github.com/iontide/iontide-go/logger"
	"github.com/iontide/iontide-go/wire"
)

// APIError is a non-success reply from the IonTide API.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("iontide api: http %d", e.StatusCode)
	}
	return fmt.Sprintf("iontide api: http %d: %s", e.StatusCode, e.Message)
}

// Client talks to one IonTide API endpoint. It is safe for concurrent use.
type Client struct {
	base   *url.URL
	token  string
	client *http.Client
}

// Option alters the construction of a Client.
type Option func(*Client) error

// WithHTTPClient replaces the underlying http.Client, e.g. to tune
// transport settings or inject test doubles.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// New returns a client for the API at endpoint, authenticating with the
// given bearer token. The default underlying http.Client uses a 30s
// request timeout.
func New(endpoint, token string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("when parsing endpoint: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q is not an http(s) URL", endpoint)
	}
	c := &Client{
		base:   base,
		token:  token,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SubmitJob implements backend.Gateway: POST /submit/{workspace}/{resource}.
func (c *Client) SubmitJob(ctx context.Context, workspace, resource string, req *wire.JobRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("when encoding job request: %w", err)
	}

	var ack wire.SubmitResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint("submit", workspace, resource), body, &ack); err != nil {
		return "", err
	}
	if ack.JobID == "" {
		return "", fmt.Errorf("%w: submission acknowledged without a job identifier", backend.ErrMalformedResponse)
	}

	log := logger.Logger()
	log.Debug().Str("jobID", ack.JobID).Str("workspace", workspace).Str("resource", resource).Msg("job accepted")
	return ack.JobID, nil
}

// JobStatus implements backend.Gateway: GET /result/{job_id}. Both an
// HTTP 404 and the API's unknown_job_id status tag surface as
// backend.ErrUnknownJob.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*wire.StatusResponse, error) {
	var status wire.StatusResponse
	err := c.do(ctx, http.MethodGet, c.endpoint("result", jobID), nil, &status)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %q", backend.ErrUnknownJob, jobID)
		}
		return nil, err
	}
	if status.Status == wire.StatusUnknownJob {
		return nil, fmt.Errorf("%w: %q", backend.ErrUnknownJob, jobID)
	}
	return &status, nil
}

func (c *Client) endpoint(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.base.JoinPath(escaped...).String()
}

// do runs one JSON round-trip. Non-2xx replies become *APIError, with the
// message taken from the body's "message" field when present.
func (c *Client) do(ctx context.Context, method, u string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("when calling %s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return fmt.Errorf("when reading reply of %s %s: %w", method, u, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decoding reply of %s %s: %v", backend.ErrMalformedResponse, method, u, err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}
