// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package client

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iontide/iontide-go/backend"
	"github.com/iontide/iontide-go/circuit"
	"github.com/iontide/iontide-go/wire"
)

func testRequest(t *testing.T) *wire.JobRequest {
	t.Helper()
	c := circuit.New("bell")
	q := c.AddQuantumRegister("q", 2)
	m := c.AddClassicalRegister("meas", 2)
	c.R(math.Pi/2, math.Pi/2, q.Bit(0))
	c.RXX(math.Pi/2, q.Bit(0), q.Bit(1))
	c.Measure(q.Bit(0), m.Bit(0))
	c.Measure(q.Bit(1), m.Bit(1))

	req, err := wire.NewJobRequest("bell test", 100, c)
	require.NoError(t, err)
	return req
}

func TestSubmitJob(t *testing.T) {
	assert := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodPost, r.Method)
		assert.Equal("/submit/my-ws/trap-12", r.URL.Path)
		assert.Equal("Bearer secret", r.Header.Get("Authorization"))
		assert.Equal("application/json", r.Header.Get("Content-Type"))

		var req wire.JobRequest
		assert.NoError(json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(wire.JobTypeQuantumCircuit, req.JobType)
		assert.Len(req.Payload.Circuits, 1)

		json.NewEncoder(w).Encode(wire.SubmitResponse{JobID: "job-42"})
	}))
	defer srv.Close()

	c, err := New(srv.URL, "secret")
	assert.NoError(err)

	id, err := c.SubmitJob(context.Background(), "my-ws", "trap-12", testRequest(t))
	assert.NoError(err)
	assert.Equal("job-42", id)
}

func TestSubmitJobRejected(t *testing.T) {
	assert := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "too many qubits for this resource"})
	}))
	defer srv.Close()

	c, err := New(srv.URL, "secret")
	assert.NoError(err)

	_, err = c.SubmitJob(context.Background(), "ws", "trap-12", testRequest(t))
	var apiErr *APIError
	assert.ErrorAs(err, &apiErr)
	assert.Equal(http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal("too many qubits for this resource", apiErr.Message)
}

func TestSubmitJobMissingID(t *testing.T) {
	assert := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "secret")
	assert.NoError(err)

	_, err = c.SubmitJob(context.Background(), "ws", "trap-12", testRequest(t))
	assert.ErrorIs(err, backend.ErrMalformedResponse)
}

func TestJobStatus(t *testing.T) {
	assert := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodGet, r.Method)
		assert.Equal("/result/job-42", r.URL.Path)
		w.Write([]byte(`{"status":"ongoing","finished_count":3}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "secret")
	assert.NoError(err)

	status, err := c.JobStatus(context.Background(), "job-42")
	assert.NoError(err)
	assert.Equal(wire.StatusOngoing, status.Status)
	assert.Equal(3, status.FinishedCount)
}

func TestJobStatusFinished(t *testing.T) {
	assert := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"finished","result":{"0":[[1,0],[0,1]]}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "secret")
	assert.NoError(err)

	status, err := c.JobStatus(context.Background(), "job-42")
	assert.NoError(err)
	assert.Equal(wire.StatusFinished, status.Status)
	assert.Equal([][]uint8{{1, 0}, {0, 1}}, status.Results[0])
}

// The API signals an expired identifier either via its status tag or a
// plain 404; both map to ErrUnknownJob.
func TestJobStatusUnknown(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{
		"status tag": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"unknown_job_id"}`))
		},
		"http 404": func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		},
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			c, err := New(srv.URL, "secret")
			require.NoError(t, err)

			_, err = c.JobStatus(context.Background(), "gone")
			require.ErrorIs(t, err, backend.ErrUnknownJob)
		})
	}
}

func TestJobStatusMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"finished"}`)) // finished without result field
	}))
	defer srv.Close()

	c, err := New(srv.URL, "secret")
	require.NoError(t, err)

	_, err = c.JobStatus(context.Background(), "job-42")
	require.ErrorIs(t, err, backend.ErrMalformedResponse)
}

func TestNewRejectsBadEndpoint(t *testing.T) {
	_, err := New("ftp://example.com", "secret")
	require.Error(t, err)
}

func TestCheckAPIVersion(t *testing.T) {
	serve := func(version string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"version": version})
		}))
	}

	t.Run("supported", func(t *testing.T) {
		srv := serve("1.0.3")
		defer srv.Close()
		c, err := New(srv.URL, "secret")
		require.NoError(t, err)
		require.NoError(t, c.CheckAPIVersion(context.Background()))
	})

	t.Run("unsupported major", func(t *testing.T) {
		srv := serve("2.1.0")
		defer srv.Close()
		c, err := New(srv.URL, "secret")
		require.NoError(t, err)
		require.Error(t, c.CheckAPIVersion(context.Background()))
	})

	t.Run("unparseable", func(t *testing.T) {
		srv := serve("latest")
		defer srv.Close()
		c, err := New(srv.URL, "secret")
		require.NoError(t, err)
		require.Error(t, c.CheckAPIVersion(context.Background()))
	})
}
