// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iontide/iontide-go/wire"
)

// execute runs the CLI against the given arguments, returning stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "iontide-go")
}

func TestStatusCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/result/job-7", r.URL.Path)
		w.Write([]byte(`{"status":"ongoing","finished_count":2}`))
	}))
	defer srv.Close()

	out, err := execute(t, "status", "job-7", "--endpoint", srv.URL, "--token", "tok")
	require.NoError(t, err)
	require.Equal(t, "ongoing (2 circuits finished)\n", out)
}

func TestResultCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"finished","result":{"0":[[1,0],[0,1],[1,0]]}}`))
	}))
	defer srv.Close()

	out, err := execute(t, "result", "job-7", "--endpoint", srv.URL, "--token", "tok", "--poll", "1ms")
	require.NoError(t, err)
	require.Contains(t, out, "circuit 0 (3 shots):")
	require.Contains(t, out, "0x1: 2")
	require.Contains(t, out, "0x2: 1")
}

func TestSubmitCommand(t *testing.T) {
	assert := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/submit/ws/trap-12", r.URL.Path)
		var req wire.JobRequest
		assert.NoError(json.NewDecoder(r.Body).Decode(&req))
		assert.Equal("from cli", req.Label)
		assert.Equal(250, req.Payload.Circuits[0].Repetitions)
		json.NewEncoder(w).Encode(wire.SubmitResponse{JobID: "job-accepted"})
	}))
	defer srv.Close()

	payload := `{
		"job_type": "quantum_circuit",
		"label": "original",
		"payload": {"circuits": [{
			"repetitions": 100,
			"number_of_qubits": 2,
			"quantum_circuit": [
				{"operation": "RZ", "phi": 0.5, "qubit": 0},
				{"operation": "MEASURE"}
			]
		}]}
	}`
	file := filepath.Join(t.TempDir(), "job.json")
	assert.NoError(os.WriteFile(file, []byte(payload), 0o644))

	out, err := execute(t, "submit",
		"--file", file,
		"--label", "from cli",
		"--repetitions", "250",
		"--endpoint", srv.URL, "--token", "tok",
		"--workspace", "ws", "--resource", "trap-12",
	)
	assert.NoError(err)
	assert.Equal("job-accepted\n", out)
}

func TestSubmitCommandRejectsInvalidPayload(t *testing.T) {
	assert := require.New(t)

	// measurement marker not last
	payload := `{
		"job_type": "quantum_circuit",
		"label": "bad",
		"payload": {"circuits": [{
			"repetitions": 100,
			"number_of_qubits": 1,
			"quantum_circuit": [
				{"operation": "MEASURE"},
				{"operation": "RZ", "phi": 0.5, "qubit": 0}
			]
		}]}
	}`
	file := filepath.Join(t.TempDir(), "job.json")
	assert.NoError(os.WriteFile(file, []byte(payload), 0o644))

	_, err := execute(t, "submit",
		"--file", file,
		"--endpoint", "http://localhost:1", "--token", "tok",
		"--workspace", "ws", "--resource", "trap-12",
	)
	assert.ErrorIs(err, wire.ErrMeasurementNotLast)
}

func TestMissingEndpoint(t *testing.T) {
	_, err := execute(t, "status", "job-7", "--token", "tok")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "endpoint"))
}
