// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package wire

import (
	"errors"
	"fmt"

	"github.com/iontide/iontide-go/circuit"
)

// JobTypeQuantumCircuit is the only job type the circuit endpoint accepts.
const JobTypeQuantumCircuit = "quantum_circuit"

// JobRequest is the submission body of a circuit job. One request carries
// a batch of circuits; the API schedules and reports them as a single unit.
type JobRequest struct {
	JobType string          `json:"job_type"`
	Label   string          `json:"label"`
	Payload QuantumCircuits `json:"payload"`
}

// QuantumCircuits is the batch payload of a JobRequest.
type QuantumCircuits struct {
	Circuits []QuantumCircuit `json:"circuits"`
}

// QuantumCircuit is one circuit of a batch, with its shot count.
type QuantumCircuit struct {
	Repetitions    int        `json:"repetitions"`
	NumberOfQubits int        `json:"number_of_qubits"`
	Circuit        Operations `json:"quantum_circuit"`
}

// NewJobRequest encodes circuits into a submission request. Every circuit
// runs for the same number of shots. Encoding or validation failures carry
// the index of the offending circuit.
func NewJobRequest(label string, shots int, circuits ...*circuit.Circuit) (*JobRequest, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}
	if len(circuits) == 0 {
		return nil, errors.New("a job needs at least one circuit")
	}

	req := &JobRequest{
		JobType: JobTypeQuantumCircuit,
		Label:   label,
		Payload: QuantumCircuits{Circuits: make([]QuantumCircuit, len(circuits))},
	}
	for i, c := range circuits {
		ops, err := Encode(c)
		if err != nil {
			return nil, fmt.Errorf("circuit %d: %w", i, err)
		}
		if err := ops.Validate(); err != nil {
			return nil, fmt.Errorf("circuit %d: %w", i, err)
		}
		req.Payload.Circuits[i] = QuantumCircuit{
			Repetitions:    shots,
			NumberOfQubits: c.NumQubits(),
			Circuit:        ops,
		}
	}
	return req, nil
}

// Validate checks a request assembled outside NewJobRequest, typically one
// loaded from a payload file.
func (req *JobRequest) Validate() error {
	if req.JobType != JobTypeQuantumCircuit {
		return fmt.Errorf("unsupported job type %q", req.JobType)
	}
	if len(req.Payload.Circuits) == 0 {
		return errors.New("a job needs at least one circuit")
	}
	for i, qc := range req.Payload.Circuits {
		if qc.Repetitions <= 0 {
			return fmt.Errorf("circuit %d: repetitions must be positive, got %d", i, qc.Repetitions)
		}
		if qc.NumberOfQubits <= 0 {
			return fmt.Errorf("circuit %d: number of qubits must be positive, got %d", i, qc.NumberOfQubits)
		}
		if err := qc.Circuit.Validate(); err != nil {
			return fmt.Errorf("circuit %d: %w", i, err)
		}
		n := len(qc.Circuit)
		for j, op := range qc.Circuit {
			if _, ok := op.(Measure); ok && j != n-1 {
				return fmt.Errorf("circuit %d: operation %d: %w", i, j, ErrMeasurementNotLast)
			}
		}
		if n == 0 {
			return fmt.Errorf("circuit %d: %w", i, ErrNoMeasurement)
		}
		if _, ok := qc.Circuit[n-1].(Measure); !ok {
			return fmt.Errorf("circuit %d: %w", i, ErrNoMeasurement)
		}
	}
	return nil
}
