// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package wire implements the IonTide cloud API circuit format.
//
// The API accepts circuits as a JSON list of tagged operations drawn from
// the native gate set of the trapped-ion hardware: RZ and R single-qubit
// rotations, the RXX entangling interaction, and a single terminal MEASURE
// marker. All angles travel as fractions of π.
//
// Encode lowers a circuit.Circuit into that operation list; Decode is its
// inverse and exists chiefly for round-trip testing and for replaying
// payloads captured from the API.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Operation tags understood by the API.
const (
	opNameRZ      = "RZ"
	opNameR       = "R"
	opNameRXX     = "RXX"
	opNameMeasure = "MEASURE"
)

var (
	// ErrUnsupportedOperation is returned by Encode when a circuit contains
	// a gate outside the native set. The circuit must be transpiled first.
	ErrUnsupportedOperation = errors.New("operation not in the native gate set")

	// ErrMeasurementNotLast is returned when an instruction other than a
	// measurement or barrier follows a measurement.
	ErrMeasurementNotLast = errors.New("measurements must be at the end of the circuit")

	// ErrNoMeasurement is returned for circuits without any measurement;
	// the API rejects circuits that produce no classical outcome.
	ErrNoMeasurement = errors.New("circuit contains no measurement")

	// ErrInvalidOperation is returned when an operation violates the
	// documented field ranges.
	ErrInvalidOperation = errors.New("invalid wire operation")
)

// Operation is one instruction of a wire circuit. The set of
// implementations is closed: RZ, R, RXX and Measure.
type Operation interface {
	// Validate checks the operation's fields against the documented ranges.
	Validate() error

	tag() string
}

// RZ is a rotation of phi·π radians around the Z axis.
type RZ struct {
	Phi   float64
	Qubit int
}

// R is a rotation of theta·π radians around an axis in the XY plane at
// angle phi·π from X.
type R struct {
	Theta float64
	Phi   float64
	Qubit int
}

// RXX is the Mølmer–Sørensen entangling interaction of theta·π radians
// between two distinct qubits.
type RXX struct {
	Theta  float64
	Qubits [2]int
}

// Measure marks the end of the circuit; every qubit is read out. It
// appears exactly once, as the last operation.
type Measure struct{}

func (RZ) tag() string      { return opNameRZ }
func (R) tag() string       { return opNameR }
func (RXX) tag() string     { return opNameRXX }
func (Measure) tag() string { return opNameMeasure }

// Validate implements Operation. RZ angles are unconstrained.
func (op RZ) Validate() error {
	if op.Qubit < 0 {
		return fmt.Errorf("%w: RZ qubit %d is negative", ErrInvalidOperation, op.Qubit)
	}
	return nil
}

// Validate implements Operation.
func (op R) Validate() error {
	if op.Theta < 0 || op.Theta > 1 {
		return fmt.Errorf("%w: R theta %v outside [0, 1]", ErrInvalidOperation, op.Theta)
	}
	if op.Phi < 0 || op.Phi > 2 {
		return fmt.Errorf("%w: R phi %v outside [0, 2]", ErrInvalidOperation, op.Phi)
	}
	if op.Qubit < 0 {
		return fmt.Errorf("%w: R qubit %d is negative", ErrInvalidOperation, op.Qubit)
	}
	return nil
}

// Validate implements Operation.
func (op RXX) Validate() error {
	if op.Theta < 0 || op.Theta > 0.5 {
		return fmt.Errorf("%w: RXX theta %v outside [0, 0.5]", ErrInvalidOperation, op.Theta)
	}
	if op.Qubits[0] < 0 || op.Qubits[1] < 0 {
		return fmt.Errorf("%w: RXX qubits %v contain a negative index", ErrInvalidOperation, op.Qubits)
	}
	if op.Qubits[0] == op.Qubits[1] {
		return fmt.Errorf("%w: RXX qubits must be distinct, got %v", ErrInvalidOperation, op.Qubits)
	}
	return nil
}

// Validate implements Operation.
func (Measure) Validate() error { return nil }

// MarshalJSON implements json.Marshaler.
func (op RZ) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Operation string  `json:"operation"`
		Phi       float64 `json:"phi"`
		Qubit     int     `json:"qubit"`
	}{opNameRZ, op.Phi, op.Qubit})
}

// MarshalJSON implements json.Marshaler.
func (op R) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Operation string  `json:"operation"`
		Phi       float64 `json:"phi"`
		Qubit     int     `json:"qubit"`
		Theta     float64 `json:"theta"`
	}{opNameR, op.Phi, op.Qubit, op.Theta})
}

// MarshalJSON implements json.Marshaler.
func (op RXX) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Operation string  `json:"operation"`
		Qubits    [2]int  `json:"qubits"`
		Theta     float64 `json:"theta"`
	}{opNameRXX, op.Qubits, op.Theta})
}

// MarshalJSON implements json.Marshaler.
func (op Measure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Operation string `json:"operation"`
	}{opNameMeasure})
}

// Operations is an ordered wire circuit. It unmarshals the tagged JSON
// forms back into concrete Operation values.
type Operations []Operation

// UnmarshalJSON implements json.Unmarshaler.
func (ops *Operations) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Operations, len(raw))
	for i, msg := range raw {
		op, err := unmarshalOperation(msg)
		if err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
		out[i] = op
	}
	*ops = out
	return nil
}

// Validate checks every operation in the circuit.
func (ops Operations) Validate() error {
	for i, op := range ops {
		if err := op.Validate(); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return nil
}

func unmarshalOperation(data []byte) (Operation, error) {
	var header struct {
		Operation string `json:"operation"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, err
	}
	switch header.Operation {
	case opNameRZ:
		var v struct {
			Phi   float64 `json:"phi"`
			Qubit int     `json:"qubit"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return RZ{Phi: v.Phi, Qubit: v.Qubit}, nil
	case opNameR:
		var v struct {
			Theta float64 `json:"theta"`
			Phi   float64 `json:"phi"`
			Qubit int     `json:"qubit"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return R{Theta: v.Theta, Phi: v.Phi, Qubit: v.Qubit}, nil
	case opNameRXX:
		var v struct {
			Theta  float64 `json:"theta"`
			Qubits []int   `json:"qubits"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		if len(v.Qubits) != 2 {
			return nil, fmt.Errorf("%w: RXX needs exactly 2 qubits, got %d", ErrInvalidOperation, len(v.Qubits))
		}
		return RXX{Theta: v.Theta, Qubits: [2]int{v.Qubits[0], v.Qubits[1]}}, nil
	case opNameMeasure:
		return Measure{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown operation tag %q", ErrInvalidOperation, header.Operation)
	}
}
