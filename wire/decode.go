// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package wire

import (
	"fmt"
	"math"

	"github.com/iontide/iontide-go/circuit"
)

// Decode reconstructs a circuit from a wire operation sequence.
//
// The circuit gets a single quantum register "q" of numQubits qubits, a
// classical register "meas" of the same size, the rotation instructions in
// order and a terminal measure-all. Decode validates what Encode
// guarantees: every operation within its documented ranges, qubit indices
// below numQubits, and exactly one Measure marker, last.
func Decode(ops Operations, numQubits int) (*circuit.Circuit, error) {
	if numQubits <= 0 {
		return nil, fmt.Errorf("number of qubits must be positive, got %d", numQubits)
	}

	c := circuit.New("decoded")
	q := c.AddQuantumRegister("q", numQubits)
	c.AddClassicalRegister("meas", numQubits)

	measured := false
	for i, op := range ops {
		if measured {
			return nil, fmt.Errorf("operation %d follows the measurement marker: %w", i, ErrMeasurementNotLast)
		}
		if err := op.Validate(); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		switch v := op.(type) {
		case RZ:
			if err := checkQubit(v.Qubit, numQubits, i); err != nil {
				return nil, err
			}
			c.RZ(v.Phi*math.Pi, q.Bit(v.Qubit))
		case R:
			if err := checkQubit(v.Qubit, numQubits, i); err != nil {
				return nil, err
			}
			c.R(v.Theta*math.Pi, v.Phi*math.Pi, q.Bit(v.Qubit))
		case RXX:
			for _, qi := range v.Qubits {
				if err := checkQubit(qi, numQubits, i); err != nil {
					return nil, err
				}
			}
			c.RXX(v.Theta*math.Pi, q.Bit(v.Qubits[0]), q.Bit(v.Qubits[1]))
		case Measure:
			measured = true
		}
	}
	if !measured {
		return nil, ErrNoMeasurement
	}
	c.MeasureAll()
	return c, nil
}

func checkQubit(q, numQubits, pos int) error {
	if q >= numQubits {
		return fmt.Errorf("%w: operation %d targets qubit %d, circuit has %d", ErrInvalidOperation, pos, q, numQubits)
	}
	return nil
}
