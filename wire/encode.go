// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package wire

import (
	"fmt"
	"math"

	"github.com/iontide/iontide-go/circuit"
	"github.com/iontide/iontide-go/debug"
)

// Encode lowers a circuit into the wire operation sequence.
//
// Instructions are visited in order. Rotation angles are divided by π.
// Qubit operands are flattened to absolute indices following register
// declaration order; RXX pairs are emitted in ascending index order.
// Measurements emit nothing inline; barriers are dropped. After the first measurement only further measurements and
// barriers may follow, otherwise Encode fails with ErrMeasurementNotLast.
// A circuit without any measurement fails with ErrNoMeasurement; one with
// a gate outside the native set fails with ErrUnsupportedOperation.
//
// The returned sequence ends with exactly one Measure marker, regardless
// of how many measure instructions the circuit holds. Which classical bit
// each measurement targets is not part of the wire format; the result
// package reconstructs that from the circuit itself.
func Encode(c *circuit.Circuit) (Operations, error) {
	lay := circuit.LayoutOf(c)
	instrs := c.Instructions()

	ops := make(Operations, 0, len(instrs)+1)
	measured := false
	for _, ins := range instrs {
		switch ins.Op.(type) {
		case circuit.Measure:
			measured = true
			continue
		case circuit.Barrier:
			continue
		}
		if measured {
			return nil, fmt.Errorf("gate %q after a measurement: %w", ins.Op.Name(), ErrMeasurementNotLast)
		}
		switch g := ins.Op.(type) {
		case circuit.RZ:
			ops = append(ops, RZ{
				Phi:   g.Phi / math.Pi,
				Qubit: qubitIndex(lay, ins.Qubits[0]),
			})
		case circuit.R:
			ops = append(ops, R{
				Theta: g.Theta / math.Pi,
				Phi:   g.Phi / math.Pi,
				Qubit: qubitIndex(lay, ins.Qubits[0]),
			})
		case circuit.RXX:
			// the API treats the pair as a set; store it in its canonical
			// ascending form so the in-memory and marshalled requests agree
			a, b := qubitIndex(lay, ins.Qubits[0]), qubitIndex(lay, ins.Qubits[1])
			if a > b {
				a, b = b, a
			}
			ops = append(ops, RXX{
				Theta:  g.Theta / math.Pi,
				Qubits: [2]int{a, b},
			})
		default:
			return nil, fmt.Errorf("gate %q: %w", ins.Op.Name(), ErrUnsupportedOperation)
		}
	}
	if !measured {
		return nil, ErrNoMeasurement
	}
	return append(ops, Measure{}), nil
}

func qubitIndex(lay *circuit.Layout, q circuit.Qubit) int {
	i, ok := lay.QubitIndex(q)
	debug.Assert(ok, "instruction qubit missing from circuit layout")
	return i
}
