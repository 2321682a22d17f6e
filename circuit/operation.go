// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package circuit

// Operation is a gate-level operation of the SDK circuit model.
//
// The set of operations is closed: it covers the IonTide native gates
// (RZ, R, RXX), measurement and barrier markers, and a small number of
// common non-native gates that a transpiler is expected to lower before
// submission. The wire codec matches on the concrete types exhaustively;
// adding an operation is a compile-time visible change.
type Operation interface {
	// Name returns the canonical lowercase gate name.
	Name() string

	isOperation()
}

// RZ rotates a single qubit by Phi radians around the Z axis.
type RZ struct {
	Phi float64
}

// R rotates a single qubit by Theta radians around an axis lying in the
// XY plane at azimuthal angle Phi radians.
type R struct {
	Theta float64
	Phi   float64
}

// RXX applies the two-qubit Mølmer–Sørensen interaction with angle
// Theta radians. It is the native entangling gate of IonTide resources.
type RXX struct {
	Theta float64
}

// Measure reads one qubit into one classical bit.
type Measure struct{}

// Barrier is a transpiler scheduling hint. It never reaches the wire format.
type Barrier struct{}

// H is the Hadamard gate. It is not part of the IonTide native set and must
// be lowered to R/RZ before encoding.
type H struct{}

// CX is the controlled-X gate. It is not part of the IonTide native set and
// must be lowered to RXX and single-qubit rotations before encoding.
type CX struct{}

func (RZ) Name() string      { return "rz" }
func (R) Name() string       { return "r" }
func (RXX) Name() string     { return "rxx" }
func (Measure) Name() string { return "measure" }
func (Barrier) Name() string { return "barrier" }
func (H) Name() string       { return "h" }
func (CX) Name() string      { return "cx" }

func (RZ) isOperation()      {}
func (R) isOperation()       {}
func (RXX) isOperation()     {}
func (Measure) isOperation() {}
func (Barrier) isOperation() {}
func (H) isOperation()       {}
func (CX) isOperation()      {}
