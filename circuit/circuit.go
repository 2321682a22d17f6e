// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package circuit implements the gate-level circuit model consumed by the
// IonTide wire codec.
//
// A Circuit owns quantum and classical registers, declared in order, and an
// ordered list of instructions referencing bits of those registers. The
// model is deliberately small: it represents circuits already lowered to the
// IonTide native gate set (plus measurement and barriers); it is not a
// transpiler.
//
// Builder misuse — foreign registers, out-of-range bit indices, duplicate
// register names — panics, as it indicates a programming error rather than
// a malformed user payload. Payload-level problems (unsupported gates,
// misplaced measurements) surface as errors from the wire codec instead.
package circuit

import (
	"fmt"
	"slices"
)

// QuantumRegister is a named block of qubits declared on a circuit.
type QuantumRegister struct {
	name string
	size int
}

// Name returns the register name.
func (r *QuantumRegister) Name() string { return r.name }

// Size returns the number of qubits in the register.
func (r *QuantumRegister) Size() int { return r.size }

// Bit returns a handle on the i-th qubit of the register.
func (r *QuantumRegister) Bit(i int) Qubit {
	if i < 0 || i >= r.size {
		panic(fmt.Sprintf("circuit: qubit %d out of range for register %q of size %d", i, r.name, r.size))
	}
	return Qubit{reg: r, index: i}
}

// ClassicalRegister is a named block of classical bits declared on a circuit.
type ClassicalRegister struct {
	name string
	size int
}

// Name returns the register name.
func (r *ClassicalRegister) Name() string { return r.name }

// Size returns the number of classical bits in the register.
func (r *ClassicalRegister) Size() int { return r.size }

// Bit returns a handle on the i-th classical bit of the register.
func (r *ClassicalRegister) Bit(i int) Clbit {
	if i < 0 || i >= r.size {
		panic(fmt.Sprintf("circuit: clbit %d out of range for register %q of size %d", i, r.name, r.size))
	}
	return Clbit{reg: r, index: i}
}

// Qubit references one qubit of a quantum register.
type Qubit struct {
	reg   *QuantumRegister
	index int
}

// Register returns the register the qubit belongs to.
func (q Qubit) Register() *QuantumRegister { return q.reg }

// Index returns the qubit position within its register.
func (q Qubit) Index() int { return q.index }

// Clbit references one bit of a classical register.
type Clbit struct {
	reg   *ClassicalRegister
	index int
}

// Register returns the register the classical bit belongs to.
func (b Clbit) Register() *ClassicalRegister { return b.reg }

// Index returns the bit position within its register.
func (b Clbit) Index() int { return b.index }

// Instruction is one operation applied to concrete qubit (and, for
// measurements, classical bit) operands.
type Instruction struct {
	Op     Operation
	Qubits []Qubit
	Clbits []Clbit
}

// Circuit is an ordered sequence of instructions over declared registers.
type Circuit struct {
	name     string
	qregs    []*QuantumRegister
	cregs    []*ClassicalRegister
	instrs   []Instruction
	metadata map[string]any
}

// New returns an empty circuit with the given name.
func New(name string) *Circuit {
	return &Circuit{name: name}
}

// Name returns the circuit name.
func (c *Circuit) Name() string { return c.name }

// Metadata returns the circuit's free-form metadata, allocating it on first
// use. Metadata travels untouched into result headers.
func (c *Circuit) Metadata() map[string]any {
	if c.metadata == nil {
		c.metadata = make(map[string]any)
	}
	return c.metadata
}

// AddQuantumRegister declares a quantum register of the given size on the
// circuit and returns it. Registers are laid out in declaration order.
func (c *Circuit) AddQuantumRegister(name string, size int) *QuantumRegister {
	if size < 0 {
		panic(fmt.Sprintf("circuit: negative quantum register size %d", size))
	}
	for _, r := range c.qregs {
		if r.name == name {
			panic(fmt.Sprintf("circuit: duplicate quantum register name %q", name))
		}
	}
	reg := &QuantumRegister{name: name, size: size}
	c.qregs = append(c.qregs, reg)
	return reg
}

// AddClassicalRegister declares a classical register of the given size on
// the circuit and returns it. Registers are laid out in declaration order.
func (c *Circuit) AddClassicalRegister(name string, size int) *ClassicalRegister {
	if size < 0 {
		panic(fmt.Sprintf("circuit: negative classical register size %d", size))
	}
	for _, r := range c.cregs {
		if r.name == name {
			panic(fmt.Sprintf("circuit: duplicate classical register name %q", name))
		}
	}
	reg := &ClassicalRegister{name: name, size: size}
	c.cregs = append(c.cregs, reg)
	return reg
}

// RZ appends a Z rotation of phi radians on q.
func (c *Circuit) RZ(phi float64, q Qubit) {
	c.append(RZ{Phi: phi}, []Qubit{q}, nil)
}

// R appends a rotation of theta radians around the XY-plane axis at angle
// phi radians on q.
func (c *Circuit) R(theta, phi float64, q Qubit) {
	c.append(R{Theta: theta, Phi: phi}, []Qubit{q}, nil)
}

// RXX appends the entangling Mølmer–Sørensen interaction of theta radians
// between qubits a and b.
func (c *Circuit) RXX(theta float64, a, b Qubit) {
	c.append(RXX{Theta: theta}, []Qubit{a, b}, nil)
}

// H appends a Hadamard gate on q. H is not wire-encodable; it exists so
// that not-yet-lowered circuits are representable and fail at encode time.
func (c *Circuit) H(q Qubit) {
	c.append(H{}, []Qubit{q}, nil)
}

// CX appends a controlled-X gate with control ctrl and target tgt. CX is
// not wire-encodable; see H.
func (c *Circuit) CX(ctrl, tgt Qubit) {
	c.append(CX{}, []Qubit{ctrl, tgt}, nil)
}

// Barrier appends a barrier over the given qubits. Barriers are scheduling
// hints and are dropped by the wire codec.
func (c *Circuit) Barrier(qs ...Qubit) {
	c.append(Barrier{}, qs, nil)
}

// Measure appends a measurement of q into the classical bit target.
func (c *Circuit) Measure(q Qubit, target Clbit) {
	c.append(Measure{}, []Qubit{q}, []Clbit{target})
}

// MeasureAll measures every qubit into the classical bit with the same
// absolute layout index. The circuit must declare at least as many
// classical bits as qubits.
func (c *Circuit) MeasureAll() {
	if c.NumClbits() < c.NumQubits() {
		panic(fmt.Sprintf("circuit: measure-all needs %d classical bits, circuit has %d", c.NumQubits(), c.NumClbits()))
	}
	lay := LayoutOf(c)
	for _, qreg := range c.qregs {
		for i := 0; i < qreg.size; i++ {
			q := qreg.Bit(i)
			abs, _ := lay.QubitIndex(q)
			c.Measure(q, lay.ClbitAt(abs))
		}
	}
}

// NumQubits returns the total number of qubits across all registers.
func (c *Circuit) NumQubits() int {
	n := 0
	for _, r := range c.qregs {
		n += r.size
	}
	return n
}

// NumClbits returns the total number of classical bits across all registers.
func (c *Circuit) NumClbits() int {
	n := 0
	for _, r := range c.cregs {
		n += r.size
	}
	return n
}

// QuantumRegisters returns the quantum registers in declaration order.
func (c *Circuit) QuantumRegisters() []*QuantumRegister {
	return slices.Clone(c.qregs)
}

// ClassicalRegisters returns the classical registers in declaration order.
func (c *Circuit) ClassicalRegisters() []*ClassicalRegister {
	return slices.Clone(c.cregs)
}

// Instructions returns the circuit instructions in append order.
func (c *Circuit) Instructions() []Instruction {
	return slices.Clone(c.instrs)
}

func (c *Circuit) append(op Operation, qubits []Qubit, clbits []Clbit) {
	for _, q := range qubits {
		if q.reg == nil {
			panic("circuit: use of zero-value qubit")
		}
		if !slices.Contains(c.qregs, q.reg) {
			panic(fmt.Sprintf("circuit: qubit register %q not attached to circuit %q", q.reg.name, c.name))
		}
	}
	for _, b := range clbits {
		if b.reg == nil {
			panic("circuit: use of zero-value clbit")
		}
		if !slices.Contains(c.cregs, b.reg) {
			panic(fmt.Sprintf("circuit: classical register %q not attached to circuit %q", b.reg.name, c.name))
		}
	}
	c.instrs = append(c.instrs, Instruction{Op: op, Qubits: qubits, Clbits: clbits})
}
