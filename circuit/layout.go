// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package circuit

// Offsets returns the absolute starting index of each register in a layout
// made of the given register sizes, in order. Offsets(nil) is empty;
// Offsets([]int{2, 3, 1}) is []int{0, 2, 5}.
func Offsets(sizes []int) []int {
	offsets := make([]int, len(sizes))
	acc := 0
	for i, s := range sizes {
		offsets[i] = acc
		acc += s
	}
	return offsets
}

// Layout maps register-relative bits of one circuit to absolute indices.
// Absolute indices follow register declaration order: the first declared
// register occupies indices [0, size), the next starts where it ended.
type Layout struct {
	qubitIndex map[Qubit]int
	clbitIndex map[Clbit]int
	qubits     []Qubit
	clbits     []Clbit
}

// LayoutOf computes the layout of c's registers.
func LayoutOf(c *Circuit) *Layout {
	lay := &Layout{
		qubitIndex: make(map[Qubit]int, c.NumQubits()),
		clbitIndex: make(map[Clbit]int, c.NumClbits()),
		qubits:     make([]Qubit, 0, c.NumQubits()),
		clbits:     make([]Clbit, 0, c.NumClbits()),
	}
	for _, reg := range c.qregs {
		for i := 0; i < reg.size; i++ {
			q := reg.Bit(i)
			lay.qubitIndex[q] = len(lay.qubits)
			lay.qubits = append(lay.qubits, q)
		}
	}
	for _, reg := range c.cregs {
		for i := 0; i < reg.size; i++ {
			b := reg.Bit(i)
			lay.clbitIndex[b] = len(lay.clbits)
			lay.clbits = append(lay.clbits, b)
		}
	}
	return lay
}

// QubitIndex returns the absolute index of q, or false if q's register is
// not part of the laid-out circuit.
func (l *Layout) QubitIndex(q Qubit) (int, bool) {
	i, ok := l.qubitIndex[q]
	return i, ok
}

// ClbitIndex returns the absolute index of b, or false if b's register is
// not part of the laid-out circuit.
func (l *Layout) ClbitIndex(b Clbit) (int, bool) {
	i, ok := l.clbitIndex[b]
	return i, ok
}

// QubitAt returns the qubit at absolute index i.
func (l *Layout) QubitAt(i int) Qubit { return l.qubits[i] }

// ClbitAt returns the classical bit at absolute index i.
func (l *Layout) ClbitAt(i int) Clbit { return l.clbits[i] }

// NumQubits returns the number of laid-out qubits.
func (l *Layout) NumQubits() int { return len(l.qubits) }

// NumClbits returns the number of laid-out classical bits.
func (l *Layout) NumClbits() int { return len(l.clbits) }
