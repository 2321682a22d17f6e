// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package result reconstructs SDK-native measurement results from the raw
// per-shot samples the IonTide API returns.
//
// The API reports one 0/1 readout per qubit per shot, in qubit order. What
// callers want is the classical-register view: a histogram of hex-encoded
// register values and, optionally, the per-shot register bitstrings. The
// translation between the two is the memory map, derived from the
// circuit's measure instructions.
package result

import (
	"slices"

	"github.com/iontide/iontide-go/circuit"
	"github.com/iontide/iontide-go/debug"
)

// MemoryMap translates absolute qubit indices to the classical bit indices
// their measurements target. A qubit measured into several classical bits
// maps to all of them, ascending; qubits never measured are absent.
type MemoryMap map[int][]int

// BuildMemoryMap scans a circuit's measure instructions. Qubit and
// classical bit indices are absolute, flattening registers in declaration
// order.
func BuildMemoryMap(c *circuit.Circuit) MemoryMap {
	lay := circuit.LayoutOf(c)
	mm := make(MemoryMap)
	for _, ins := range c.Instructions() {
		if _, ok := ins.Op.(circuit.Measure); !ok {
			continue
		}
		qi, ok := lay.QubitIndex(ins.Qubits[0])
		debug.Assert(ok, "measured qubit missing from circuit layout")
		ci, ok := lay.ClbitIndex(ins.Clbits[0])
		debug.Assert(ok, "measurement target missing from circuit layout")
		if !slices.Contains(mm[qi], ci) {
			mm[qi] = append(mm[qi], ci)
			slices.Sort(mm[qi])
		}
	}
	return mm
}

// MemorySlots returns the size of the classical register the map writes
// into: the highest target bit index plus one, 0 for an empty map.
func (mm MemoryMap) MemorySlots() int {
	slots := 0
	for _, clbits := range mm {
		for _, ci := range clbits {
			if ci+1 > slots {
				slots = ci + 1
			}
		}
	}
	return slots
}

// Qubits returns the mapped qubit indices in ascending order.
func (mm MemoryMap) Qubits() []int {
	qs := make([]int, 0, len(mm))
	for q := range mm {
		qs = append(qs, q)
	}
	slices.Sort(qs)
	return qs
}
