// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package result

import (
	"github.com/iontide/iontide-go/circuit"
)

// RegisterSpec describes one register of a circuit in a result header.
type RegisterSpec struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Header carries the circuit-level bookkeeping callers need to interpret
// an experiment's counts: the register layout behind the bit positions.
type Header struct {
	Name               string         `json:"name"`
	MemorySlots        int            `json:"memory_slots"`
	QuantumRegisters   []RegisterSpec `json:"qreg_sizes"`
	ClassicalRegisters []RegisterSpec `json:"creg_sizes"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

// HeaderOf builds the result header of a circuit.
func HeaderOf(c *circuit.Circuit) Header {
	h := Header{
		Name:        c.Name(),
		MemorySlots: c.NumClbits(),
	}
	for _, r := range c.QuantumRegisters() {
		h.QuantumRegisters = append(h.QuantumRegisters, RegisterSpec{Name: r.Name(), Size: r.Size()})
	}
	for _, r := range c.ClassicalRegisters() {
		h.ClassicalRegisters = append(h.ClassicalRegisters, RegisterSpec{Name: r.Name(), Size: r.Size()})
	}
	if md := c.Metadata(); len(md) > 0 {
		h.Metadata = md
	}
	return h
}

// ExperimentResult is the outcome of one circuit of a job.
type ExperimentResult struct {
	Success bool           `json:"success"`
	Shots   int            `json:"shots"`
	Counts  map[string]int `json:"counts"`
	Memory  []string       `json:"memory,omitempty"`
	Header  Header         `json:"header"`
}

// Result is the outcome of a whole job. Success reflects the terminal
// state: true only when the job finished. Remote failure and cancellation
// are carried here as data, not as errors; Message holds the provider's
// error text and is empty for cancellation.
type Result struct {
	JobID       string             `json:"job_id"`
	Label       string             `json:"label,omitempty"`
	Success     bool               `json:"success"`
	Message     string             `json:"message,omitempty"`
	Experiments []ExperimentResult `json:"experiments,omitempty"`
}

// FromSamples assembles one circuit's experiment result from its raw
// samples. The memory map is rebuilt from the circuit, so partial and
// repeated measurements land in the right classical bits. Memory strings
// are produced only when withMemory is set.
func FromSamples(c *circuit.Circuit, samples [][]uint8, withMemory bool) ExperimentResult {
	mm := BuildMemoryMap(c)
	res := ExperimentResult{
		Success: true,
		Shots:   len(samples),
		Counts:  FormatCounts(samples, mm),
		Header:  HeaderOf(c),
	}
	if withMemory {
		res.Memory = FormatMemory(samples, mm)
	}
	return res
}
