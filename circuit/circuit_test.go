// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package circuit

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	assert := require.New(t)

	c := New("bell")
	q := c.AddQuantumRegister("q", 2)
	m := c.AddClassicalRegister("meas", 2)

	c.R(0.5, 0.0, q.Bit(0))
	c.RXX(0.25, q.Bit(0), q.Bit(1))
	c.Barrier(q.Bit(0), q.Bit(1))
	c.Measure(q.Bit(0), m.Bit(0))
	c.Measure(q.Bit(1), m.Bit(1))

	assert.Equal(2, c.NumQubits())
	assert.Equal(2, c.NumClbits())

	instrs := c.Instructions()
	assert.Len(instrs, 5)
	assert.Equal("r", instrs[0].Op.Name())
	assert.Equal("rxx", instrs[1].Op.Name())
	assert.Equal("barrier", instrs[2].Op.Name())
	assert.Equal("measure", instrs[3].Op.Name())
	assert.Equal([]Qubit{q.Bit(1)}, instrs[4].Qubits)
	assert.Equal([]Clbit{m.Bit(1)}, instrs[4].Clbits)
}

func TestMeasureAll(t *testing.T) {
	assert := require.New(t)

	c := New("measure-all")
	a := c.AddQuantumRegister("a", 2)
	b := c.AddQuantumRegister("b", 1)
	c.AddClassicalRegister("meas", 3)
	c.RZ(0.5, b.Bit(0))
	c.MeasureAll()

	instrs := c.Instructions()
	assert.Len(instrs, 4)

	lay := LayoutOf(c)
	for i, ins := range instrs[1:] {
		assert.Equal("measure", ins.Op.Name())
		qi, ok := lay.QubitIndex(ins.Qubits[0])
		assert.True(ok)
		assert.Equal(i, qi)
		ci, ok := lay.ClbitIndex(ins.Clbits[0])
		assert.True(ok)
		assert.Equal(qi, ci)
	}
	assert.Equal(a.Bit(0), instrs[1].Qubits[0])
}

func TestMeasureAllNeedsClbits(t *testing.T) {
	c := New("short")
	c.AddQuantumRegister("q", 3)
	c.AddClassicalRegister("meas", 2)
	require.Panics(t, func() { c.MeasureAll() })
}

func TestBuilderPanics(t *testing.T) {
	assert := require.New(t)

	c := New("c1")
	q := c.AddQuantumRegister("q", 2)

	assert.Panics(func() { q.Bit(2) })
	assert.Panics(func() { q.Bit(-1) })
	assert.Panics(func() { c.AddQuantumRegister("q", 1) })
	assert.Panics(func() { c.RZ(0.5, Qubit{}) })

	other := New("c2")
	foreign := other.AddQuantumRegister("p", 1)
	assert.Panics(func() { c.RZ(0.5, foreign.Bit(0)) })

	m := other.AddClassicalRegister("m", 1)
	assert.Panics(func() { c.Measure(q.Bit(0), m.Bit(0)) })
}

func TestLayoutDeclarationOrder(t *testing.T) {
	assert := require.New(t)

	c := New("layout")
	a := c.AddQuantumRegister("a", 2)
	b := c.AddQuantumRegister("b", 3)
	m := c.AddClassicalRegister("m", 1)
	n := c.AddClassicalRegister("n", 2)

	lay := LayoutOf(c)
	assert.Equal(5, lay.NumQubits())
	assert.Equal(3, lay.NumClbits())

	for i, q := range []Qubit{a.Bit(0), a.Bit(1), b.Bit(0), b.Bit(1), b.Bit(2)} {
		got, ok := lay.QubitIndex(q)
		assert.True(ok)
		assert.Equal(i, got)
		assert.Equal(q, lay.QubitAt(i))
	}
	for i, cb := range []Clbit{m.Bit(0), n.Bit(0), n.Bit(1)} {
		got, ok := lay.ClbitIndex(cb)
		assert.True(ok)
		assert.Equal(i, got)
		assert.Equal(cb, lay.ClbitAt(i))
	}

	foreign := New("other").AddQuantumRegister("z", 1)
	_, ok := lay.QubitIndex(foreign.Bit(0))
	assert.False(ok)
}

func TestOffsets(t *testing.T) {
	assert := require.New(t)
	assert.Empty(Offsets(nil))
	assert.Equal([]int{0}, Offsets([]int{4}))
	assert.Equal([]int{0, 2, 5}, Offsets([]int{2, 3, 1}))
	assert.Equal([]int{0, 0, 3}, Offsets([]int{0, 3, 2}))
}

// Offsets must satisfy offsets[i+1] = offsets[i] + sizes[i] with
// offsets[0] = 0 for any size vector.
func TestOffsetsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("prefix sums of the size vector", prop.ForAll(
		func(sizes []int) bool {
			offsets := Offsets(sizes)
			if len(offsets) != len(sizes) {
				return false
			}
			if len(offsets) > 0 && offsets[0] != 0 {
				return false
			}
			for i := 1; i < len(offsets); i++ {
				if offsets[i] != offsets[i-1]+sizes[i-1] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 64)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestInstructionsClone(t *testing.T) {
	assert := require.New(t)

	c := New("clone")
	q := c.AddQuantumRegister("q", 1)
	c.RZ(1.0, q.Bit(0))

	got := c.Instructions()
	got[0] = Instruction{}
	assert.Equal("rz", c.Instructions()[0].Op.Name())
}
