// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package result

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestFormatCounts(t *testing.T) {
	samples := [][]uint8{{1, 0, 0}, {0, 1, 0}, {1, 0, 0}}

	require.Equal(t,
		map[string]int{"0x1": 2, "0x2": 1},
		FormatCounts(samples, nil),
	)

	// The map reverses the bit order: qubit 0 feeds clbit 2 and so on.
	require.Equal(t,
		map[string]int{"0x4": 2, "0x2": 1},
		FormatCounts(samples, MemoryMap{0: {2}, 1: {1}, 2: {0}}),
	)
}

// A qubit measured into two classical bits sets both in every shot.
func TestFormatCountsFanOut(t *testing.T) {
	counts := FormatCounts([][]uint8{{1}, {0}, {1}}, MemoryMap{0: {0, 1}})
	require.Equal(t, map[string]int{"0x3": 2, "0x0": 1}, counts)
}

// Bits without a measurement stay 0, shrinking the set of reachable
// values, never shifting the mapped ones.
func TestFormatCountsUnmappedBits(t *testing.T) {
	counts := FormatCounts([][]uint8{{1, 1}, {1, 0}}, MemoryMap{0: {0}, 1: {3}})
	require.Equal(t, map[string]int{"0x9": 1, "0x1": 1}, counts)
}

// A mapped qubit beyond the shot width is skipped: its bits read 0. The
// remaining qubits still land in their slots.
func TestFormatCountsQubitBeyondSamples(t *testing.T) {
	counts := FormatCounts([][]uint8{{1}}, MemoryMap{0: {0}, 7: {1}})
	require.Equal(t, map[string]int{"0x1": 1}, counts)
}

func TestFormatCountsWideRegister(t *testing.T) {
	// 68 qubits, all reading 1: the value spans two words.
	shot := make([]uint8, 68)
	for i := range shot {
		shot[i] = 1
	}
	counts := FormatCounts([][]uint8{shot}, nil)
	require.Equal(t, map[string]int{"0xfffffffffffffffff": 1}, counts)
}

func TestFormatMemory(t *testing.T) {
	assert := require.New(t)

	samples := [][]uint8{{1, 0, 0}, {0, 1, 0}, {1, 0, 0}}
	assert.Equal([]string{"001", "010", "001"}, FormatMemory(samples, nil))
	assert.Equal(
		[]string{"100", "010", "100"},
		FormatMemory(samples, MemoryMap{0: {2}, 1: {1}, 2: {0}}),
	)

	// Width follows the map's register, not the shot vector.
	assert.Equal([]string{"1001", "0000"}, FormatMemory([][]uint8{{1, 1}, {0, 1}}, MemoryMap{0: {0, 3}}))
}

func TestFormatEmpty(t *testing.T) {
	assert := require.New(t)

	assert.Empty(FormatCounts(nil, nil))
	assert.Empty(FormatMemory(nil, nil))

	// No measurements at all: every shot collapses to zero.
	counts := FormatCounts([][]uint8{{1, 1}, {0, 1}}, MemoryMap{})
	assert.Equal(map[string]int{"0x0": 2}, counts)
}

// Counts always account for every shot exactly once.
func TestFormatCountsAccounting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	sum := func(counts map[string]int) int {
		total := 0
		for _, n := range counts {
			total += n
		}
		return total
	}

	properties.Property("sum(counts) == shots without map", prop.ForAll(
		func(samples [][]uint8) bool {
			return sum(FormatCounts(samples, nil)) == len(samples)
		},
		gen.SliceOf(gen.SliceOfN(5, gen.UInt8Range(0, 1))),
	))

	properties.Property("sum(counts) == shots with map", prop.ForAll(
		func(samples [][]uint8) bool {
			mm := MemoryMap{0: {1}, 2: {0}, 4: {2, 3}}
			counts := FormatCounts(samples, mm)
			if sum(counts) != len(samples) {
				return false
			}
			memory := FormatMemory(samples, mm)
			return len(memory) == len(samples)
		},
		gen.SliceOf(gen.SliceOfN(5, gen.UInt8Range(0, 1))),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
