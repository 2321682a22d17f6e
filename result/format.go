// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package result

import (
	"encoding/binary"
	"math/big"
	"slices"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/iontide/iontide-go/logger"
)

// FormatCounts groups shots into the histogram callers consume: classical
// register value, as a lowercase 0x-prefixed hex string without leading
// zeros, to number of occurrences. The counts always sum to the number of
// shots.
//
// With a nil map the shot is read verbatim: readout i is classical bit i.
// With a memory map, a register of MemorySlots bits is assembled per shot;
// bits no measurement targets stay 0. Bit 0 is the least significant bit
// of the value.
func FormatCounts(samples [][]uint8, mm MemoryMap) map[string]int {
	counts := make(map[string]int, len(samples))
	skipped := newSkipLog()
	for _, shot := range samples {
		reg := shotRegister(shot, mm, skipped)
		counts[hexValue(reg)]++
	}
	skipped.flush()
	return counts
}

// FormatMemory returns one bitstring per shot, in shot order: the
// classical register most-significant bit first, zero-padded to the
// register width. The bit order matches the hex values of FormatCounts.
func FormatMemory(samples [][]uint8, mm MemoryMap) []string {
	memory := make([]string, len(samples))
	skipped := newSkipLog()
	for i, shot := range samples {
		memory[i] = bitstring(shotRegister(shot, mm, skipped))
	}
	skipped.flush()
	return memory
}

// shotRegister assembles the classical register of one shot.
func shotRegister(shot []uint8, mm MemoryMap, skipped *skipLog) *bitset.BitSet {
	if mm == nil {
		reg := bitset.New(uint(len(shot)))
		for i, state := range shot {
			if state != 0 {
				reg.Set(uint(i))
			}
		}
		return reg
	}

	reg := bitset.New(uint(mm.MemorySlots()))
	for qubit, clbits := range mm {
		if qubit < 0 || qubit >= len(shot) {
			skipped.add(qubit)
			continue
		}
		if shot[qubit] == 0 {
			continue
		}
		for _, ci := range clbits {
			reg.Set(uint(ci))
		}
	}
	return reg
}

// hexValue renders the register as 0x-prefixed lowercase hex, bit 0 least
// significant.
func hexValue(reg *bitset.BitSet) string {
	words := reg.Bytes()
	buf := make([]byte, 8*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint64(buf[8*(len(words)-1-i):], w)
	}
	var z big.Int
	z.SetBytes(buf)
	return "0x" + z.Text(16)
}

// bitstring renders the register most-significant bit first, fixed width.
func bitstring(reg *bitset.BitSet) string {
	var sb strings.Builder
	sb.Grow(int(reg.Len()))
	for i := int(reg.Len()) - 1; i >= 0; i-- {
		if reg.Test(uint(i)) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// skipLog aggregates mapped qubits absent from the shot vectors, so a
// malformed reply logs once per formatting pass instead of once per shot.
// A qubit the map knows but the samples don't means the provider reply and
// the circuit disagree; the affected bits are left 0.
type skipLog struct {
	qubits map[int]struct{}
}

func newSkipLog() *skipLog {
	return &skipLog{qubits: make(map[int]struct{})}
}

func (s *skipLog) add(qubit int) {
	s.qubits[qubit] = struct{}{}
}

func (s *skipLog) flush() {
	if len(s.qubits) == 0 {
		return
	}
	qs := make([]int, 0, len(s.qubits))
	for q := range s.qubits {
		qs = append(qs, q)
	}
	slices.Sort(qs)
	log := logger.Logger()
	log.Warn().Ints("qubits", qs).Msg("memory map references qubits absent from the samples; target bits left 0")
}
