// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package iontest

import (
	"golang.org/x/exp/rand"
)

// Samples returns shots × numQubits uniformly random 0/1 readouts,
// deterministic in the seed.
func Samples(seed uint64, shots, numQubits int) [][]uint8 {
	rng := rand.New(rand.NewSource(seed))
	samples := make([][]uint8, shots)
	for s := range samples {
		shot := make([]uint8, numQubits)
		for q := range shot {
			shot[q] = uint8(rng.Intn(2))
		}
		samples[s] = shot
	}
	return samples
}

// CorrelatedSamples returns shots of an ideal GHZ outcome over numQubits
// qubits: every shot is all zeros or all ones, deterministic in the seed.
func CorrelatedSamples(seed uint64, shots, numQubits int) [][]uint8 {
	rng := rand.New(rand.NewSource(seed))
	samples := make([][]uint8, shots)
	for s := range samples {
		state := uint8(rng.Intn(2))
		shot := make([]uint8, numQubits)
		for q := range shot {
			shot[q] = state
		}
		samples[s] = shot
	}
	return samples
}
