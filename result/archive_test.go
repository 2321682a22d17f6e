// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package result

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// testSamples builds a deterministic shot matrix.
func testSamples(shots, numQubits int) [][]uint8 {
	samples := make([][]uint8, shots)
	for s := range samples {
		shot := make([]uint8, numQubits)
		for q := range shot {
			shot[q] = uint8((s + q) % 2)
		}
		samples[s] = shot
	}
	return samples
}

// One circuit per block encoding: packed 32-bit, packed 64-bit, bitstream.
func testArchive() *Archive {
	return &Archive{
		JobID: "5d3b1e1e-0e5f-4a34-b8d7-5a25c6b6a723",
		Label: "roundtrip",
		Circuits: []CircuitSamples{
			{NumQubits: 3, Samples: testSamples(17, 3)},
			{NumQubits: 40, Samples: testSamples(5, 40)},
			{NumQubits: 70, Samples: testSamples(9, 70)},
		},
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	assert := require.New(t)

	in := testArchive()
	var buf bytes.Buffer
	written, err := in.WriteTo(&buf)
	assert.NoError(err)
	assert.Equal(int64(buf.Len()), written)

	var out Archive
	read, err := out.ReadFrom(bytes.NewReader(buf.Bytes()))
	assert.NoError(err)
	assert.Equal(written, read)

	if diff := cmp.Diff(in, &out); diff != "" {
		t.Fatalf("archive mismatch (-want +got):\n%s", diff)
	}
}

func TestArchiveEmpty(t *testing.T) {
	assert := require.New(t)

	in := &Archive{JobID: "x"}
	var buf bytes.Buffer
	_, err := in.WriteTo(&buf)
	assert.NoError(err)

	var out Archive
	_, err = out.ReadFrom(&buf)
	assert.NoError(err)
	assert.Equal("x", out.JobID)
	assert.Empty(out.Circuits)
}

func TestArchiveZeroShotCircuit(t *testing.T) {
	assert := require.New(t)

	in := &Archive{Circuits: []CircuitSamples{{NumQubits: 2}}}
	var buf bytes.Buffer
	_, err := in.WriteTo(&buf)
	assert.NoError(err)

	var out Archive
	_, err = out.ReadFrom(&buf)
	assert.NoError(err)
	assert.Equal(2, out.Circuits[0].NumQubits)
	assert.Empty(out.Circuits[0].Samples)
}

func TestArchiveWriteValidation(t *testing.T) {
	assert := require.New(t)

	var buf bytes.Buffer

	bad := &Archive{Circuits: []CircuitSamples{{NumQubits: 0}}}
	_, err := bad.WriteTo(&buf)
	assert.ErrorContains(err, "positive")

	bad = &Archive{Circuits: []CircuitSamples{{NumQubits: 2, Samples: [][]uint8{{1}}}}}
	_, err = bad.WriteTo(&buf)
	assert.ErrorContains(err, "readouts")

	bad = &Archive{Circuits: []CircuitSamples{{NumQubits: 1, Samples: [][]uint8{{2}}}}}
	_, err = bad.WriteTo(&buf)
	assert.ErrorContains(err, "not 0 or 1")
}

func TestArchiveCorruption(t *testing.T) {
	assert := require.New(t)

	var buf bytes.Buffer
	_, err := testArchive().WriteTo(&buf)
	assert.NoError(err)
	pristine := buf.Bytes()

	var out Archive

	// bad magic
	data := bytes.Clone(pristine)
	data[0] = 'X'
	_, err = out.ReadFrom(bytes.NewReader(data))
	assert.ErrorIs(err, ErrCorruptArchive)

	// unsupported version
	data = bytes.Clone(pristine)
	data[4] = 0xff
	_, err = out.ReadFrom(bytes.NewReader(data))
	assert.ErrorIs(err, ErrCorruptArchive)

	// flipped digest
	data = bytes.Clone(pristine)
	data[len(data)-1] ^= 0x01
	_, err = out.ReadFrom(bytes.NewReader(data))
	assert.ErrorIs(err, ErrCorruptArchive)

	// truncated stream
	_, err = out.ReadFrom(bytes.NewReader(pristine[:len(pristine)-5]))
	assert.ErrorIs(err, ErrCorruptArchive)

	_, err = out.ReadFrom(bytes.NewReader(pristine[:3]))
	assert.ErrorIs(err, ErrCorruptArchive)
}
