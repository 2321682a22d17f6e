// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package result

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/icza/bitio"
	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"

	iontide "github.com/iontide/iontide-go"
	"github.com/iontide/iontide-go/internal/ioutils"
	"github.com/iontide/iontide-go/logger"
)

// ErrCorruptArchive is returned by Archive.ReadFrom when the stream is not
// a well-formed sample archive: bad magic, unsupported version, truncated
// blocks or a digest mismatch.
var ErrCorruptArchive = errors.New("corrupt sample archive")

var archiveMagic = [4]byte{'I', 'T', 'S', 'A'}

const (
	archiveVersion = 1

	maxHeaderBytes = 1 << 24
	maxBlockBytes  = 1 << 30
)

// Per-circuit sample encodings. Shots of circuits that fit a machine word
// are packed into integers (readout of qubit q at bit q) and
// integer-compressed; wider circuits fall back to a plain bitstream.
const (
	encPacked32 uint8 = iota + 1
	encPacked64
	encBitstream
)

// CircuitSamples holds the raw samples of one circuit of a job: one row
// per shot, one 0/1 readout per qubit.
type CircuitSamples struct {
	NumQubits int
	Samples   [][]uint8
}

// Archive is the re-playable raw form of a finished job: everything needed
// to reformat counts later, without the provider. The binary layout is a
// CBOR header followed by one compressed block per circuit and a SHA3-256
// digest of all preceding bytes.
type Archive struct {
	JobID    string
	Label    string
	Circuits []CircuitSamples
}

type archiveHeader struct {
	SDKVersion string
	JobID      string
	Label      string
	Circuits   []archiveCircuitHeader
}

type archiveCircuitHeader struct {
	NumQubits int
	Shots     int
	Encoding  uint8
}

func encodingFor(numQubits int) uint8 {
	switch {
	case numQubits <= 32:
		return encPacked32
	case numQubits <= 64:
		return encPacked64
	default:
		return encBitstream
	}
}

// WriteTo implements io.WriterTo. Circuit blocks are encoded in parallel,
// then written in order.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	if err := a.validate(); err != nil {
		return 0, err
	}

	header := archiveHeader{
		SDKVersion: iontide.Version.String(),
		JobID:      a.JobID,
		Label:      a.Label,
		Circuits:   make([]archiveCircuitHeader, len(a.Circuits)),
	}
	blocks := make([][]byte, len(a.Circuits))
	var g errgroup.Group
	for i := range a.Circuits {
		cs := &a.Circuits[i]
		header.Circuits[i] = archiveCircuitHeader{
			NumQubits: cs.NumQubits,
			Shots:     len(cs.Samples),
			Encoding:  encodingFor(cs.NumQubits),
		}
		i := i
		g.Go(func() error {
			var err error
			blocks[i], err = encodeBlock(cs)
			return err
		})
	}

	encMode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return 0, err
	}
	headerBytes, err := encMode.Marshal(&header)
	if err != nil {
		return 0, err
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	cnt := &ioutils.WriterCounter{W: w}
	h := sha3.New256()
	mw := io.MultiWriter(cnt, h)

	if _, err := mw.Write(archiveMagic[:]); err != nil {
		return cnt.N, err
	}
	if _, err := mw.Write([]byte{archiveVersion}); err != nil {
		return cnt.N, err
	}
	if err := binary.Write(mw, binary.LittleEndian, uint64(len(headerBytes))); err != nil {
		return cnt.N, err
	}
	if _, err := mw.Write(headerBytes); err != nil {
		return cnt.N, err
	}
	for _, block := range blocks {
		if _, err := mw.Write(block); err != nil {
			return cnt.N, err
		}
	}

	// digest covers everything written so far and is not part of it
	if _, err := cnt.Write(h.Sum(nil)); err != nil {
		return cnt.N, err
	}
	return cnt.N, nil
}

// ReadFrom implements io.ReaderFrom, the inverse of WriteTo. It verifies
// the trailing digest and fails with ErrCorruptArchive on any structural
// mismatch. A version recorded by a different SDK release logs a warning.
func (a *Archive) ReadFrom(r io.Reader) (int64, error) {
	cnt := &ioutils.ReaderCounter{R: r}
	h := sha3.New256()
	tee := io.TeeReader(cnt, h)

	var magic [4]byte
	if _, err := io.ReadFull(tee, magic[:]); err != nil {
		return cnt.N, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	if magic != archiveMagic {
		return cnt.N, fmt.Errorf("%w: bad magic %q", ErrCorruptArchive, magic[:])
	}
	var version [1]byte
	if _, err := io.ReadFull(tee, version[:]); err != nil {
		return cnt.N, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	if version[0] != archiveVersion {
		return cnt.N, fmt.Errorf("%w: unsupported archive version %d", ErrCorruptArchive, version[0])
	}

	var headerLen uint64
	if err := binary.Read(tee, binary.LittleEndian, &headerLen); err != nil {
		return cnt.N, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	if headerLen > maxHeaderBytes {
		return cnt.N, fmt.Errorf("%w: header declares %d bytes", ErrCorruptArchive, headerLen)
	}
	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(tee, headerBytes); err != nil {
		return cnt.N, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	var header archiveHeader
	if err := cbor.Unmarshal(headerBytes, &header); err != nil {
		return cnt.N, fmt.Errorf("%w: decoding header: %v", ErrCorruptArchive, err)
	}
	checkArchiveVersion(header.SDKVersion)

	out := Archive{
		JobID:    header.JobID,
		Label:    header.Label,
		Circuits: make([]CircuitSamples, len(header.Circuits)),
	}
	for i, ch := range header.Circuits {
		if ch.NumQubits <= 0 || ch.Shots < 0 {
			return cnt.N, fmt.Errorf("%w: circuit %d declares %d qubits, %d shots", ErrCorruptArchive, i, ch.NumQubits, ch.Shots)
		}
		samples, err := decodeBlock(tee, ch)
		if err != nil {
			return cnt.N, fmt.Errorf("circuit %d: %w", i, err)
		}
		out.Circuits[i] = CircuitSamples{NumQubits: ch.NumQubits, Samples: samples}
	}

	digest := h.Sum(nil)
	want := make([]byte, len(digest))
	if _, err := io.ReadFull(cnt, want); err != nil {
		return cnt.N, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	if !bytes.Equal(digest, want) {
		return cnt.N, fmt.Errorf("%w: digest mismatch", ErrCorruptArchive)
	}

	*a = out
	return cnt.N, nil
}

func (a *Archive) validate() error {
	for i, cs := range a.Circuits {
		if cs.NumQubits <= 0 {
			return fmt.Errorf("circuit %d: number of qubits must be positive, got %d", i, cs.NumQubits)
		}
		for s, shot := range cs.Samples {
			if len(shot) != cs.NumQubits {
				return fmt.Errorf("circuit %d shot %d: %d readouts for %d qubits", i, s, len(shot), cs.NumQubits)
			}
			for q, state := range shot {
				if state > 1 {
					return fmt.Errorf("circuit %d shot %d qubit %d: readout %d is not 0 or 1", i, s, q, state)
				}
			}
		}
	}
	return nil
}

func encodeBlock(cs *CircuitSamples) ([]byte, error) {
	buf := new(bytes.Buffer)
	switch encodingFor(cs.NumQubits) {
	case encPacked32:
		values := make([]uint32, len(cs.Samples))
		for s, shot := range cs.Samples {
			values[s] = uint32(packShot(shot))
		}
		if _, err := ioutils.CompressAndWriteUints32(buf, values, nil); err != nil {
			return nil, err
		}
	case encPacked64:
		values := make([]uint64, len(cs.Samples))
		for s, shot := range cs.Samples {
			values[s] = packShot(shot)
		}
		if _, err := ioutils.CompressAndWriteUints64(buf, values, nil); err != nil {
			return nil, err
		}
	default:
		stream := new(bytes.Buffer)
		bw := bitio.NewWriter(stream)
		for _, shot := range cs.Samples {
			for _, state := range shot {
				if err := bw.WriteBool(state == 1); err != nil {
					return nil, err
				}
			}
		}
		if err := bw.Close(); err != nil {
			return nil, err
		}
		if err := binary.Write(buf, binary.LittleEndian, uint64(stream.Len())); err != nil {
			return nil, err
		}
		if _, err := stream.WriteTo(buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func decodeBlock(r io.Reader, ch archiveCircuitHeader) ([][]uint8, error) {
	switch ch.Encoding {
	case encPacked32:
		values, err := ioutils.ReadAndDecompressUints32(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
		}
		if len(values) != ch.Shots {
			return nil, fmt.Errorf("%w: block holds %d shots, header declares %d", ErrCorruptArchive, len(values), ch.Shots)
		}
		samples := make([][]uint8, len(values))
		for s, v := range values {
			samples[s] = unpackShot(uint64(v), ch.NumQubits)
		}
		return samples, nil
	case encPacked64:
		values, err := ioutils.ReadAndDecompressUints64(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
		}
		if len(values) != ch.Shots {
			return nil, fmt.Errorf("%w: block holds %d shots, header declares %d", ErrCorruptArchive, len(values), ch.Shots)
		}
		samples := make([][]uint8, len(values))
		for s, v := range values {
			samples[s] = unpackShot(v, ch.NumQubits)
		}
		return samples, nil
	case encBitstream:
		var byteLen uint64
		if err := binary.Read(r, binary.LittleEndian, &byteLen); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
		}
		expected := (uint64(ch.Shots)*uint64(ch.NumQubits) + 7) / 8
		if byteLen != expected || byteLen > maxBlockBytes {
			return nil, fmt.Errorf("%w: bitstream block declares %d bytes, expected %d", ErrCorruptArchive, byteLen, expected)
		}
		block := make([]byte, byteLen)
		if _, err := io.ReadFull(r, block); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
		}
		br := bitio.NewReader(bytes.NewReader(block))
		samples := make([][]uint8, ch.Shots)
		for s := range samples {
			shot := make([]uint8, ch.NumQubits)
			for q := range shot {
				bit, err := br.ReadBool()
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
				}
				if bit {
					shot[q] = 1
				}
			}
			samples[s] = shot
		}
		return samples, nil
	default:
		return nil, fmt.Errorf("%w: unknown block encoding %d", ErrCorruptArchive, ch.Encoding)
	}
}

// packShot packs per-qubit readouts into an integer, qubit q at bit q.
func packShot(shot []uint8) uint64 {
	var v uint64
	for q, state := range shot {
		if state == 1 {
			v |= 1 << q
		}
	}
	return v
}

func unpackShot(v uint64, numQubits int) []uint8 {
	shot := make([]uint8, numQubits)
	for q := range shot {
		shot[q] = uint8(v >> q & 1)
	}
	return shot
}

// checkArchiveVersion compares the SDK version recorded in an archive with
// the running one.
func checkArchiveVersion(recorded string) {
	recordedVersion, err := semver.Parse(recorded)
	if err != nil {
		log := logger.Logger()
		log.Warn().Str("recorded", recorded).Msg("archive carries an unparseable SDK version")
		return
	}
	if iontide.Version.Compare(recordedVersion) != 0 {
		log := logger.Logger()
		log.Warn().Str("binary", iontide.Version.String()).Str("archive", recordedVersion.String()).Msg("SDK version mismatch with sample archive. there are no guarantees on compatibility")
	}
}
