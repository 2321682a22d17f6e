// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package ioutils provides byte-accounting wrappers and length-prefixed
// integer-compression frames shared by the binary serializers.
package ioutils

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ronanh/intcomp"
)

// maxFrameWords caps the declared length of a compressed frame. Frames
// come from untrusted readers; the cap bounds the allocation a corrupt
// length prefix can trigger.
const maxFrameWords = 1 << 28

// WriterCounter counts the bytes written through it.
type WriterCounter struct {
	W io.Writer
	N int64
}

func (w *WriterCounter) Write(p []byte) (n int, err error) {
	n, err = w.W.Write(p)
	w.N += int64(n)
	return
}

// ReaderCounter counts the bytes read through it.
type ReaderCounter struct {
	R io.Reader
	N int64
}

func (r *ReaderCounter) Read(p []byte) (n int, err error) {
	n, err = r.R.Read(p)
	r.N += int64(n)
	return
}

// CompressAndWriteUints32 compresses input and writes it to w as a
// length-prefixed frame. It returns the compression buffer (possibly
// extended) for reuse on the next frame.
func CompressAndWriteUints32(w io.Writer, input []uint32, buffer []uint32) ([]uint32, error) {
	buffer = intcomp.CompressUint32(input, buffer[:0])
	if err := binary.Write(w, binary.LittleEndian, uint64(len(buffer))); err != nil {
		return buffer, err
	}
	return buffer, binary.Write(w, binary.LittleEndian, buffer)
}

// CompressAndWriteUints64 compresses input and writes it to w as a
// length-prefixed frame. It returns the compression buffer (possibly
// extended) for reuse on the next frame.
func CompressAndWriteUints64(w io.Writer, input []uint64, buffer []uint64) ([]uint64, error) {
	buffer = intcomp.CompressUint64(input, buffer[:0])
	if err := binary.Write(w, binary.LittleEndian, uint64(len(buffer))); err != nil {
		return buffer, err
	}
	return buffer, binary.Write(w, binary.LittleEndian, buffer)
}

// ReadAndDecompressUints32 reads one frame written by
// CompressAndWriteUints32 and decompresses it.
func ReadAndDecompressUints32(r io.Reader) ([]uint32, error) {
	length, err := readFrameLen(r)
	if err != nil {
		return nil, err
	}
	buffer := make([]uint32, length)
	if err := binary.Read(r, binary.LittleEndian, buffer); err != nil {
		return nil, err
	}
	return intcomp.UncompressUint32(buffer, nil), nil
}

// ReadAndDecompressUints64 reads one frame written by
// CompressAndWriteUints64 and decompresses it.
func ReadAndDecompressUints64(r io.Reader) ([]uint64, error) {
	length, err := readFrameLen(r)
	if err != nil {
		return nil, err
	}
	buffer := make([]uint64, length)
	if err := binary.Read(r, binary.LittleEndian, buffer); err != nil {
		return nil, err
	}
	return intcomp.UncompressUint64(buffer, nil), nil
}

func readFrameLen(r io.Reader) (uint64, error) {
	var length uint64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return 0, err
	}
	if length > maxFrameWords {
		return 0, fmt.Errorf("frame declares %d words, limit is %d", length, maxFrameWords)
	}
	return length, nil
}
