// go-canview
// Copyright (c) 2025 The CanView Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-canview.
//
// go-canview is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-canview is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-canview; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package cborlog records and replays frame captures as a stream of
// CBOR records, one per frame. The format is self-delimiting, so
// captures can be appended to and truncated captures replay up to the
// damage.
package cborlog

import (
	"errors"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"

	canview "github.com/CanViewProject/go-canview"
)

// record is the on-disk form of one frame. Integer keys keep captures
// compact.
type record struct {
	ID        uint32  `cbor:"1,keyasint"`
	Extended  bool    `cbor:"2,keyasint,omitempty"`
	RTR       bool    `cbor:"3,keyasint,omitempty"`
	Data      []byte  `cbor:"4,keyasint,omitempty"`
	Timestamp float64 `cbor:"5,keyasint,omitempty"`
}

// Writer appends frames to a capture stream.
type Writer struct {
	enc    *cbor.Encoder
	closer io.Closer
}

// NewWriter creates a writer over an open stream.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: cbor.NewEncoder(w)}
}

// Create creates a capture file, truncating an existing one.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &canview.SourceError{Op: "create", Source: canview.SourceCBORLog, Err: err}
	}
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// WriteFrame appends one frame to the capture.
func (w *Writer) WriteFrame(f canview.Frame) error {
	err := w.enc.Encode(record{
		ID:        f.ID,
		Extended:  f.Extended,
		RTR:       f.RTR,
		Data:      f.Data,
		Timestamp: f.Timestamp,
	})
	if err != nil {
		return &canview.SourceError{Op: "write", Source: canview.SourceCBORLog, Err: err}
	}
	return nil
}

// Close closes the underlying file, if any.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	if err := w.closer.Close(); err != nil {
		return &canview.SourceError{Op: "close", Source: canview.SourceCBORLog, Err: err}
	}
	return nil
}

// Reader replays a capture stream as a frame source.
type Reader struct {
	dec    *cbor.Decoder
	closer io.Closer
}

// NewReader creates a reader over an open capture stream.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: cbor.NewDecoder(r)}
}

// Open creates a reader over a capture file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &canview.SourceError{Op: "open", Source: canview.SourceCBORLog, Err: err}
	}
	r := NewReader(f)
	r.closer = f
	return r, nil
}

// ReadFrame returns the next recorded frame, or io.EOF once the capture
// is drained. A truncated trailing record also ends the replay.
func (r *Reader) ReadFrame() (canview.Frame, error) {
	var rec record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return canview.Frame{}, io.EOF
		}
		return canview.Frame{}, &canview.SourceError{Op: "read", Source: canview.SourceCBORLog, Err: err}
	}
	return canview.Frame{
		ID:        rec.ID,
		Extended:  rec.Extended,
		RTR:       rec.RTR,
		Data:      rec.Data,
		Timestamp: rec.Timestamp,
	}, nil
}

// Close closes the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	if err := r.closer.Close(); err != nil {
		return &canview.SourceError{Op: "close", Source: canview.SourceCBORLog, Err: err}
	}
	return nil
}

// Type returns the source backend type.
func (*Reader) Type() canview.SourceType {
	return canview.SourceCBORLog
}

// RecordingSource wraps a source, appending every frame it yields to a
// capture writer.
type RecordingSource struct {
	src canview.Source
	w   *Writer
}

// NewRecordingSource wraps src so every successfully read frame is also
// written to w.
func NewRecordingSource(src canview.Source, w *Writer) *RecordingSource {
	return &RecordingSource{src: src, w: w}
}

// ReadFrame reads from the wrapped source and records the frame. On a
// capture write failure the frame is returned together with the error.
func (r *RecordingSource) ReadFrame() (canview.Frame, error) {
	f, err := r.src.ReadFrame()
	if err != nil {
		return f, err
	}
	if werr := r.w.WriteFrame(f); werr != nil {
		return f, werr
	}
	return f, nil
}

// Close closes the capture writer, then the wrapped source.
func (r *RecordingSource) Close() error {
	werr := r.w.Close()
	serr := r.src.Close()
	if werr != nil {
		return werr
	}
	return serr
}

// Type returns the wrapped source's backend type.
func (r *RecordingSource) Type() canview.SourceType {
	return r.src.Type()
}
