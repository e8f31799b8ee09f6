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

// Package virtual provides an in-memory frame source for tests and
// demos. Frames written with Send (or WriteFrame) are read back in
// order.
package virtual

import (
	"io"
	"sync"
	"time"

	canview "github.com/CanViewProject/go-canview"
)

// Source is an in-memory loopback bus.
type Source struct {
	mu     sync.Mutex
	queue  []canview.Frame
	closed bool
	epoch  time.Time
}

// New creates an empty virtual source.
func New() *Source {
	return &Source{epoch: time.Now()}
}

// Send queues a frame for reading. A zero timestamp is stamped with the
// source's monotonic clock. Sending on a closed source is a no-op.
func (s *Source) Send(f canview.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if f.Timestamp == 0 {
		f.Timestamp = time.Since(s.epoch).Seconds()
	}
	s.queue = append(s.queue, f)
}

// WriteFrame implements canview.FrameWriter.
func (s *Source) WriteFrame(f canview.Frame) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return canview.ErrSourceClosed
	}
	s.Send(f)
	return nil
}

// ReadFrame returns the next queued frame. It reports
// canview.ErrNoFrame while the queue is empty and io.EOF once the
// source is closed and drained.
func (s *Source) ReadFrame() (canview.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		if s.closed {
			return canview.Frame{}, io.EOF
		}
		return canview.Frame{}, canview.ErrNoFrame
	}
	f := s.queue[0]
	s.queue = s.queue[1:]
	return f, nil
}

// Close stops accepting frames; queued frames remain readable.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Type returns the source backend type.
func (*Source) Type() canview.SourceType {
	return canview.SourceVirtual
}
