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

// Package session tracks per-id rows for a viewer: frame counters,
// inter-arrival deltas, CANopen classification and decoded values. It
// owns the row map; the classifier and codec stay pure.
package session

import (
	"fmt"
	"sort"
	"strings"

	canview "github.com/CanViewProject/go-canview"
	"github.com/CanViewProject/go-canview/layout"
)

// Row is the accumulated state for one arbitration id. Row identity is
// the sort key, so a standard and an extended frame with equal id bits
// stay distinct.
type Row struct {
	// Key is Frame.SortKey() of the frames accumulated here.
	Key uint64
	// Frame is the most recently received frame for this id.
	Frame canview.Frame
	// Count is the number of frames since the row appeared or its DLC
	// last changed.
	Count uint64
	// Time is the last frame's timestamp relative to the session start.
	Time float64
	// Dt is the inter-arrival delta to the previous frame, 0 for the
	// first frame of a row.
	Dt float64
	// Function and Node are the CANopen classification columns, empty
	// when the frame did not classify.
	Function string
	Node     string
	// Values holds the decoded payload when a layout is registered for
	// the id and decoding succeeded, nil otherwise.
	Values []any
}

// ValuesString formats the decoded values for display: floats with six
// decimals, everything else in its natural form.
func (r *Row) ValuesString() string {
	if r.Values == nil {
		return ""
	}
	parts := make([]string, len(r.Values))
	for i, v := range r.Values {
		if f, ok := v.(float64); ok {
			parts[i] = fmt.Sprintf("%.6f", f)
		} else {
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, " ")
}

// Session consumes frames and maintains the ordered row set.
type Session struct {
	table   *layout.Table
	filters []canview.Filter
	rows    map[uint64]*Row
	keys    []uint64
	start   float64
	started bool
	canopen bool
}

// New creates a session with the given options.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		rows:    make(map[uint64]*Row),
		canopen: true,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// OnFrame consumes one received frame and returns the updated row, or
// nil when the frame was rejected by the receive filters. Frames must
// arrive in order from a single goroutine.
func (s *Session) OnFrame(f canview.Frame) *Row {
	if !canview.MatchAny(s.filters, f) {
		return nil
	}
	if !s.started {
		s.started = true
		if s.start == 0 {
			s.start = f.Timestamp
		}
	}

	key := f.SortKey()
	row, ok := s.rows[key]
	switch {
	case !ok:
		row = &Row{Key: key}
		s.rows[key] = row
		s.insertKey(key)
		row.Count = 1
	case f.DLC() != row.Frame.DLC():
		// A changed length restarts the counter but keeps the row's
		// position.
		row.Count = 1
		row.Dt = 0
	default:
		row.Dt = f.Timestamp - row.Frame.Timestamp
		row.Count++
	}
	row.Frame = f
	row.Time = f.Timestamp - s.start

	row.Function, row.Node = "", ""
	if s.canopen {
		if c, ok := canview.Classify(f); ok {
			row.Function = c.Function
			row.Node = c.Node
		}
	}

	// A failed decode leaves the column empty; the frame is still shown
	// and later frames are unaffected.
	row.Values = nil
	if s.table != nil {
		if values, err := s.table.Unpack(f.ID, f.Data); err == nil {
			row.Values = values
		}
	}
	return row
}

// Rows returns the rows ordered ascending by sort key: standard ids
// first in numeric order, then extended ids.
func (s *Session) Rows() []*Row {
	out := make([]*Row, len(s.keys))
	for i, k := range s.keys {
		out[i] = s.rows[k]
	}
	return out
}

// Len returns the number of tracked rows.
func (s *Session) Len() int {
	return len(s.keys)
}

// Clear drops all rows and restarts the session clock at the next frame.
func (s *Session) Clear() {
	s.rows = make(map[uint64]*Row)
	s.keys = s.keys[:0]
	s.started = false
	s.start = 0
}

func (s *Session) insertKey(key uint64) {
	i := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] >= key })
	s.keys = append(s.keys, 0)
	copy(s.keys[i+1:], s.keys[i:])
	s.keys[i] = key
}
