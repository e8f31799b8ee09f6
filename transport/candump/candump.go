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

// Package candump replays CAN capture logs as a frame source. Two
// formats are detected automatically: candump text
// ("(1234.567890) can0 123#DEADBEEF") and SavvyCAN CSV
// ("Time Stamp,ID,Extended,Dir,Bus,LEN,D1..D8", timestamps in
// microseconds).
package candump

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	canview "github.com/CanViewProject/go-canview"
)

// Reader replays a capture log. Malformed lines are skipped so one bad
// record does not end the replay.
type Reader struct {
	sc     *bufio.Scanner
	closer io.Closer
	isCSV  bool
	first  bool
}

// New creates a reader over an open log stream.
func New(r io.Reader) *Reader {
	return &Reader{sc: bufio.NewScanner(r), first: true}
}

// Open creates a reader over a log file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &canview.SourceError{Op: "open", Source: canview.SourceCandump, Err: err}
	}
	r := New(f)
	r.closer = f
	return r, nil
}

// ReadFrame returns the next frame in the log, or io.EOF once the log
// is drained.
func (r *Reader) ReadFrame() (canview.Frame, error) {
	for r.sc.Scan() {
		line := strings.TrimSpace(r.sc.Text())
		if line == "" {
			continue
		}
		if r.first {
			r.first = false
			// A CSV header names the columns; consume it and remember
			// the format.
			if strings.Contains(line, "Time Stamp") || strings.Contains(line, "ID,Extended") {
				r.isCSV = true
				continue
			}
			r.isCSV = strings.Contains(line, ",") && !strings.Contains(line, "#")
		}

		var f canview.Frame
		var err error
		if r.isCSV {
			f, err = parseCSVLine(line)
		} else {
			f, err = parseCandumpLine(line)
		}
		if err != nil {
			continue
		}
		return f, nil
	}
	if err := r.sc.Err(); err != nil {
		return canview.Frame{}, &canview.SourceError{Op: "read", Source: canview.SourceCandump, Err: err}
	}
	return canview.Frame{}, io.EOF
}

// Close closes the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	if err := r.closer.Close(); err != nil {
		return &canview.SourceError{Op: "close", Source: canview.SourceCandump, Err: err}
	}
	return nil
}

// Type returns the source backend type.
func (*Reader) Type() canview.SourceType {
	return canview.SourceCandump
}

// parseCandumpLine parses "(timestamp) interface ID#PAYLOAD". The
// timestamp and interface are optional; an id longer than 3 hex digits
// is extended, as candump prints.
func parseCandumpLine(line string) (canview.Frame, error) {
	hash := strings.Index(line, "#")
	if hash < 0 {
		return canview.Frame{}, fmt.Errorf("candump: no '#' separator in %q", line)
	}

	head := strings.TrimSpace(line[:hash])
	var ts float64
	if open := strings.Index(head, "("); open >= 0 {
		if end := strings.Index(head, ")"); end > open {
			ts, _ = strconv.ParseFloat(head[open+1:end], 64)
			head = strings.TrimSpace(head[end+1:])
		}
	}
	if sp := strings.LastIndex(head, " "); sp >= 0 {
		head = head[sp+1:]
	}

	id, err := strconv.ParseUint(head, 16, 32)
	if err != nil {
		return canview.Frame{}, fmt.Errorf("candump: bad id %q: %w", head, err)
	}

	payload := strings.ReplaceAll(line[hash+1:], " ", "")
	rtr := false
	if strings.HasPrefix(payload, "R") {
		rtr = true
		payload = ""
	}
	data, err := hex.DecodeString(payload)
	if err != nil {
		return canview.Frame{}, fmt.Errorf("candump: bad payload: %w", err)
	}
	if len(data) > 8 {
		return canview.Frame{}, fmt.Errorf("candump: %d payload bytes", len(data))
	}

	return canview.Frame{
		ID:        uint32(id),
		Extended:  len(head) > 3,
		RTR:       rtr,
		Data:      data,
		Timestamp: ts,
	}, nil
}

// parseCSVLine parses a SavvyCAN row:
// Time Stamp,ID,Extended,Dir,Bus,LEN,D1,D2,D3,D4,D5,D6,D7,D8
func parseCSVLine(line string) (canview.Frame, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 14 {
		return canview.Frame{}, fmt.Errorf("candump: csv row has %d fields, want 14", len(fields))
	}

	// SavvyCAN stamps in microseconds.
	ts, _ := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	ts /= 1e6

	id, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 16, 32)
	if err != nil {
		return canview.Frame{}, fmt.Errorf("candump: bad csv id: %w", err)
	}

	length, err := strconv.Atoi(strings.TrimSpace(fields[5]))
	if err != nil || length < 0 || length > 8 {
		return canview.Frame{}, fmt.Errorf("candump: bad csv length %q", fields[5])
	}

	data := make([]byte, 0, length)
	for i := 0; i < length; i++ {
		b, err := strconv.ParseUint(strings.TrimSpace(fields[6+i]), 16, 8)
		if err != nil {
			return canview.Frame{}, fmt.Errorf("candump: bad csv data byte: %w", err)
		}
		data = append(data, byte(b))
	}

	return canview.Frame{
		ID:        uint32(id),
		Extended:  strings.EqualFold(strings.TrimSpace(fields[2]), "true"),
		Data:      data,
		Timestamp: ts,
	}, nil
}
