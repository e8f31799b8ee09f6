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

// Package slcan provides a frame source for serial (LAWICEL SLCAN)
// CAN adapters: CANable, USBtin, CANUSB and compatible devices.
package slcan

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"

	canview "github.com/CanViewProject/go-canview"
)

const (
	defaultBaudRate = 115200
	readTimeout     = 5 * time.Millisecond
)

// bitrateCodes maps CAN bitrates to the LAWICEL 'Sn' setup codes.
var bitrateCodes = map[int]byte{
	10000:   '0',
	20000:   '1',
	50000:   '2',
	100000:  '3',
	125000:  '4',
	250000:  '5',
	500000:  '6',
	800000:  '7',
	1000000: '8',
}

// Source reads frames from an SLCAN serial adapter.
type Source struct {
	port  serial.Port
	buf   []byte
	epoch time.Time
}

// New opens the serial device, sets the CAN bitrate and opens the
// channel. Bitrate 0 skips bitrate setup for adapters configured out of
// band.
func New(device string, bitrate int) (*Source, error) {
	var code byte
	if bitrate != 0 {
		var ok bool
		code, ok = bitrateCodes[bitrate]
		if !ok {
			return nil, &canview.SourceError{
				Op:     "open",
				Source: canview.SourceSLCAN,
				Err:    fmt.Errorf("unsupported bitrate %d", bitrate),
			}
		}
	}

	port, err := serial.Open(device, &serial.Mode{BaudRate: defaultBaudRate})
	if err != nil {
		return nil, &canview.SourceError{Op: "open", Source: canview.SourceSLCAN, Err: err}
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()
		return nil, &canview.SourceError{Op: "open", Source: canview.SourceSLCAN, Err: err}
	}

	s := &Source{port: port, epoch: time.Now()}

	// Close a possibly open channel before reconfiguring.
	cmds := []string{"C\r"}
	if bitrate != 0 {
		cmds = append(cmds, "S"+string(code)+"\r")
	}
	cmds = append(cmds, "O\r")
	for _, cmd := range cmds {
		if _, err := port.Write([]byte(cmd)); err != nil {
			_ = port.Close()
			return nil, &canview.SourceError{Op: "setup", Source: canview.SourceSLCAN, Err: err}
		}
	}
	return s, nil
}

// ReadFrame returns the next frame from the adapter, or
// canview.ErrNoFrame when nothing arrived within the poll interval.
func (s *Source) ReadFrame() (canview.Frame, error) {
	for {
		if i := bytes.IndexByte(s.buf, '\r'); i >= 0 {
			rec := string(s.buf[:i])
			s.buf = s.buf[i+1:]
			f, err := ParseFrame(rec)
			if err != nil {
				// Status responses and bell characters interleave with
				// frame records; skip them.
				continue
			}
			f.Timestamp = time.Since(s.epoch).Seconds()
			return f, nil
		}

		chunk := make([]byte, 64)
		n, err := s.port.Read(chunk)
		if err != nil {
			return canview.Frame{}, &canview.SourceError{Op: "read", Source: canview.SourceSLCAN, Err: err}
		}
		if n == 0 {
			return canview.Frame{}, canview.ErrNoFrame
		}
		s.buf = append(s.buf, chunk[:n]...)
	}
}

// WriteFrame transmits a frame through the adapter.
func (s *Source) WriteFrame(f canview.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if _, err := s.port.Write([]byte(EncodeFrame(f))); err != nil {
		return &canview.SourceError{Op: "write", Source: canview.SourceSLCAN, Err: err}
	}
	return nil
}

// Close closes the CAN channel and the serial device.
func (s *Source) Close() error {
	_, werr := s.port.Write([]byte("C\r"))
	cerr := s.port.Close()
	if werr != nil {
		return &canview.SourceError{Op: "close", Source: canview.SourceSLCAN, Err: werr}
	}
	if cerr != nil {
		return &canview.SourceError{Op: "close", Source: canview.SourceSLCAN, Err: cerr}
	}
	return nil
}

// Type returns the source backend type.
func (*Source) Type() canview.SourceType {
	return canview.SourceSLCAN
}

// ParseFrame parses one SLCAN record without its trailing carriage
// return: 't'/'T' data frames and 'r'/'R' remote frames, lowercase for
// standard ids (3 hex digits) and uppercase for extended ids (8 hex
// digits), followed by one DLC digit and the payload in hex.
func ParseFrame(rec string) (canview.Frame, error) {
	if len(rec) < 1 {
		return canview.Frame{}, fmt.Errorf("slcan: empty record")
	}

	var f canview.Frame
	idLen := 3
	switch rec[0] {
	case 't':
	case 'T':
		f.Extended = true
		idLen = 8
	case 'r':
		f.RTR = true
	case 'R':
		f.Extended = true
		f.RTR = true
		idLen = 8
	default:
		return canview.Frame{}, fmt.Errorf("slcan: unknown record type %q", rec[0])
	}

	if len(rec) < 1+idLen+1 {
		return canview.Frame{}, fmt.Errorf("slcan: short record %q", rec)
	}
	id, err := parseHex(rec[1 : 1+idLen])
	if err != nil {
		return canview.Frame{}, fmt.Errorf("slcan: bad id in %q", rec)
	}
	f.ID = id

	dlc := int(rec[1+idLen] - '0')
	if dlc < 0 || dlc > 8 {
		return canview.Frame{}, fmt.Errorf("slcan: bad dlc in %q", rec)
	}

	if !f.RTR {
		hexData := rec[1+idLen+1:]
		if len(hexData) < 2*dlc {
			return canview.Frame{}, fmt.Errorf("slcan: short payload in %q", rec)
		}
		data := make([]byte, dlc)
		for i := 0; i < dlc; i++ {
			b, err := parseHex(hexData[2*i : 2*i+2])
			if err != nil {
				return canview.Frame{}, fmt.Errorf("slcan: bad payload in %q", rec)
			}
			data[i] = byte(b)
		}
		f.Data = data
	}
	return f, f.Validate()
}

// EncodeFrame renders a frame as an SLCAN record including the trailing
// carriage return.
func EncodeFrame(f canview.Frame) string {
	var b strings.Builder
	switch {
	case f.RTR && f.Extended:
		b.WriteByte('R')
	case f.RTR:
		b.WriteByte('r')
	case f.Extended:
		b.WriteByte('T')
	default:
		b.WriteByte('t')
	}

	if f.Extended {
		fmt.Fprintf(&b, "%08X", f.ID&canview.MaxExtendedID)
	} else {
		fmt.Fprintf(&b, "%03X", f.ID&canview.MaxStandardID)
	}

	b.WriteByte('0' + byte(len(f.Data)))
	if !f.RTR {
		for _, d := range f.Data {
			fmt.Fprintf(&b, "%02X", d)
		}
	}
	b.WriteByte('\r')
	return b.String()
}

func parseHex(s string) (uint32, error) {
	var v uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			v = v<<4 | uint32(c-'0')
		case c >= 'a' && c <= 'f':
			v = v<<4 | uint32(c-'a'+10)
		case c >= 'A' && c <= 'F':
			v = v<<4 | uint32(c-'A'+10)
		default:
			return 0, fmt.Errorf("slcan: bad hex %q", s)
		}
	}
	return v, nil
}
