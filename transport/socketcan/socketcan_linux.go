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

//go:build linux

package socketcan

import (
	"errors"
	"net"
	"time"

	"golang.org/x/sys/unix"

	canview "github.com/CanViewProject/go-canview"
)

// Source reads frames from a raw CAN socket bound to one interface.
type Source struct {
	fd    int
	epoch time.Time
}

// New opens a non-blocking raw CAN socket on the named interface
// ("can0", "vcan0"). Filters, if any, are installed kernel-side so
// rejected frames never reach the process.
func New(ifname string, filters ...canview.Filter) (*Source, error) {
	ifi, err := net.InterfaceByName(ifname)
	if err != nil {
		return nil, &canview.SourceError{Op: "open", Source: canview.SourceSocketCAN, Err: err}
	}

	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.CAN_RAW)
	if err != nil {
		return nil, &canview.SourceError{Op: "socket", Source: canview.SourceSocketCAN, Err: err}
	}

	if len(filters) > 0 {
		kernel := make([]unix.CanFilter, len(filters))
		for i, flt := range filters {
			kernel[i].Id = flt.ID
			kernel[i].Mask = flt.Mask
			if flt.Invert {
				kernel[i].Id |= canInvFilter
			}
		}
		if err := unix.SetsockoptCanRawFilter(fd, unix.SOL_CAN_RAW, unix.CAN_RAW_FILTER, kernel); err != nil {
			_ = unix.Close(fd)
			return nil, &canview.SourceError{Op: "filter", Source: canview.SourceSocketCAN, Err: err}
		}
	}

	if err := unix.Bind(fd, &unix.SockaddrCAN{Ifindex: ifi.Index}); err != nil {
		_ = unix.Close(fd)
		return nil, &canview.SourceError{Op: "bind", Source: canview.SourceSocketCAN, Err: err}
	}

	return &Source{fd: fd, epoch: time.Now()}, nil
}

// ReadFrame returns the next frame from the socket, or
// canview.ErrNoFrame when the receive queue is empty.
func (s *Source) ReadFrame() (canview.Frame, error) {
	buf := make([]byte, frameSize)
	n, err := unix.Read(s.fd, buf)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
			return canview.Frame{}, canview.ErrNoFrame
		}
		if errors.Is(err, unix.EBADF) {
			return canview.Frame{}, canview.ErrSourceClosed
		}
		return canview.Frame{}, &canview.SourceError{Op: "read", Source: canview.SourceSocketCAN, Err: err}
	}

	f, err := unmarshalFrame(buf[:n])
	if err != nil {
		return canview.Frame{}, &canview.SourceError{Op: "read", Source: canview.SourceSocketCAN, Err: err}
	}
	f.Timestamp = time.Since(s.epoch).Seconds()
	return f, nil
}

// WriteFrame transmits a frame on the bound interface.
func (s *Source) WriteFrame(f canview.Frame) error {
	buf, err := marshalFrame(f)
	if err != nil {
		return err
	}
	if _, err := unix.Write(s.fd, buf); err != nil {
		return &canview.SourceError{Op: "write", Source: canview.SourceSocketCAN, Err: err}
	}
	return nil
}

// Close closes the socket.
func (s *Source) Close() error {
	if err := unix.Close(s.fd); err != nil {
		return &canview.SourceError{Op: "close", Source: canview.SourceSocketCAN, Err: err}
	}
	return nil
}

// Type returns the source backend type.
func (*Source) Type() canview.SourceType {
	return canview.SourceSocketCAN
}
