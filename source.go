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

package canview

// Source defines the interface for receiving frames from a bus backend.
// Implementations live under transport/.
type Source interface {
	// ReadFrame returns the next pending frame without blocking.
	// ErrNoFrame signals that nothing is pending; io.EOF signals that a
	// finite source (log replay) is drained.
	ReadFrame() (Frame, error)

	// Close releases the backend. Subsequent reads fail.
	Close() error

	// Type returns the source backend type.
	Type() SourceType
}

// FrameWriter is implemented by sources that can also transmit frames.
type FrameWriter interface {
	WriteFrame(Frame) error
}

// SourceType identifies a frame source backend.
type SourceType string

const (
	// SourceSLCAN is a serial (LAWICEL) CAN adapter.
	SourceSLCAN SourceType = "slcan"
	// SourceSocketCAN is a Linux raw CAN socket.
	SourceSocketCAN SourceType = "socketcan"
	// SourceCandump replays candump or SavvyCAN CSV logs.
	SourceCandump SourceType = "candump"
	// SourceCBORLog replays CBOR capture files.
	SourceCBORLog SourceType = "cborlog"
	// SourceMCP2515 is an SPI-attached MCP2515 controller.
	SourceMCP2515 SourceType = "mcp2515"
	// SourceVirtual is an in-memory bus for tests and demos.
	SourceVirtual SourceType = "virtual"
)
