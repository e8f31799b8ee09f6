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

import (
	"fmt"
	"strings"
)

// Identifier limits for classical CAN.
const (
	MaxStandardID = 0x7FF
	MaxExtendedID = 0x1FFFFFFF
)

// extendedSortBit keys extended identifiers above the whole standard id
// space so mixed listings order all standard ids first.
const extendedSortBit = uint64(1) << 32

// Frame is a received classical CAN (2.0A/2.0B) frame. Frames are treated
// as immutable once received; the Data slice must not be modified.
type Frame struct {
	// ID is the arbitration identifier, 11-bit standard or 29-bit extended.
	ID uint32
	// Extended marks a 29-bit identifier.
	Extended bool
	// RTR marks a remote transmission request. Carried for transports;
	// the classifier and codec do not inspect it.
	RTR bool
	// Data holds 0..8 payload bytes. len(Data) is the DLC.
	Data []byte
	// Timestamp is the monotonic receive time in seconds.
	Timestamp float64
}

// Validate returns an error if the frame violates classical CAN limits.
func (f Frame) Validate() error {
	if len(f.Data) > 8 {
		return fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(f.Data))
	}
	limit := uint32(MaxStandardID)
	if f.Extended {
		limit = MaxExtendedID
	}
	if f.ID > limit {
		return fmt.Errorf("%w: 0x%X", ErrInvalidID, f.ID)
	}
	return nil
}

// DLC returns the data length code (number of payload bytes).
func (f Frame) DLC() int {
	return len(f.Data)
}

// SortKey returns the ordering key for listings: the arbitration id, with
// extended-id frames keyed above the full standard id space.
func (f Frame) SortKey() uint64 {
	key := uint64(f.ID)
	if f.Extended {
		key |= extendedSortBit
	}
	return key
}

// IDString formats the arbitration id as hex, 3 digits for standard ids
// and 8 digits for extended ids.
func (f Frame) IDString() string {
	if f.Extended {
		return fmt.Sprintf("0x%08X", f.ID)
	}
	return fmt.Sprintf("0x%03X", f.ID)
}

// DataString formats the payload as space-separated hex bytes.
func (f Frame) DataString() string {
	if len(f.Data) == 0 {
		return ""
	}
	var b strings.Builder
	for i, d := range f.Data {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", d)
	}
	return b.String()
}

// MustFrame constructs a frame and panics if it is invalid. The identifier
// is treated as extended when it does not fit in 11 bits. Convenience for
// examples and tests.
func MustFrame(id uint32, data []byte) Frame {
	f := Frame{ID: id, Extended: id > MaxStandardID, Data: data}
	if err := f.Validate(); err != nil {
		panic(err)
	}
	return f
}
