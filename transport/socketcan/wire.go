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

// Package socketcan provides a frame source backed by Linux raw CAN
// sockets. On other platforms New returns canview.ErrUnsupported.
package socketcan

import (
	"encoding/binary"
	"fmt"

	canview "github.com/CanViewProject/go-canview"
)

// Linux can_frame wire layout (16 bytes):
//
//	0..3  can_id with EFF/RTR/ERR flags
//	4     dlc
//	5..7  padding
//	8..15 data
const (
	frameSize = 16

	canEFFFlag = 0x80000000
	canRTRFlag = 0x40000000
	canERRFlag = 0x20000000

	// canInvFilter marks a kernel filter as inverted.
	canInvFilter = 0x20000000
)

func marshalFrame(f canview.Frame) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	id := f.ID
	if f.Extended {
		id |= canEFFFlag
	}
	if f.RTR {
		id |= canRTRFlag
	}
	buf := make([]byte, frameSize)
	binary.LittleEndian.PutUint32(buf[0:4], id)
	buf[4] = byte(len(f.Data))
	copy(buf[8:], f.Data)
	return buf, nil
}

func unmarshalFrame(buf []byte) (canview.Frame, error) {
	if len(buf) < frameSize {
		return canview.Frame{}, fmt.Errorf("socketcan: need %d bytes, got %d", frameSize, len(buf))
	}
	id := binary.LittleEndian.Uint32(buf[0:4])
	f := canview.Frame{
		Extended: id&canEFFFlag != 0,
		RTR:      id&canRTRFlag != 0,
	}
	if f.Extended {
		f.ID = id & canview.MaxExtendedID
	} else {
		f.ID = id & canview.MaxStandardID
	}
	dlc := int(buf[4])
	if dlc > 8 {
		dlc = 8
	}
	f.Data = make([]byte, dlc)
	copy(f.Data, buf[8:8+dlc])
	return f, f.Validate()
}
