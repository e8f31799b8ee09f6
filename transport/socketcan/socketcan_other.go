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

//go:build !linux

package socketcan

import canview "github.com/CanViewProject/go-canview"

// Source is unavailable off Linux.
type Source struct{}

// New reports that raw CAN sockets are Linux-only.
func New(_ string, _ ...canview.Filter) (*Source, error) {
	return nil, canview.ErrUnsupported
}

// ReadFrame always fails on this platform.
func (*Source) ReadFrame() (canview.Frame, error) {
	return canview.Frame{}, canview.ErrUnsupported
}

// WriteFrame always fails on this platform.
func (*Source) WriteFrame(canview.Frame) error {
	return canview.ErrUnsupported
}

// Close is a no-op on this platform.
func (*Source) Close() error {
	return nil
}

// Type returns the source backend type.
func (*Source) Type() canview.SourceType {
	return canview.SourceSocketCAN
}
