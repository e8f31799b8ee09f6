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

// Package frametest provides frame builders for package tests.
package frametest

import canview "github.com/CanViewProject/go-canview"

// Std builds a standard-id frame with the given timestamp.
func Std(id uint32, ts float64, data ...byte) canview.Frame {
	return canview.Frame{ID: id, Data: data, Timestamp: ts}
}

// Ext builds an extended-id frame with the given timestamp.
func Ext(id uint32, ts float64, data ...byte) canview.Frame {
	return canview.Frame{ID: id, Extended: true, Data: data, Timestamp: ts}
}
