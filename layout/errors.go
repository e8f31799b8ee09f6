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

package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch indicates a payload whose length differs from
	// the declared layout width.
	ErrLengthMismatch = errors.New("layout: payload length does not match layout width")

	// ErrArityMismatch indicates a pack call with the wrong number of
	// values for the layout's fields.
	ErrArityMismatch = errors.New("layout: value count does not match layout fields")

	// ErrMalformedEntry indicates a layout configuration line or format
	// string that fails to parse.
	ErrMalformedEntry = errors.New("layout: malformed entry")

	// ErrBadValue indicates a pack value whose Go type cannot be encoded
	// into its field.
	ErrBadValue = errors.New("layout: value type not encodable")
)

// UnknownCommandError indicates that no layout is registered for an
// arbitration id.
type UnknownCommandError struct {
	ID uint32
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("layout: unknown command 0x%02X", e.ID)
}
