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
	"errors"
	"fmt"
)

var (
	// ErrNoFrame indicates that a non-blocking source has no frame
	// pending. Callers should poll again later.
	ErrNoFrame = errors.New("canview: no frame available")

	// ErrSourceClosed indicates a read from a closed source.
	ErrSourceClosed = errors.New("canview: source closed")

	// ErrUnsupported indicates a source backend that is not available on
	// this platform.
	ErrUnsupported = errors.New("canview: source not supported on this platform")

	// ErrInvalidID indicates an identifier outside the 11-bit or 29-bit
	// range.
	ErrInvalidID = errors.New("canview: invalid identifier")

	// ErrInvalidLength indicates a payload longer than 8 bytes.
	ErrInvalidLength = errors.New("canview: invalid data length")

	// ErrMalformedFilter indicates a filter expression that fails to
	// parse.
	ErrMalformedFilter = errors.New("canview: malformed filter")
)

// SourceError wraps an error from a frame source with the operation and
// backend that produced it.
type SourceError struct {
	Err    error
	Op     string
	Source SourceType
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Op, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
