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

package session

import (
	"errors"

	canview "github.com/CanViewProject/go-canview"
	"github.com/CanViewProject/go-canview/layout"
)

// Option is a functional option for configuring a Session.
type Option func(*Session) error

// WithLayoutTable sets the payload-layout table used to decode the
// values column.
func WithLayoutTable(t *layout.Table) Option {
	return func(s *Session) error {
		s.table = t
		return nil
	}
}

// WithFilters sets the receive filters. A frame is tracked when it
// matches at least one filter; no filters tracks everything.
func WithFilters(filters []canview.Filter) Option {
	return func(s *Session) error {
		s.filters = filters
		return nil
	}
}

// WithoutCANopen disables the CANopen classification columns.
func WithoutCANopen() Option {
	return func(s *Session) error {
		s.canopen = false
		return nil
	}
}

// WithStartTime pins the session clock instead of starting it at the
// first frame's timestamp.
func WithStartTime(start float64) Option {
	return func(s *Session) error {
		if start < 0 {
			return errors.New("session: negative start time")
		}
		s.start = start
		s.started = true
		return nil
	}
}
