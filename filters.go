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
	"strconv"
	"strings"
)

// Filter is an id/mask receive filter. A frame matches when
// received&Mask == ID&Mask; Invert flips the match.
type Filter struct {
	ID     uint32
	Mask   uint32
	Invert bool
}

// Match reports whether the frame passes the filter.
func (flt Filter) Match(f Frame) bool {
	match := f.ID&flt.Mask == flt.ID&flt.Mask
	if flt.Invert {
		return !match
	}
	return match
}

// MatchAny reports whether the frame passes at least one filter. An empty
// filter list accepts everything.
func MatchAny(filters []Filter, f Frame) bool {
	if len(filters) == 0 {
		return true
	}
	for _, flt := range filters {
		if flt.Match(f) {
			return true
		}
	}
	return false
}

// ParseFilter parses a single filter expression. The id and mask are hex:
//
//	<id>:<mask>  matches when received&mask == id&mask
//	<id>~<mask>  matches when received&mask != id&mask
func ParseFilter(s string) (Filter, error) {
	sep := strings.IndexAny(s, ":~")
	if sep < 0 {
		return Filter{}, fmt.Errorf("%w: %q: missing ':' or '~'", ErrMalformedFilter, s)
	}
	id, err := strconv.ParseUint(s[:sep], 16, 32)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: %q: bad id: %w", ErrMalformedFilter, s, err)
	}
	mask, err := strconv.ParseUint(s[sep+1:], 16, 32)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: %q: bad mask: %w", ErrMalformedFilter, s, err)
	}
	return Filter{
		ID:     uint32(id),
		Mask:   uint32(mask),
		Invert: s[sep] == '~',
	}, nil
}

// ParseFilters parses a comma-separated list of filter expressions.
func ParseFilters(s string) ([]Filter, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var filters []Filter
	for _, part := range strings.Split(s, ",") {
		flt, err := ParseFilter(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		filters = append(filters, flt)
	}
	return filters, nil
}
