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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseFormat parses a format string into a layout: a byte-order code
// ('<' or '>') followed by field codes, each optionally preceded by a
// decimal repeat count ("<bBh2H").
func ParseFormat(s string) (*Layout, error) {
	if len(s) < 2 {
		return nil, fmt.Errorf("%w: format %q too short", ErrMalformedEntry, s)
	}

	var order binary.ByteOrder
	switch s[0] {
	case '<':
		order = binary.LittleEndian
	case '>':
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: format %q must start with '<' or '>'", ErrMalformedEntry, s)
	}

	var fields []Field
	repeat := 0
	for i := 1; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			repeat = repeat*10 + int(c-'0')
			continue
		}
		t := FieldType(c)
		if t.Size() == 0 {
			return nil, fmt.Errorf("%w: format %q: unknown field code %q", ErrMalformedEntry, s, c)
		}
		n := repeat
		if n == 0 {
			n = 1
		}
		for ; n > 0; n-- {
			fields = append(fields, Field{Type: t})
		}
		repeat = 0
	}
	if repeat != 0 {
		return nil, fmt.Errorf("%w: format %q: trailing repeat count", ErrMalformedEntry, s)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: format %q has no fields", ErrMalformedEntry, s)
	}
	return &Layout{Order: order, Fields: fields}, nil
}

// ParseEntry parses one layout configuration line of the form
//
//	<hex-id>:<format>[:<scale>...]
//
// Scale tokens are parsed as integers first, falling back to
// floating-point, and attach positionally to the non-pad fields.
func ParseEntry(line string) (uint32, *Layout, error) {
	parts := strings.Split(strings.TrimSpace(line), ":")
	if len(parts) < 2 {
		return 0, nil, fmt.Errorf("%w: %q: want <id>:<format>", ErrMalformedEntry, line)
	}

	id, err := strconv.ParseUint(parts[0], 16, 32)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %q: bad id: %w", ErrMalformedEntry, line, err)
	}

	l, err := ParseFormat(parts[1])
	if err != nil {
		return 0, nil, err
	}

	if len(parts) > 2 {
		scales := make([]Scale, 0, len(parts)-2)
		for _, tok := range parts[2:] {
			scales = append(scales, parseScale(tok))
		}
		if err := l.attachScales(scales); err != nil {
			return 0, nil, fmt.Errorf("%w: %q: %w", ErrMalformedEntry, line, err)
		}
	}
	return uint32(id), l, nil
}

// ParseFile reads layout configuration lines into a table. Blank lines
// and lines starting with '#' are skipped.
func ParseFile(r io.Reader) (*Table, error) {
	table := NewTable()
	sc := bufio.NewScanner(r)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, l, err := ParseEntry(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		table.Add(l, id)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("layout: reading config: %w", err)
	}
	return table, nil
}

// parseScale parses one scale token, integer first then float. A token
// that parses as neither returns the zero Scale, rejected later by
// attachScales.
func parseScale(tok string) Scale {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return IntScale(n)
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return FloatScale(f)
	}
	return Scale{}
}

// attachScales applies scale tokens positionally to the non-pad fields.
// Fewer tokens than fields leaves the tail unscaled; more is an error,
// as is a token that parsed as neither integer nor float.
func (l *Layout) attachScales(scales []Scale) error {
	if len(scales) > l.Arity() {
		return fmt.Errorf("%d scales for %d fields", len(scales), l.Arity())
	}
	next := 0
	for i := range l.Fields {
		if l.Fields[i].Type == Pad {
			continue
		}
		if next >= len(scales) {
			break
		}
		s := scales[next]
		next++
		if s.IsZero() {
			return fmt.Errorf("bad scale token at position %d", next)
		}
		l.Fields[i].Scale = s
	}
	return nil
}
