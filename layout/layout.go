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

// Package layout implements the declarative payload codec: byte layouts
// declared per arbitration id with struct-style field codes and optional
// unit scaling, packed and unpacked bit-exactly.
//
// A layout is declared with a format string: a byte-order code ('<'
// little-endian, '>' big-endian) followed by one code per field, with an
// optional decimal repeat count before any code:
//
//	x = pad byte          c = char          ? = bool
//	b = int8              B = uint8
//	h = int16             H = uint16
//	l = int32             L = uint32
//	q = int64             Q = uint64
//	f = float32           d = float64
//
// Scaling factors apply positionally to non-pad fields. An integer factor
// divides the raw value with truncating integer division on unpack; a
// floating-point factor divides into a float64. On pack the value is
// multiplied by the factor and, for all non-float fields, rounded to the
// nearest integer.
package layout

import "encoding/binary"

// FieldType is a single-character field code from the format
// mini-language.
type FieldType byte

// Field codes. The letters match the Python struct module so existing
// decode strings carry over unchanged.
const (
	Pad     FieldType = 'x'
	Char    FieldType = 'c'
	Bool    FieldType = '?'
	Int8    FieldType = 'b'
	Uint8   FieldType = 'B'
	Int16   FieldType = 'h'
	Uint16  FieldType = 'H'
	Int32   FieldType = 'l'
	Uint32  FieldType = 'L'
	Int64   FieldType = 'q'
	Uint64  FieldType = 'Q'
	Float32 FieldType = 'f'
	Float64 FieldType = 'd'
)

// Size returns the byte width of the field type, or 0 for an unknown
// code.
func (t FieldType) Size() int {
	switch t {
	case Pad, Char, Bool, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// signed reports whether the type decodes to a signed integer.
func (t FieldType) signed() bool {
	return t == Int8 || t == Int16 || t == Int32 || t == Int64
}

// float reports whether the type is a floating-point field. Float fields
// are never rounded on pack.
func (t FieldType) float() bool {
	return t == Float32 || t == Float64
}

// Field is one typed slot of a layout with its optional scaling factor.
type Field struct {
	Type  FieldType
	Scale Scale
}

// Scale is an optional per-field conversion factor between raw wire
// values and unit-scaled values. The zero value means no scaling.
type Scale struct {
	intval   int64
	floatval float64
	isFloat  bool
	set      bool
}

// IntScale returns an integer scaling factor (truncating division on
// unpack).
func IntScale(v int64) Scale {
	return Scale{intval: v, set: true}
}

// FloatScale returns a floating-point scaling factor.
func FloatScale(v float64) Scale {
	return Scale{floatval: v, isFloat: true, set: true}
}

// IsZero reports whether no scaling factor is set.
func (s Scale) IsZero() bool {
	return !s.set
}

// factor returns the scale as a float64 for pack-side multiplication.
func (s Scale) factor() float64 {
	if s.isFloat {
		return s.floatval
	}
	return float64(s.intval)
}

// Layout is an ordered sequence of typed fields sharing one byte order.
type Layout struct {
	Order  binary.ByteOrder
	Fields []Field
}

// Size returns the total byte width of the layout.
func (l *Layout) Size() int {
	n := 0
	for _, f := range l.Fields {
		n += f.Type.Size()
	}
	return n
}

// Arity returns the number of value-bearing (non-pad) fields.
func (l *Layout) Arity() int {
	n := 0
	for _, f := range l.Fields {
		if f.Type != Pad {
			n++
		}
	}
	return n
}

// Table maps arbitration ids to layouts. A single layout may be
// registered for several ids; a nil layout registers a payload-less id.
// Tables are built once at startup and read-only afterwards.
type Table struct {
	entries map[uint32]*entry
}

type entry struct {
	layout *Layout
}

// NewTable returns an empty layout table.
func NewTable() *Table {
	return &Table{entries: make(map[uint32]*entry)}
}

// Add registers a layout for one or more arbitration ids. A nil layout
// declares the ids payload-less: packing produces an empty payload and
// unpacking consumes one. Re-adding an id replaces its layout.
func (t *Table) Add(l *Layout, ids ...uint32) {
	e := &entry{layout: l}
	for _, id := range ids {
		t.entries[id] = e
	}
}

// Lookup returns the layout registered for the id. The layout is nil for
// a registered payload-less id.
func (t *Table) Lookup(id uint32) (*Layout, bool) {
	e, ok := t.entries[id]
	if !ok {
		return nil, false
	}
	return e.layout, true
}

// Len returns the number of registered ids.
func (t *Table) Len() int {
	return len(t.entries)
}
