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
	"encoding/binary"
	"fmt"
	"math"
)

// Unpack decodes a payload per the layout registered for the id and
// applies each field's scaling factor. Returned element types: signed
// integers are int64, unsigned are uint64, 'f' and 'd' are float64, '?'
// is bool and 'c' is byte. An integer factor keeps the value integral
// via truncating division; a float factor yields a float64.
func (t *Table) Unpack(id uint32, data []byte) ([]any, error) {
	l, ok := t.Lookup(id)
	if !ok {
		return nil, &UnknownCommandError{ID: id}
	}
	if l == nil {
		if len(data) != 0 {
			return nil, fmt.Errorf("%w: id 0x%03X declares no payload, got %d bytes",
				ErrLengthMismatch, id, len(data))
		}
		return []any{}, nil
	}
	if len(data) != l.Size() {
		return nil, fmt.Errorf("%w: id 0x%03X wants %d bytes, got %d",
			ErrLengthMismatch, id, l.Size(), len(data))
	}

	values := make([]any, 0, l.Arity())
	off := 0
	for _, f := range l.Fields {
		w := f.Type.Size()
		raw := data[off : off+w]
		off += w
		if f.Type == Pad {
			continue
		}
		values = append(values, scaleValue(decodeField(f.Type, l.Order, raw), f.Scale))
	}
	return values, nil
}

// Pack encodes unit-scaled values into a payload per the layout
// registered for the id. Each value is multiplied by its field's scaling
// factor; non-float fields are then rounded to the nearest integer,
// float fields are never rounded. A payload-less id always produces an
// empty payload regardless of arguments.
func (t *Table) Pack(id uint32, values ...any) ([]byte, error) {
	l, ok := t.Lookup(id)
	if !ok {
		return nil, &UnknownCommandError{ID: id}
	}
	if l == nil {
		return []byte{}, nil
	}
	if len(values) != l.Arity() {
		return nil, fmt.Errorf("%w: id 0x%03X wants %d values, got %d",
			ErrArityMismatch, id, l.Arity(), len(values))
	}

	buf := make([]byte, 0, l.Size())
	next := 0
	for _, f := range l.Fields {
		if f.Type == Pad {
			buf = append(buf, 0)
			continue
		}
		enc, err := encodeField(f, l.Order, values[next])
		if err != nil {
			return nil, err
		}
		buf = append(buf, enc...)
		next++
	}
	return buf, nil
}

// decodeField decodes one raw field into its canonical Go type.
func decodeField(t FieldType, order binary.ByteOrder, b []byte) any {
	switch t {
	case Bool:
		return b[0] != 0
	case Char:
		return b[0]
	case Int8:
		return int64(int8(b[0]))
	case Uint8:
		return uint64(b[0])
	case Int16:
		return int64(int16(order.Uint16(b)))
	case Uint16:
		return uint64(order.Uint16(b))
	case Int32:
		return int64(int32(order.Uint32(b)))
	case Uint32:
		return uint64(order.Uint32(b))
	case Int64:
		return int64(order.Uint64(b))
	case Uint64:
		return order.Uint64(b)
	case Float32:
		return float64(math.Float32frombits(order.Uint32(b)))
	case Float64:
		return math.Float64frombits(order.Uint64(b))
	default:
		return nil
	}
}

// scaleValue divides a decoded raw value by its scaling factor. Integer
// factors keep integer values integral (truncating division); float
// factors convert to float64. Float fields stay floating-point under
// either factor kind.
func scaleValue(v any, s Scale) any {
	if s.IsZero() {
		return v
	}
	switch n := v.(type) {
	case int64:
		if s.isFloat {
			return float64(n) / s.floatval
		}
		return n / s.intval
	case uint64:
		if s.isFloat {
			return float64(n) / s.floatval
		}
		return n / uint64(s.intval)
	case float64:
		return n / s.factor()
	default:
		// bool and char fields have no meaningful scaling
		return v
	}
}

// encodeField converts one value through the field's scale and encodes
// it per the byte order.
func encodeField(fld Field, order binary.ByteOrder, v any) ([]byte, error) {
	switch fld.Type {
	case Bool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %T into '?' field", ErrBadValue, v)
		}
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case Char:
		c, ok := v.(byte)
		if !ok {
			return nil, fmt.Errorf("%w: %T into 'c' field", ErrBadValue, v)
		}
		return []byte{c}, nil
	case Float32:
		f, ok := toFloat64(v)
		if !ok {
			return nil, fmt.Errorf("%w: %T into 'f' field", ErrBadValue, v)
		}
		if !fld.Scale.IsZero() {
			f *= fld.Scale.factor()
		}
		b := make([]byte, 4)
		order.PutUint32(b, math.Float32bits(float32(f)))
		return b, nil
	case Float64:
		f, ok := toFloat64(v)
		if !ok {
			return nil, fmt.Errorf("%w: %T into 'd' field", ErrBadValue, v)
		}
		if !fld.Scale.IsZero() {
			f *= fld.Scale.factor()
		}
		b := make([]byte, 8)
		order.PutUint64(b, math.Float64bits(f))
		return b, nil
	default:
		raw, err := integerRaw(fld, v)
		if err != nil {
			return nil, err
		}
		return encodeInt(fld.Type, order, raw), nil
	}
}

// integerRaw converts a value through the field's scale into the raw
// integer bit pattern. Integer inputs with integer factors stay in
// integer arithmetic so full 64-bit values survive; everything else goes
// through float64 with round-to-nearest.
func integerRaw(fld Field, v any) (uint64, error) {
	if u, ok := toUint64(v); ok {
		switch {
		case fld.Scale.IsZero():
			return u, nil
		case !fld.Scale.isFloat:
			return u * uint64(fld.Scale.intval), nil
		default:
			return uint64(math.Round(float64(u) * fld.Scale.floatval)), nil
		}
	}
	if n, ok := toInt64(v); ok {
		switch {
		case fld.Scale.IsZero():
			return uint64(n), nil
		case !fld.Scale.isFloat:
			return uint64(n * fld.Scale.intval), nil
		default:
			return uint64(int64(math.Round(float64(n) * fld.Scale.floatval))), nil
		}
	}
	if f, ok := toFloat64(v); ok {
		if !fld.Scale.IsZero() {
			f *= fld.Scale.factor()
		}
		return uint64(int64(math.Round(f))), nil
	}
	return 0, fmt.Errorf("%w: %T into %q field", ErrBadValue, v, fld.Type)
}

// encodeInt writes the low bytes of the raw pattern per the field width.
func encodeInt(t FieldType, order binary.ByteOrder, raw uint64) []byte {
	switch t.Size() {
	case 1:
		return []byte{byte(raw)}
	case 2:
		b := make([]byte, 2)
		order.PutUint16(b, uint16(raw))
		return b
	case 4:
		b := make([]byte, 4)
		order.PutUint32(b, uint32(raw))
		return b
	default:
		b := make([]byte, 8)
		order.PutUint64(b, raw)
		return b
	}
}

func toUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		if u, ok := toUint64(v); ok {
			return float64(u), true
		}
		if i, ok := toInt64(v); ok {
			return float64(i), true
		}
		return 0, false
	}
}
