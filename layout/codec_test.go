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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFormat(t *testing.T, format string, scales ...Scale) *Layout {
	t.Helper()
	l, err := ParseFormat(format)
	require.NoError(t, err)
	if len(scales) > 0 {
		require.NoError(t, l.attachScales(scales))
	}
	return l
}

func TestPackUnpackRoundTrip(t *testing.T) {
	t.Parallel()

	table := NewTable()
	table.Add(mustFormat(t, "<bBh2H"), 0x101)
	table.Add(mustFormat(t, ">lL"), 0x102)
	table.Add(mustFormat(t, "<ff"), 0x103)
	table.Add(mustFormat(t, "<?c"), 0x104)
	table.Add(mustFormat(t, "<Q"), 0x105)

	t.Run("mixed integers little endian", func(t *testing.T) {
		t.Parallel()
		data, err := table.Pack(0x101, int64(-7), uint64(13), int64(-1024), uint64(2048), uint64(0xFFFF))
		require.NoError(t, err)
		require.Len(t, data, 8)

		values, err := table.Unpack(0x101, data)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(-7), uint64(13), int64(-1024), uint64(2048), uint64(0xFFFF)}, values)
	})

	t.Run("signed extremes big endian", func(t *testing.T) {
		t.Parallel()
		data, err := table.Pack(0x102, int64(-2147483648), uint64(0xFFFFFFFF))
		require.NoError(t, err)
		assert.Equal(t, []byte{0x80, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF}, data)

		values, err := table.Unpack(0x102, data)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(-2147483648), uint64(0xFFFFFFFF)}, values)
	})

	t.Run("float32 pair", func(t *testing.T) {
		t.Parallel()
		data, err := table.Pack(0x103, 3.14, -6.25)
		require.NoError(t, err)

		values, err := table.Unpack(0x103, data)
		require.NoError(t, err)
		require.Len(t, values, 2)
		assert.InDelta(t, 3.14, values[0].(float64), 1e-6)
		assert.InDelta(t, -6.25, values[1].(float64), 1e-6)
	})

	t.Run("bool and char", func(t *testing.T) {
		t.Parallel()
		data, err := table.Pack(0x104, true, byte('A'))
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01, 'A'}, data)

		values, err := table.Unpack(0x104, data)
		require.NoError(t, err)
		assert.Equal(t, []any{true, byte('A')}, values)
	})

	t.Run("full uint64 survives", func(t *testing.T) {
		t.Parallel()
		data, err := table.Pack(0x105, uint64(0xFFFFFFFFFFFFFFFF))
		require.NoError(t, err)

		values, err := table.Unpack(0x105, data)
		require.NoError(t, err)
		assert.Equal(t, []any{uint64(0xFFFFFFFFFFFFFFFF)}, values)
	})
}

func TestPackUnpackScaling(t *testing.T) {
	t.Parallel()

	t.Run("float factors round trip", func(t *testing.T) {
		t.Parallel()
		table := NewTable()
		table.Add(mustFormat(t, "<HHB", FloatScale(100), FloatScale(10), IntScale(1)), 0x201)

		data, err := table.Pack(0x201, 12.34, 4.5, uint64(6))
		require.NoError(t, err)
		// 12.34*100 and 4.5*10 round to exact raw counts.
		assert.Equal(t, []byte{0xD2, 0x04, 0x2D, 0x00, 0x06}, data)

		values, err := table.Unpack(0x201, data)
		require.NoError(t, err)
		require.Len(t, values, 3)
		assert.InDelta(t, 12.34, values[0].(float64), 1e-9)
		assert.InDelta(t, 4.5, values[1].(float64), 1e-9)
		assert.Equal(t, uint64(6), values[2])
	})

	t.Run("integer factor divides truncating", func(t *testing.T) {
		t.Parallel()
		table := NewTable()
		table.Add(mustFormat(t, "<h", IntScale(10)), 0x202)

		values, err := table.Unpack(0x202, []byte{0xFF, 0xFF}) // raw -1
		require.NoError(t, err)
		assert.Equal(t, []any{int64(0)}, values, "-1/10 truncates toward zero")

		values, err = table.Unpack(0x202, []byte{0xF1, 0xFF}) // raw -15
		require.NoError(t, err)
		assert.Equal(t, []any{int64(-1)}, values)
	})

	t.Run("float field under integer factor stays float", func(t *testing.T) {
		t.Parallel()
		table := NewTable()
		table.Add(mustFormat(t, "<d", IntScale(2)), 0x203)

		data, err := table.Pack(0x203, 1.5)
		require.NoError(t, err)
		values, err := table.Unpack(0x203, data)
		require.NoError(t, err)
		assert.InDelta(t, 1.5, values[0].(float64), 1e-12)
	})

	t.Run("pack rounds scaled integers to nearest", func(t *testing.T) {
		t.Parallel()
		table := NewTable()
		table.Add(mustFormat(t, "<H", FloatScale(3)), 0x204)

		// 2.4*3 = 7.2 rounds to 7, 2.5*3 = 7.5 rounds to 8.
		data, err := table.Pack(0x204, 2.4)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x07, 0x00}, data)

		data, err = table.Pack(0x204, 2.5)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x08, 0x00}, data)
	})
}

func TestPackUnpackPadding(t *testing.T) {
	t.Parallel()

	table := NewTable()
	table.Add(mustFormat(t, "<B2xB"), 0x301)

	data, err := table.Pack(0x301, uint64(0xAA), uint64(0xBB))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0x00, 0x00, 0xBB}, data)

	// Pad byte content is ignored on unpack and yields no value.
	values, err := table.Unpack(0x301, []byte{0xAA, 0xFF, 0xFF, 0xBB})
	require.NoError(t, err)
	assert.Equal(t, []any{uint64(0xAA), uint64(0xBB)}, values)
}

func TestPackUnpackPayloadless(t *testing.T) {
	t.Parallel()

	table := NewTable()
	table.Add(nil, 0x080)

	data, err := table.Pack(0x080)
	require.NoError(t, err)
	assert.Empty(t, data)

	values, err := table.Unpack(0x080, nil)
	require.NoError(t, err)
	require.NotNil(t, values)
	assert.Empty(t, values)

	_, err = table.Unpack(0x080, []byte{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestPackUnpackErrors(t *testing.T) {
	t.Parallel()

	table := NewTable()
	table.Add(mustFormat(t, "<bB"), 0x101)

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		_, err := table.Pack(0x999, int64(1))
		var unknown *UnknownCommandError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, uint32(0x999), unknown.ID)

		_, err = table.Unpack(0x998, []byte{1, 2})
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, uint32(0x998), unknown.ID)
	})

	t.Run("length mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := table.Unpack(0x101, []byte{1, 2, 3})
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("arity mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := table.Pack(0x101, int64(1))
		assert.ErrorIs(t, err, ErrArityMismatch)
	})

	t.Run("bad value type", func(t *testing.T) {
		t.Parallel()
		_, err := table.Pack(0x101, "seven", uint64(2))
		assert.ErrorIs(t, err, ErrBadValue)
	})
}

func TestSharedLayoutAcrossIDs(t *testing.T) {
	t.Parallel()

	table := NewTable()
	table.Add(mustFormat(t, "<H"), 0x181, 0x182, 0x183)
	require.Equal(t, 3, table.Len())

	for _, id := range []uint32{0x181, 0x182, 0x183} {
		values, err := table.Unpack(id, []byte{0x34, 0x12})
		require.NoError(t, err)
		assert.Equal(t, []any{uint64(0x1234)}, values)
	}

	_, ok := table.Lookup(0x184)
	assert.False(t, ok)
}
