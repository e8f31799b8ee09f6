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

package candump

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	canview "github.com/CanViewProject/go-canview"
)

func readAll(t *testing.T, r *Reader) []canview.Frame {
	t.Helper()
	var frames []canview.Frame
	for {
		f, err := r.ReadFrame()
		if err == io.EOF {
			return frames
		}
		require.NoError(t, err)
		frames = append(frames, f)
	}
}

func TestReadCandumpLog(t *testing.T) {
	t.Parallel()

	const log = `(1234.567890) can0 123#DEADBEEF
(1234.568000) can0 1A2B3C4D#01
(1234.568100) can0 456#R
not a frame line
(1234.568200) can0 080#
`
	frames := readAll(t, New(strings.NewReader(log)))
	require.Len(t, frames, 4)

	assert.Equal(t, uint32(0x123), frames[0].ID)
	assert.False(t, frames[0].Extended)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, frames[0].Data)
	assert.InDelta(t, 1234.567890, frames[0].Timestamp, 1e-9)

	assert.Equal(t, uint32(0x1A2B3C4D), frames[1].ID)
	assert.True(t, frames[1].Extended)
	assert.Equal(t, []byte{0x01}, frames[1].Data)

	assert.True(t, frames[2].RTR)
	assert.Empty(t, frames[2].Data)

	assert.Equal(t, uint32(0x080), frames[3].ID)
	assert.Empty(t, frames[3].Data)
}

func TestReadCandumpLogWithoutTimestamps(t *testing.T) {
	t.Parallel()

	frames := readAll(t, New(strings.NewReader("123#0102\n")))
	require.Len(t, frames, 1)
	assert.Equal(t, uint32(0x123), frames[0].ID)
	assert.Equal(t, []byte{0x01, 0x02}, frames[0].Data)
	assert.Equal(t, 0.0, frames[0].Timestamp)
}

func TestReadSavvyCANLog(t *testing.T) {
	t.Parallel()

	const log = `Time Stamp,ID,Extended,Dir,Bus,LEN,D1,D2,D3,D4,D5,D6,D7,D8
1000000,123,false,Rx,0,3,DE,AD,BE,0,0,0,0,0
2500000,1A2B3C4D,true,Rx,0,1,7F,0,0,0,0,0,0,0
3000000,456,false,Rx,0,9,0,0,0,0,0,0,0,0
`
	frames := readAll(t, New(strings.NewReader(log)))
	require.Len(t, frames, 2, "the 9-byte row is skipped")

	assert.Equal(t, uint32(0x123), frames[0].ID)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE}, frames[0].Data)
	assert.InDelta(t, 1.0, frames[0].Timestamp, 1e-9)

	assert.True(t, frames[1].Extended)
	assert.Equal(t, []byte{0x7F}, frames[1].Data)
	assert.InDelta(t, 2.5, frames[1].Timestamp, 1e-9)
}

func TestReaderEmptyLog(t *testing.T) {
	t.Parallel()

	r := New(strings.NewReader(""))
	_, err := r.ReadFrame()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, r.Close())
	assert.Equal(t, canview.SourceCandump, r.Type())
}
