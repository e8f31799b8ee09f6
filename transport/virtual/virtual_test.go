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

package virtual

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	canview "github.com/CanViewProject/go-canview"
	"github.com/CanViewProject/go-canview/internal/frametest"
)

func TestVirtualSourceOrder(t *testing.T) {
	t.Parallel()

	s := New()
	defer s.Close()

	s.Send(frametest.Std(0x100, 1.0, 1))
	s.Send(frametest.Std(0x200, 2.0, 2))

	f, err := s.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x100), f.ID)

	f, err = s.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x200), f.ID)

	_, err = s.ReadFrame()
	assert.ErrorIs(t, err, canview.ErrNoFrame)
}

func TestVirtualSourceStampsTimestamps(t *testing.T) {
	t.Parallel()

	s := New()
	defer s.Close()

	s.Send(canview.Frame{ID: 0x100})
	f, err := s.ReadFrame()
	require.NoError(t, err)
	assert.Greater(t, f.Timestamp, 0.0)

	// An explicit timestamp is kept.
	s.Send(frametest.Std(0x100, 42.0))
	f, err = s.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, 42.0, f.Timestamp)
}

func TestVirtualSourceClose(t *testing.T) {
	t.Parallel()

	s := New()
	s.Send(frametest.Std(0x100, 1.0))
	require.NoError(t, s.Close())

	// Queued frames drain, then EOF.
	_, err := s.ReadFrame()
	require.NoError(t, err)
	_, err = s.ReadFrame()
	assert.ErrorIs(t, err, io.EOF)

	assert.ErrorIs(t, s.WriteFrame(frametest.Std(0x200, 2.0)), canview.ErrSourceClosed)

	// Send on a closed source is dropped silently.
	s.Send(frametest.Std(0x300, 3.0))
	_, err = s.ReadFrame()
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, canview.SourceVirtual, s.Type())
}
