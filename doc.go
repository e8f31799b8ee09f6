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

/*
Package canview provides the core of a CAN bus frame viewer: a frame data
model, a CANopen frame classifier and id/mask receive filters, designed to
work with the payload codec in the layout subpackage and the row-tracking
session in the session subpackage.

The package itself performs no I/O. Frames are produced by a Source, which
can be backed by multiple transports:

  - SLCAN: serial (LAWICEL) CAN adapters
  - SocketCAN: Linux raw CAN sockets
  - candump: candump text and SavvyCAN CSV log replay
  - cborlog: CBOR capture files written by this module
  - MCP2515: SPI-attached CAN controllers
  - virtual: in-memory bus for tests and demos

Basic Usage:

	import (
	    "github.com/CanViewProject/go-canview"
	    "github.com/CanViewProject/go-canview/layout"
	    "github.com/CanViewProject/go-canview/session"
	    "github.com/CanViewProject/go-canview/transport/slcan"
	)

	src, err := slcan.New("/dev/ttyUSB0", 500000)
	if err != nil {
	    log.Fatal(err)
	}
	defer src.Close()

	table := layout.NewTable()
	id, l, _ := layout.ParseEntry("181:<hh:10:10")
	table.Add(l, id)

	sess, _ := session.New(session.WithLayoutTable(table))
	for {
	    frame, err := src.ReadFrame()
	    if errors.Is(err, canview.ErrNoFrame) {
	        continue
	    }
	    if err != nil {
	        break
	    }
	    row := sess.OnFrame(frame)
	    _ = row
	}

Classification:

CANopen classification is a total function over frames. A frame that does
not match the CANopen communication-object addressing rules yields no
classification rather than an error:

	if c, ok := canview.Classify(frame); ok {
	    fmt.Printf("%s %s\n", c.Function, c.Node)
	}

Thread Safety:

Classification, packing and unpacking are pure functions. Sources and
sessions are not thread-safe; poll them from a single goroutine.
*/
package canview
